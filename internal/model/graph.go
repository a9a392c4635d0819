package model

import "time"

// 知识图谱边类型。
const (
	EdgeAuthored     = "AUTHORED"
	EdgeViewed       = "VIEWED"
	EdgeMentioned    = "MENTIONED"
	EdgeCoOccursWith = "CO_OCCURS_WITH"
	EdgeSimilarTopic = "SIMILAR_TOPIC"
	EdgeTeamOverlap  = "TEAM_OVERLAP"
	EdgeWorkedWith   = "WORKED_WITH"
	EdgeVersionOf    = "VERSION_OF"
)

// 知识图谱节点类型。
const (
	NodePerson = "PERSON"
	NodeDoc    = "DOC"
	NodeTopic  = "TOPIC"
	NodeTeam   = "TEAM"
	NodeThread = "THREAD"
)

// KnowledgeGraphEdge 表示知识图谱中一条带权重的有向边。
type KnowledgeGraphEdge struct {
	EdgeID      string    // 边唯一标识，如 E_0001
	EdgeType    string    // 边类型，见上方常量
	SrcType     string    // 起点节点类型
	SrcID       string    // 起点标识
	DstType     string    // 终点节点类型
	DstID       string    // 终点标识
	Weight      float64   // 边权重，0 到 1
	FirstSeenAt time.Time // 首次观察到的时间
	LastSeenAt  time.Time // 最近观察到的时间
	Evidence    string    // 证据描述
}

// RecordID 返回边标识。
func (e *KnowledgeGraphEdge) RecordID() string { return e.EdgeID }

// Fields 按输出顺序返回边记录的全部字段。
func (e *KnowledgeGraphEdge) Fields() []Field {
	return []Field{
		{"edge_id", e.EdgeID},
		{"edge_type", e.EdgeType},
		{"src_type", e.SrcType},
		{"src_id", e.SrcID},
		{"dst_type", e.DstType},
		{"dst_id", e.DstID},
		{"weight", e.Weight},
		{"first_seen_at", FormatTime(e.FirstSeenAt)},
		{"last_seen_at", FormatTime(e.LastSeenAt)},
		{"evidence", e.Evidence},
	}
}

// Overlap 表示跨团队重叠洞察，指出多个团队对同一话题的潜在共同兴趣。
type Overlap struct {
	OverlapID         string   // 洞察唯一标识，如 OVERLAP_001
	TopicName         string   // 话题名称
	TeamsInvolved     []string // 涉及的团队
	PeopleSuggested   []string // 建议联系的人员标识
	SupportingDocs    []string // 支撑文档标识
	SupportingThreads []string // 支撑会话标识
	Summary           string   // 洞察摘要
	ActionSuggestion  string   // 建议采取的行动
	Confidence        float64  // 置信度，0 到 1
}

// RecordID 返回洞察标识。
func (o *Overlap) RecordID() string { return o.OverlapID }

// Fields 按输出顺序返回洞察记录的全部字段。
func (o *Overlap) Fields() []Field {
	return []Field{
		{"overlap_id", o.OverlapID},
		{"topic_name", o.TopicName},
		{"teams_involved", o.TeamsInvolved},
		{"people_suggested", o.PeopleSuggested},
		{"supporting_docs", o.SupportingDocs},
		{"supporting_threads", o.SupportingThreads},
		{"summary", o.Summary},
		{"action_suggestion", o.ActionSuggestion},
		{"confidence", o.Confidence},
	}
}
