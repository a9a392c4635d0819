package model

// Topic 表示知识图谱中的一个话题节点。
type Topic struct {
	TopicID         string   // 话题唯一标识，如 TOPIC_001
	Name            string   // 话题名称
	Aliases         []string // 别名列表
	EmergingScore   float64  // 新兴程度评分，0 到 1
	RelatedTopicIDs []string // 关联话题标识
}

// RecordID 返回话题标识。
func (t *Topic) RecordID() string { return t.TopicID }

// Fields 按输出顺序返回话题记录的全部字段。
func (t *Topic) Fields() []Field {
	return []Field{
		{"topic_id", t.TopicID},
		{"name", t.Name},
		{"aliases", t.Aliases},
		{"emerging_score", t.EmergingScore},
		{"related_topic_ids", t.RelatedTopicIDs},
	}
}
