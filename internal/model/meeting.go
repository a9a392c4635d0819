package model

import "time"

// Meeting 表示一份会议纪要。
type Meeting struct {
	MeetingID        string    // 会议唯一标识，如 MEET_001
	Title            string    // 会议标题
	Attendees        []string  // 参会者的人员标识
	Date             time.Time // 会议时间
	Summary          string    // 会议纪要正文
	Decisions        []string  // 会议决议
	ActionItems      []string  // 行动项
	TeamDependencies []string  // 团队间依赖描述
}

// RecordID 返回会议标识。
func (m *Meeting) RecordID() string { return m.MeetingID }

// Fields 按输出顺序返回会议记录的全部字段。
func (m *Meeting) Fields() []Field {
	return []Field{
		{"meeting_id", m.MeetingID},
		{"title", m.Title},
		{"attendees", m.Attendees},
		{"date", FormatTime(m.Date)},
		{"summary", m.Summary},
		{"decisions", m.Decisions},
		{"action_items", m.ActionItems},
		{"team_dependencies", m.TeamDependencies},
	}
}

// BriefSection 表示简报中的一个小节及其条目。
type BriefSection struct {
	Name  string   // 小节标题
	Items []string // 小节内容条目
}

// Brief 表示一份每周简报，分为组织级和团队级两类。
type Brief struct {
	BriefID  string         // 简报唯一标识
	Type     string         // 类型 organizational/team
	Team     string         // 团队级简报所属团队，组织级为空
	Title    string         // 简报标题
	WeekDate time.Time      // 简报对应的周
	Sections []BriefSection // 按固定顺序排列的内容小节
}

// RecordID 返回简报标识。
func (b *Brief) RecordID() string { return b.BriefID }

// Fields 按输出顺序返回简报记录的全部字段。团队字段仅在团队级简报中出现。
func (b *Brief) Fields() []Field {
	sections := make(OrderedMap, 0, len(b.Sections))
	for _, s := range b.Sections {
		sections = append(sections, Field{s.Name, s.Items})
	}
	fields := []Field{
		{"brief_id", b.BriefID},
		{"type", b.Type},
	}
	if b.Team != "" {
		fields = append(fields, Field{"team", b.Team})
	}
	fields = append(fields,
		Field{"title", b.Title},
		Field{"week_date", FormatTime(b.WeekDate)},
		Field{"content_sections", sections},
		Field{"created_at", FormatTime(b.WeekDate)},
	)
	return fields
}
