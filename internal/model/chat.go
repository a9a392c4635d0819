package model

import "time"

// ChatThread 表示一个聊天频道中的会话。
type ChatThread struct {
	ThreadID     string    // 会话唯一标识，如 T_001
	Channel      string    // 频道名称
	TopicTags    []string  // 话题标签
	CreatedAt    time.Time // 创建时间
	Participants []string  // 参与者的人员标识
}

// RecordID 返回会话标识。
func (t *ChatThread) RecordID() string { return t.ThreadID }

// Fields 按输出顺序返回会话记录的全部字段。
func (t *ChatThread) Fields() []Field {
	return []Field{
		{"thread_id", t.ThreadID},
		{"channel", t.Channel},
		{"topic_tags", t.TopicTags},
		{"created_at", FormatTime(t.CreatedAt)},
		{"participants", t.Participants},
	}
}

// ChatMessage 表示会话中的一条消息。
type ChatMessage struct {
	MessageID      string    // 消息唯一标识，如 M_0001
	ThreadID       string    // 所属会话标识
	SenderPersonID string    // 发送者的人员标识
	Timestamp      time.Time // 发送时间
	Text           string    // 消息文本
	Emotions       string    // 情绪标签 calm/frustrated/urgent/optimistic/confused
	Mentions       []string  // 提及的人员标识
	DocRefs        []string  // 引用的文档标识
	ActionItems    []string  // 行动项
}

// RecordID 返回消息标识。
func (m *ChatMessage) RecordID() string { return m.MessageID }

// Fields 按输出顺序返回消息记录的全部字段。
func (m *ChatMessage) Fields() []Field {
	return []Field{
		{"message_id", m.MessageID},
		{"thread_id", m.ThreadID},
		{"sender_person_id", m.SenderPersonID},
		{"timestamp", FormatTime(m.Timestamp)},
		{"text", m.Text},
		{"emotions", m.Emotions},
		{"mentions", m.Mentions},
		{"doc_refs", m.DocRefs},
		{"action_items", m.ActionItems},
	}
}
