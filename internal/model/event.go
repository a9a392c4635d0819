package model

import "time"

// 用户事件类型。
const (
	EventViewed   = "VIEWED"
	EventSearched = "SEARCHED"
	EventClicked  = "CLICKED"
)

// UserEvent 表示演示人物的一次交互事件。
type UserEvent struct {
	EventID      string    // 事件唯一标识，如 EVENT_0001
	PersonID     string    // 触发事件的人员标识
	EventType    string    // 事件类型 VIEWED/SEARCHED/CLICKED
	ResourceType string    // 资源类型 DOC/THREAD/PACK/TOPIC/QUERY
	ResourceID   string    // 资源标识
	Timestamp    time.Time // 事件时间
	Query        string    // 搜索事件的查询词，其余事件为空
}

// RecordID 返回事件标识。
func (e *UserEvent) RecordID() string { return e.EventID }

// Fields 按输出顺序返回事件记录的全部字段。
func (e *UserEvent) Fields() []Field {
	var query interface{}
	if e.Query != "" {
		query = e.Query
	}
	return []Field{
		{"event_id", e.EventID},
		{"person_id", e.PersonID},
		{"event_type", e.EventType},
		{"resource_type", e.ResourceType},
		{"resource_id", e.ResourceID},
		{"timestamp", FormatTime(e.Timestamp)},
		{"query", query},
	}
}
