package model

// 受控资源类型。
const (
	ResourceDoc    = "DOC"
	ResourceThread = "THREAD"
	ResourcePack   = "PACK"
	ResourceTopic  = "TOPIC"
)

// ACL 表示一条资源访问控制记录。
type ACL struct {
	ResourceType   string   // 资源类型 DOC/THREAD/PACK
	ResourceID     string   // 资源标识
	AllowPersonIDs []string // 允许访问的人员标识
	AllowTeams     []string // 允许访问的团队
	DenyPersonIDs  []string // 明确拒绝的人员标识
	ACLWarning     bool     // 权限与资源可见性刻意不一致时置真
}

// RecordID 返回资源标识。
func (a *ACL) RecordID() string { return a.ResourceID }

// Fields 按输出顺序返回权限记录的全部字段。
func (a *ACL) Fields() []Field {
	return []Field{
		{"resource_type", a.ResourceType},
		{"resource_id", a.ResourceID},
		{"allow_person_ids", a.AllowPersonIDs},
		{"allow_teams", a.AllowTeams},
		{"deny_person_ids", a.DenyPersonIDs},
		{"acl_warning", a.ACLWarning},
	}
}
