package model

// Person 表示组织中的一名员工。
type Person struct {
	PersonID      string   // 人员唯一标识，如 P_001
	FullName      string   // 姓名
	Email         string   // 公司邮箱
	RoleTitle     string   // 职位名称
	Team          string   // 所属团队
	ManagerID     string   // 直属经理的人员标识，经理本人为空
	Skills        []string // 技能列表
	TenureMonths  int      // 在职月数
	Active        bool     // 是否在职
	PreviousTeams []string // 曾经所在的团队
	Timezone      string   // 时区
}

// RecordID 返回人员标识。
func (p *Person) RecordID() string { return p.PersonID }

// Fields 按输出顺序返回人员记录的全部字段。
func (p *Person) Fields() []Field {
	var manager interface{}
	if p.ManagerID != "" {
		manager = p.ManagerID
	}
	return []Field{
		{"person_id", p.PersonID},
		{"full_name", p.FullName},
		{"email", p.Email},
		{"role_title", p.RoleTitle},
		{"team", p.Team},
		{"manager_id", manager},
		{"skills", p.Skills},
		{"tenure_months", p.TenureMonths},
		{"active", p.Active},
		{"previous_teams", p.PreviousTeams},
		{"timezone", p.Timezone},
	}
}
