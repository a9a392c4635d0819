package model

import "time"

// StarterPack 表示面向新成员的团队入门资料包。
type StarterPack struct {
	PackID         string    // 资料包唯一标识，如 PACK_PRODUCT_001
	Team           string    // 所属团队
	Title          string    // 标题
	Summary        string    // 摘要
	DocIDs         []string  // 精选文档标识
	DashboardLinks []string  // 团队仪表盘链接
	Experts        []string  // 团队专家的人员标识
	UpdatedAt      time.Time // 最后更新时间
}

// RecordID 返回资料包标识。
func (p *StarterPack) RecordID() string { return p.PackID }

// Fields 按输出顺序返回资料包记录的全部字段。
func (p *StarterPack) Fields() []Field {
	return []Field{
		{"pack_id", p.PackID},
		{"team", p.Team},
		{"title", p.Title},
		{"summary", p.Summary},
		{"doc_ids", p.DocIDs},
		{"dashboard_links", p.DashboardLinks},
		{"experts", p.Experts},
		{"updated_at", FormatTime(p.UpdatedAt)},
	}
}
