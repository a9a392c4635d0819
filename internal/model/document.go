package model

import "time"

// Document 表示知识库中的一篇文档。
type Document struct {
	DocID           string    // 文档唯一标识，如 DOC_001
	Title           string    // 标题
	Content         string    // 正文内容
	Team            string    // 所属团队
	AuthorPersonID  string    // 作者的人员标识
	CoAuthors       []string  // 合著者的人员标识
	Tags            []string  // 标签列表
	CreatedAt       time.Time // 创建时间
	UpdatedAt       time.Time // 最后更新时间
	Status          string    // 状态 draft/final
	Visibility      string    // 可见性 public/internal/restricted
	SourceType      string    // 来源类型
	Language        string    // 语言代码
	Confidentiality string    // 保密级别 low/medium/high
	RelatedDocIDs   []string  // 关联文档标识
}

// RecordID 返回文档标识。
func (d *Document) RecordID() string { return d.DocID }

// Fields 按输出顺序返回文档记录的全部字段。
func (d *Document) Fields() []Field {
	return []Field{
		{"doc_id", d.DocID},
		{"title", d.Title},
		{"content", d.Content},
		{"team", d.Team},
		{"author_person_id", d.AuthorPersonID},
		{"co_authors", d.CoAuthors},
		{"tags", d.Tags},
		{"created_at", FormatTime(d.CreatedAt)},
		{"updated_at", FormatTime(d.UpdatedAt)},
		{"status", d.Status},
		{"visibility", d.Visibility},
		{"source_type", d.SourceType},
		{"language", d.Language},
		{"confidentiality", d.Confidentiality},
		{"related_doc_ids", d.RelatedDocIDs},
	}
}
