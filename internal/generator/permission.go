package generator

import (
	"fmt"
	"strings"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
	"org-synth-go/internal/randx"
	"org-synth-go/internal/registry"
	"org-synth-go/pkg/log"
)

// 固定数量的权限测试场景。
const (
	financeRestrictedDocCount = 10
	misPermissionedDocCount   = 3
	chatLeakWarningDocCount   = 2
	denyListNewHireCount      = 2
)

// PermissionBuilder 为文档、会话和入门资料包生成访问控制列表，
// 并刻意注入少量权限异常场景用于下游检测。
type PermissionBuilder struct {
	cfg *config.Config
	reg *registry.Registry
	rng *randx.Source
}

// NewPermissionBuilder 创建权限生成器。
func NewPermissionBuilder(cfg *config.Config, reg *registry.Registry, rng *randx.Source) *PermissionBuilder {
	return &PermissionBuilder{cfg: cfg, reg: reg, rng: rng}
}

// Build 生成全部访问控制记录。
func (b *PermissionBuilder) Build() []*model.ACL {
	var acls []*model.ACL
	acls = append(acls, b.documentACLs()...)
	acls = append(acls, b.threadACLs()...)
	acls = append(acls, b.starterPackACLs()...)
	acls = append(acls, b.edgeCaseACLs()...)

	warnings := 0
	for _, acl := range acls {
		if acl.ACLWarning {
			warnings++
		}
	}
	log.Infow("权限生成完成", "acls", len(acls), "warnings", warnings)
	return acls
}

// documentACLs 先锁定财务受限文档，其余按可见性派生访问范围。
func (b *PermissionBuilder) documentACLs() []*model.ACL {
	docs := b.reg.Documents()

	var financeDocs []*model.Document
	for _, d := range docs {
		if d.Team == "Finance" {
			financeDocs = append(financeDocs, d)
		}
	}
	var restricted []*model.Document
	if len(financeDocs) >= financeRestrictedDocCount {
		restricted = randx.Sample(b.rng, financeDocs, financeRestrictedDocCount)
	} else {
		// 财务文档不足时补充高密级文档
		pool := append([]*model.Document{}, financeDocs...)
		for _, d := range docs {
			if d.Confidentiality == "high" {
				pool = append(pool, d)
			}
		}
		restricted = randx.Sample(b.rng, pool, min(financeRestrictedDocCount, len(pool)))
	}

	restrictedSet := make(map[string]bool, len(restricted))
	var acls []*model.ACL
	for _, d := range restricted {
		restrictedSet[d.DocID] = true
		acls = append(acls, &model.ACL{
			ResourceType: model.ResourceDoc,
			ResourceID:   d.DocID,
			AllowTeams:   []string{"Finance"},
		})
	}

	for _, d := range docs {
		if restrictedSet[d.DocID] {
			continue
		}
		if acl := b.documentACL(d); acl != nil {
			acls = append(acls, acl)
		}
	}
	return acls
}

func (b *PermissionBuilder) documentACL(d *model.Document) *model.ACL {
	switch d.Visibility {
	case "public":
		return &model.ACL{
			ResourceType: model.ResourceDoc,
			ResourceID:   d.DocID,
			AllowTeams:   b.cfg.Organization.Teams,
		}
	case "internal":
		// 管理者可以访问所有内部文档
		return &model.ACL{
			ResourceType:   model.ResourceDoc,
			ResourceID:     d.DocID,
			AllowTeams:     []string{d.Team},
			AllowPersonIDs: b.reg.Managers(),
		}
	case "restricted":
		return &model.ACL{
			ResourceType: model.ResourceDoc,
			ResourceID:   d.DocID,
			AllowTeams:   []string{d.Team},
		}
	}
	return nil
}

// threadACLs 按频道命名模式决定会话的访问范围。
func (b *PermissionBuilder) threadACLs() []*model.ACL {
	var acls []*model.ACL
	for _, thread := range b.reg.Threads() {
		switch {
		case strings.Contains(thread.Channel, "general"):
			team := capitalize(strings.SplitN(thread.Channel, "-", 2)[0])
			if !b.isKnownTeam(team) {
				continue
			}
			acls = append(acls, &model.ACL{
				ResourceType: model.ResourceThread,
				ResourceID:   thread.ThreadID,
				AllowTeams:   []string{team},
			})
		case strings.Contains(thread.Channel, "cross-team"):
			acls = append(acls, &model.ACL{
				ResourceType: model.ResourceThread,
				ResourceID:   thread.ThreadID,
				AllowTeams:   b.cfg.Organization.Teams,
			})
		case strings.Contains(thread.Channel, "project"):
			acls = append(acls, &model.ACL{
				ResourceType:   model.ResourceThread,
				ResourceID:     thread.ThreadID,
				AllowTeams:     []string{},
				AllowPersonIDs: thread.Participants,
			})
		case thread.Channel == "random":
			acls = append(acls, &model.ACL{
				ResourceType: model.ResourceThread,
				ResourceID:   thread.ThreadID,
				AllowTeams:   b.cfg.Organization.Teams,
			})
		}
	}
	return acls
}

// starterPackACLs 允许本团队、HR 和全体管理者访问团队入门资料包。
func (b *PermissionBuilder) starterPackACLs() []*model.ACL {
	var acls []*model.ACL
	for i, team := range b.cfg.Organization.Teams {
		acls = append(acls, &model.ACL{
			ResourceType:   model.ResourcePack,
			ResourceID:     fmt.Sprintf("PACK_%s_%03d", strings.ToUpper(team), i+1),
			AllowTeams:     []string{team, "HR"},
			AllowPersonIDs: b.reg.Managers(),
		})
	}
	return acls
}

// edgeCaseACLs 注入三类异常：收窄过度的内部文档、被公开引用的受限文档、
// 以及对新人显式拒绝的高密级文档。
func (b *PermissionBuilder) edgeCaseACLs() []*model.ACL {
	var acls []*model.ACL
	docs := b.reg.Documents()

	var internalDocs, restrictedDocs, sensitiveDocs []*model.Document
	for _, d := range docs {
		switch {
		case d.Visibility == "internal":
			internalDocs = append(internalDocs, d)
		case d.Visibility == "restricted":
			restrictedDocs = append(restrictedDocs, d)
		}
		if d.Confidentiality == "high" {
			sensitiveDocs = append(sensitiveDocs, d)
		}
	}

	if len(internalDocs) >= misPermissionedDocCount {
		for _, d := range randx.Sample(b.rng, internalDocs, misPermissionedDocCount) {
			acls = append(acls, &model.ACL{
				ResourceType: model.ResourceDoc,
				ResourceID:   d.DocID,
				AllowTeams:   []string{d.Team},
				ACLWarning:   true,
			})
		}
	}

	if len(restrictedDocs) > 0 {
		leaked := randx.Sample(b.rng, restrictedDocs,
			min(chatLeakWarningDocCount, len(restrictedDocs)))
		for _, d := range leaked {
			acls = append(acls, &model.ACL{
				ResourceType: model.ResourceDoc,
				ResourceID:   d.DocID,
				AllowTeams:   []string{d.Team},
				ACLWarning:   true,
			})
		}
	}

	if len(sensitiveDocs) > 0 {
		target := randx.Choice(b.rng, sensitiveDocs)
		var newHires []string
		for _, p := range b.reg.People() {
			if p.TenureMonths < 6 {
				newHires = append(newHires, p.PersonID)
			}
		}
		if len(newHires) > 0 {
			acls = append(acls, &model.ACL{
				ResourceType:  model.ResourceDoc,
				ResourceID:    target.DocID,
				AllowTeams:    []string{target.Team},
				DenyPersonIDs: newHires[:min(denyListNewHireCount, len(newHires))],
			})
		}
	}
	return acls
}

func (b *PermissionBuilder) isKnownTeam(team string) bool {
	for _, t := range b.cfg.Organization.Teams {
		if t == team {
			return true
		}
	}
	return false
}
