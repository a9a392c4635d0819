package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/model"
	"org-synth-go/internal/registry"
)

func buildPermissions(t *testing.T, seed int64) (*registry.Registry, []*model.ACL) {
	t.Helper()
	cfg, reg, rng := newTestEnv(seed)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	NewDocumentBuilder(cfg, reg, rng).Build()
	NewCommunicationBuilder(cfg, reg, rng).Build()
	return reg, NewPermissionBuilder(cfg, reg, rng).Build()
}

func TestPermissionFinanceRestrictedDocs(t *testing.T) {
	_, acls := buildPermissions(t, 42)

	financeOnly := 0
	for _, acl := range acls {
		if acl.ResourceType == model.ResourceDoc && !acl.ACLWarning &&
			len(acl.AllowTeams) == 1 && acl.AllowTeams[0] == "Finance" &&
			len(acl.AllowPersonIDs) == 0 && len(acl.DenyPersonIDs) == 0 {
			financeOnly++
		}
	}
	// 10 份定向收紧，外加普通财务文档里 restricted 可见性的自然命中
	assert.GreaterOrEqual(t, financeOnly, 10)
}

func TestPermissionWarningCount(t *testing.T) {
	_, acls := buildPermissions(t, 42)

	warnings := 0
	for _, acl := range acls {
		if acl.ACLWarning {
			warnings++
			assert.Equal(t, model.ResourceDoc, acl.ResourceType)
			assert.Len(t, acl.AllowTeams, 1)
		}
	}
	// 3 份过度收窄的内部文档 + 最多 2 份被公开引用的受限文档
	assert.GreaterOrEqual(t, warnings, 3)
	assert.LessOrEqual(t, warnings, 5)
}

func TestPermissionInternalDocsAdmitManagers(t *testing.T) {
	reg, acls := buildPermissions(t, 7)

	found := 0
	for _, acl := range acls {
		if acl.ResourceType != model.ResourceDoc || acl.ACLWarning {
			continue
		}
		doc, ok := reg.Document(acl.ResourceID)
		if !ok || doc.Visibility != "internal" || len(acl.AllowPersonIDs) == 0 {
			continue
		}
		found++
		for _, id := range acl.AllowPersonIDs {
			assert.True(t, reg.IsManager(id), "internal doc allowlist entry %s must be a manager", id)
		}
	}
	assert.Greater(t, found, 0)
}

func TestPermissionThreadACLsFollowChannelPatterns(t *testing.T) {
	reg, acls := buildPermissions(t, 11)

	threadsByID := map[string]*model.ChatThread{}
	for _, th := range reg.Threads() {
		threadsByID[th.ThreadID] = th
	}

	for _, acl := range acls {
		if acl.ResourceType != model.ResourceThread {
			continue
		}
		th, ok := threadsByID[acl.ResourceID]
		require.True(t, ok)

		switch {
		case strings.Contains(th.Channel, "general"):
			assert.Len(t, acl.AllowTeams, 1)
		case strings.Contains(th.Channel, "cross-team"), th.Channel == "random":
			assert.Len(t, acl.AllowTeams, 5)
		case strings.Contains(th.Channel, "project"):
			assert.Empty(t, acl.AllowTeams)
			assert.Equal(t, th.Participants, acl.AllowPersonIDs)
		}
	}
}

func TestPermissionStarterPackACLs(t *testing.T) {
	reg, acls := buildPermissions(t, 42)

	packACLs := 0
	for _, acl := range acls {
		if acl.ResourceType != model.ResourcePack {
			continue
		}
		packACLs++
		require.Len(t, acl.AllowTeams, 2)
		assert.Equal(t, "HR", acl.AllowTeams[1])
		assert.Equal(t, reg.Managers(), acl.AllowPersonIDs)
	}
	assert.Equal(t, 5, packACLs)
}

func TestPermissionDenyListTargetsNewHires(t *testing.T) {
	reg, acls := buildPermissions(t, 42)

	denies := 0
	for _, acl := range acls {
		if len(acl.DenyPersonIDs) == 0 {
			continue
		}
		denies++
		assert.LessOrEqual(t, len(acl.DenyPersonIDs), 2)
		for _, id := range acl.DenyPersonIDs {
			p, ok := reg.Person(id)
			require.True(t, ok)
			assert.Less(t, p.TenureMonths, 6, "deny list targets new hires")
		}
	}
	assert.LessOrEqual(t, denies, 1)
}
