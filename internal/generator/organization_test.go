package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/config"
	"org-synth-go/internal/randx"
	"org-synth-go/internal/registry"
)

func newTestEnv(seed int64) (*config.Config, *registry.Registry, *randx.Source) {
	cfg := config.Default()
	rng := randx.New(seed)
	reg := registry.New(cfg.Organization.Teams, rng)
	return &cfg, reg, rng
}

func TestOrganizationBuildHeadcountAndManagers(t *testing.T) {
	cfg, reg, rng := newTestEnv(42)
	b := NewOrganizationBuilder(cfg, reg, rng)
	people := b.Build()

	require.Len(t, people, 25)
	require.Len(t, b.ManagerIDs(), 3)

	managerSet := map[string]bool{}
	for _, id := range b.ManagerIDs() {
		managerSet[id] = true
	}

	flagged := 0
	for _, p := range people {
		if p.ManagerID == "" {
			flagged++
			assert.True(t, managerSet[p.PersonID], "only selected managers may lack a manager_id")
		} else {
			assert.True(t, managerSet[p.ManagerID], "manager_id must point at a selected manager")
			assert.NotEqual(t, p.PersonID, p.ManagerID, "nobody manages themselves")
		}
	}
	assert.Equal(t, 3, flagged)
}

func TestOrganizationDemoPersonasComeFirst(t *testing.T) {
	cfg, reg, rng := newTestEnv(7)
	people := NewOrganizationBuilder(cfg, reg, rng).Build()

	require.GreaterOrEqual(t, len(people), 3)
	assert.Equal(t, "Maya Chen", people[0].FullName)
	assert.Equal(t, "P_001", people[0].PersonID)
	assert.Equal(t, "Product", people[0].Team)
	assert.Equal(t, "maya.chen@technova.com", people[0].Email)

	assert.Equal(t, "Rahul Sharma", people[1].FullName)
	assert.Equal(t, "Marketing", people[1].Team)

	priya := people[2]
	assert.Equal(t, "Priya Patel", priya.FullName)
	assert.Equal(t, "New Hire", priya.RoleTitle)
	assert.GreaterOrEqual(t, priya.TenureMonths, 1)
	assert.LessOrEqual(t, priya.TenureMonths, 3)
}

func TestOrganizationUniqueNamesAndIDs(t *testing.T) {
	cfg, reg, rng := newTestEnv(11)
	people := NewOrganizationBuilder(cfg, reg, rng).Build()

	names := map[string]bool{}
	ids := map[string]bool{}
	for _, p := range people {
		assert.False(t, names[p.FullName], "duplicate name %s", p.FullName)
		assert.False(t, ids[p.PersonID], "duplicate id %s", p.PersonID)
		names[p.FullName] = true
		ids[p.PersonID] = true
	}
}

func TestOrganizationRoundRobinTeams(t *testing.T) {
	cfg, reg, rng := newTestEnv(13)
	people := NewOrganizationBuilder(cfg, reg, rng).Build()

	counts := map[string]int{}
	for _, p := range people {
		counts[p.Team]++
	}
	// 演示人物固定落在各自团队，其余按序号轮转，五个团队都不为空
	total := 0
	for _, team := range cfg.Organization.Teams {
		assert.Greater(t, counts[team], 0, "team %s must not be empty", team)
		total += counts[team]
	}
	assert.Equal(t, 25, total)
}

func TestOrganizationTenureBounds(t *testing.T) {
	cfg, reg, rng := newTestEnv(17)
	people := NewOrganizationBuilder(cfg, reg, rng).Build()

	for _, p := range people {
		assert.GreaterOrEqual(t, p.TenureMonths, 1)
		assert.LessOrEqual(t, p.TenureMonths, 72)
		if len(p.PreviousTeams) > 0 {
			assert.GreaterOrEqual(t, p.TenureMonths, 12, "only tenured people transfer teams")
			assert.NotEqual(t, p.Team, p.PreviousTeams[0])
		}
	}
}

func TestOrganizationDeterministicForSameSeed(t *testing.T) {
	cfgA, regA, rngA := newTestEnv(42)
	peopleA := NewOrganizationBuilder(cfgA, regA, rngA).Build()

	cfgB, regB, rngB := newTestEnv(42)
	peopleB := NewOrganizationBuilder(cfgB, regB, rngB).Build()

	require.Equal(t, len(peopleA), len(peopleB))
	for i := range peopleA {
		assert.Equal(t, peopleA[i].FullName, peopleB[i].FullName)
		assert.Equal(t, peopleA[i].RoleTitle, peopleB[i].RoleTitle)
		assert.Equal(t, peopleA[i].Team, peopleB[i].Team)
		assert.Equal(t, peopleA[i].ManagerID, peopleB[i].ManagerID)
	}
}
