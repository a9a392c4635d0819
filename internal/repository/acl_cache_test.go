package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/model"
)

func newTestCache(t *testing.T) ACLCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewACLCache(client)
}

func TestACLCacheStoreAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	acls := []*model.ACL{
		{
			ResourceType: model.ResourceDoc,
			ResourceID:   "DOC_001",
			AllowTeams:   []string{"Finance"},
		},
		{
			ResourceType:   model.ResourceThread,
			ResourceID:     "T_001",
			AllowPersonIDs: []string{"P_001", "P_002"},
		},
	}
	require.NoError(t, cache.StoreACLs(ctx, acls))

	cached, err := cache.GetACL(ctx, model.ResourceDoc, "DOC_001")
	require.NoError(t, err)
	assert.Equal(t, []string{"Finance"}, cached.AllowTeams)
	assert.False(t, cached.ACLWarning)

	_, err = cache.GetACL(ctx, model.ResourceDoc, "DOC_999")
	assert.ErrorIs(t, err, ErrACLNotFound)
}

func TestACLCacheLaterRecordsOverride(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	acls := []*model.ACL{
		{ResourceType: model.ResourceDoc, ResourceID: "DOC_010", AllowTeams: []string{"Marketing", "Product"}},
		{ResourceType: model.ResourceDoc, ResourceID: "DOC_010", AllowTeams: []string{"Marketing"}, ACLWarning: true},
	}
	require.NoError(t, cache.StoreACLs(ctx, acls))

	cached, err := cache.GetACL(ctx, model.ResourceDoc, "DOC_010")
	require.NoError(t, err)
	assert.Equal(t, []string{"Marketing"}, cached.AllowTeams)
	assert.True(t, cached.ACLWarning, "the tightened warning record wins")
}

func TestACLCacheIsAllowed(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.StoreACLs(ctx, []*model.ACL{{
		ResourceType:   model.ResourceDoc,
		ResourceID:     "DOC_042",
		AllowTeams:     []string{"Finance"},
		AllowPersonIDs: []string{"P_007"},
		DenyPersonIDs:  []string{"P_025"},
	}}))

	cases := []struct {
		name     string
		personID string
		team     string
		want     bool
	}{
		{"team member allowed", "P_010", "Finance", true},
		{"allowlisted person from other team", "P_007", "Product", true},
		{"denied person even in allowed team", "P_025", "Finance", false},
		{"outsider rejected", "P_011", "Marketing", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := cache.IsAllowed(ctx, model.ResourceDoc, "DOC_042", tc.personID, tc.team)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestACLCacheClear(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.StoreACLs(ctx, []*model.ACL{
		{ResourceType: model.ResourcePack, ResourceID: "PACK_HR_005", AllowTeams: []string{"HR"}},
	}))
	require.NoError(t, cache.Clear(ctx))

	_, err := cache.GetACL(ctx, model.ResourcePack, "PACK_HR_005")
	assert.ErrorIs(t, err, ErrACLNotFound)
}
