package generator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
	"org-synth-go/internal/randx"
	"org-synth-go/internal/registry"
)

func buildKnowledgeGraph(t *testing.T, seed int64) ([]*model.Topic, []*model.KnowledgeGraphEdge, []*model.Overlap) {
	t.Helper()
	cfg, reg, rng := newTestEnv(seed)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	NewDocumentBuilder(cfg, reg, rng).Build()
	_, messages := NewCommunicationBuilder(cfg, reg, rng).Build()
	return NewKnowledgeGraphBuilder(cfg, reg, rng, messages).Build()
}

func TestKnowledgeGraphEdgeCountExact(t *testing.T) {
	_, edges, _ := buildKnowledgeGraph(t, 42)
	assert.Len(t, edges, 2500)

	seen := map[string]bool{}
	for _, e := range edges {
		assert.False(t, seen[e.EdgeID], "edge id %s duplicated", e.EdgeID)
		seen[e.EdgeID] = true
		assert.False(t, e.LastSeenAt.Before(e.FirstSeenAt))
		assert.Greater(t, e.Weight, 0.0)
		assert.LessOrEqual(t, e.Weight, 1.0)
	}
}

func TestKnowledgeGraphTopicCatalog(t *testing.T) {
	topics, _, _ := buildKnowledgeGraph(t, 42)

	// 20 核心 + 5 团队 x 8 + 6 新兴
	require.Len(t, topics, 66)
	for i, topic := range topics {
		assert.Equal(t, fmt.Sprintf("TOPIC_%03d", i+1), topic.TopicID)
		assert.LessOrEqual(t, len(topic.RelatedTopicIDs), 4)
	}

	// 末尾六个是新兴话题，得分区间更高
	for _, topic := range topics[60:] {
		assert.GreaterOrEqual(t, topic.EmergingScore, 0.7)
		assert.LessOrEqual(t, topic.EmergingScore, 0.9)
	}
	for _, topic := range topics[:20] {
		assert.GreaterOrEqual(t, topic.EmergingScore, 0.3)
		assert.LessOrEqual(t, topic.EmergingScore, 0.6)
	}
}

func TestKnowledgeGraphTopicAliases(t *testing.T) {
	topics, _, _ := buildKnowledgeGraph(t, 42)

	byName := map[string]*model.Topic{}
	for _, topic := range topics {
		byName[topic.Name] = topic
	}

	ux, ok := byName["user experience"]
	require.True(t, ok)
	assert.Contains(t, ux.Aliases, "UX")

	api, ok := byName["API integration"]
	require.True(t, ok)
	assert.Contains(t, api.Aliases, "application_programming_interface")
}

func TestKnowledgeGraphAuthoredEdgesResolve(t *testing.T) {
	cfg, reg, rng := newTestEnv(7)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	NewDocumentBuilder(cfg, reg, rng).Build()
	_, messages := NewCommunicationBuilder(cfg, reg, rng).Build()
	_, edges, _ := NewKnowledgeGraphBuilder(cfg, reg, rng, messages).Build()

	authored := 0
	for _, e := range edges {
		if e.EdgeType != model.EdgeAuthored {
			continue
		}
		authored++
		_, ok := reg.Person(e.SrcID)
		assert.True(t, ok, "edge %s source person must resolve", e.EdgeID)
		_, ok = reg.Document(e.DstID)
		assert.True(t, ok, "edge %s target document must resolve", e.EdgeID)
	}
	assert.Greater(t, authored, 0)
}

func TestKnowledgeGraphOverlaps(t *testing.T) {
	_, _, overlaps := buildKnowledgeGraph(t, 42)
	require.Len(t, overlaps, 10)

	first := overlaps[0]
	assert.Equal(t, "OVERLAP_001", first.OverlapID)
	assert.Equal(t, "customer churn", first.TopicName)
	assert.ElementsMatch(t, []string{"Marketing", "Product"}, first.TeamsInvolved)

	for _, ov := range overlaps {
		assert.GreaterOrEqual(t, ov.Confidence, 0.5)
		assert.LessOrEqual(t, ov.Confidence, 1.0)
		assert.LessOrEqual(t, len(ov.SupportingDocs), 5)
		assert.LessOrEqual(t, len(ov.SupportingThreads), 3)
		assert.LessOrEqual(t, len(ov.PeopleSuggested), 6)
		assert.NotEmpty(t, ov.ActionSuggestion)
	}
}

func TestKnowledgeGraphDeterministic(t *testing.T) {
	topics1, edges1, overlaps1 := buildKnowledgeGraph(t, 42)
	topics2, edges2, overlaps2 := buildKnowledgeGraph(t, 42)

	require.Equal(t, len(edges1), len(edges2))
	for i := range edges1 {
		assert.Equal(t, edges1[i].EdgeID, edges2[i].EdgeID)
		assert.Equal(t, edges1[i].EdgeType, edges2[i].EdgeType)
		assert.Equal(t, edges1[i].SrcID, edges2[i].SrcID)
		assert.Equal(t, edges1[i].DstID, edges2[i].DstID)
	}
	require.Equal(t, len(topics1), len(topics2))
	for i := range topics1 {
		assert.Equal(t, topics1[i].RelatedTopicIDs, topics2[i].RelatedTopicIDs)
	}
	require.Equal(t, len(overlaps1), len(overlaps2))
	for i := range overlaps1 {
		assert.Equal(t, overlaps1[i].SupportingDocs, overlaps2[i].SupportingDocs)
	}
}

func TestKnowledgeGraphTeamOverlapEvidence(t *testing.T) {
	_, edges, _ := buildKnowledgeGraph(t, 3)

	for _, e := range edges {
		if e.EdgeType != model.EdgeTeamOverlap {
			continue
		}
		assert.Less(t, e.SrcID, e.DstID, "team pairs are emitted in lexical order")
		assert.True(t, strings.HasPrefix(e.Evidence, "Shared topics: "))
	}
}

// 注册表为空时补边不可能成功，Build 必须带告警返回而不是空转
func TestKnowledgeGraphEdgeFillStopsWithoutEntities(t *testing.T) {
	cfg := config.Default()
	rng := randx.New(3)
	reg := registry.New(cfg.Organization.Teams, rng)

	topics, edges, overlaps := NewKnowledgeGraphBuilder(&cfg, reg, rng, nil).Build()

	assert.Len(t, topics, 66)
	assert.Less(t, len(edges), cfg.Volumes.KnowledgeGraphEdges, "filler cannot reach the target")
	for _, e := range edges {
		assert.Equal(t, model.EdgeSimilarTopic, e.EdgeType,
			"only topic relationships survive an empty registry")
	}
	assert.Len(t, overlaps, 10)
}
