package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/config"
)

func runPipeline(t *testing.T, dir string) *Result {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = dir
	res, err := NewProcessor(&cfg).Run()
	require.NoError(t, err)
	return res
}

func TestPipelineWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	res := runPipeline(t, dir)

	expected := []string{
		"people.jsonl", "documents.jsonl", "chat_threads.jsonl", "chat_messages.jsonl",
		"topics.jsonl", "knowledge_graph_edges.jsonl", "overlaps.jsonl",
		"meetings.jsonl", "weekly_briefs.jsonl", "starter_packs.jsonl",
		"acls.jsonl", "user_events.jsonl",
		"marketing_metrics.csv", "product_adoption.csv", "customer_churn.csv",
		"finance_kpis.csv", "hr_analytics.csv",
		"manifest.json",
	}
	for _, name := range expected {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "missing artifact %s", name)
		assert.Greater(t, info.Size(), int64(0), "%s must not be empty", name)
	}

	assert.Len(t, res.People, 25)
	assert.Len(t, res.Documents, 160)
	assert.Len(t, res.Edges, 2500)
	assert.Len(t, res.Meetings, 30)
	assert.Len(t, res.Briefs, 17)
	assert.Len(t, res.StarterPacks, 5)
	require.NotNil(t, res.ValidationReport)
	assert.True(t, res.ValidationReport.IsValid())
}

func TestPipelineManifestMatchesArtifacts(t *testing.T) {
	dir := t.TempDir()
	res := runPipeline(t, dir)

	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)

	var manifest map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &manifest))

	stats := manifest["statistics"].(map[string]interface{})
	assert.EqualValues(t, len(res.People), stats["people_count"])
	assert.EqualValues(t, len(res.Messages), stats["chat_messages_count"])
	assert.EqualValues(t, 50, stats["duplicate_discussions"])
	assert.EqualValues(t, 20, stats["emotional_threads"])
	assert.EqualValues(t, len(res.ACLs), stats["acls_count"])

	files := manifest["files"].([]interface{})
	assert.Len(t, files, 17)
}

func TestPipelineByteIdenticalReruns(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	runPipeline(t, dir1)
	runPipeline(t, dir2)

	entries, err := os.ReadDir(dir1)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		b1, err := os.ReadFile(filepath.Join(dir1, entry.Name()))
		require.NoError(t, err)
		b2, err := os.ReadFile(filepath.Join(dir2, entry.Name()))
		require.NoError(t, err)
		assert.Equal(t, b1, b2, "artifact %s must be byte identical across reruns", entry.Name())
	}
}
