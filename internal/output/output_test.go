package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
)

func TestEncodeRecordPreservesFieldOrder(t *testing.T) {
	person := &model.Person{
		PersonID:     "P_001",
		FullName:     "Maya Chen",
		Email:        "maya.chen@technova.com",
		RoleTitle:    "Product Manager",
		Team:         "Product",
		Skills:       []string{"roadmapping", "analytics"},
		TenureMonths: 18,
		Active:       true,
		Timezone:     "America/Los_Angeles",
	}

	line, err := EncodeRecord(person)
	require.NoError(t, err)

	text := string(line)
	assert.True(t, strings.HasPrefix(text, `{"person_id":"P_001","full_name":"Maya Chen"`))
	assert.Contains(t, text, `"manager_id":null`)
	assert.Contains(t, text, `"previous_teams":[]`)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(line, &decoded))
	assert.Equal(t, "Product", decoded["team"])
}

func TestEncodeRecordNestedSections(t *testing.T) {
	brief := &model.Brief{
		BriefID:  "BRIEF_ORG_001",
		Type:     "organizational",
		Title:    "Weekly Organizational Brief - Week of January 1, 2024",
		WeekDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Sections: []model.BriefSection{
			{Name: "Key Achievements This Week", Items: []string{"a", "b"}},
			{Name: "Upcoming Milestones", Items: []string{"c"}},
		},
	}

	line, err := EncodeRecord(brief)
	require.NoError(t, err)

	text := string(line)
	achIdx := strings.Index(text, "Key Achievements This Week")
	mileIdx := strings.Index(text, "Upcoming Milestones")
	require.Greater(t, achIdx, 0)
	assert.Greater(t, mileIdx, achIdx, "section order must follow declaration order")
	assert.NotContains(t, text, `"team"`, "organizational briefs omit the team field")
}

func TestWriteJSONLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topics.jsonl")

	topics := []*model.Topic{
		{TopicID: "TOPIC_001", Name: "customer churn", EmergingScore: 0.42},
		{TopicID: "TOPIC_002", Name: "API integration", Aliases: []string{"API"}, EmergingScore: 0.5},
	}

	n, err := WriteJSONL(path, topics)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "TOPIC_001", first["topic_id"])
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hr_analytics.csv")

	n, err := WriteCSV(path,
		[]string{"date", "department", "headcount"},
		[][]string{
			{"2024-01-01", "Product", "6"},
			{"2024-02-01", "HR", "3"},
		})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,department,headcount", lines[0])
}

func TestManifestStructure(t *testing.T) {
	cfg := config.Default()
	stats := ManifestStats{
		People: 25, Documents: 160, ChatThreads: 290, ChatMessages: 2000,
		Managers: 3, DuplicateThreads: 50, EmotionalThreads: 20,
		Topics: 66, KnowledgeGraphEdges: 2500, Overlaps: 10,
		Meetings: 30, WeeklyBriefs: 17, ACLs: 300, UserEvents: 78,
		CSVFiles: []string{"marketing_metrics.csv", "hr_analytics.csv"},
	}

	manifest := BuildManifest(&cfg, stats)

	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, WriteManifest(path, manifest))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	info := decoded["dataset_info"].(map[string]interface{})
	assert.Equal(t, "TechNova Synthetic Dataset", info["name"])
	assert.Equal(t, "TechNova Inc", info["company"])

	files := decoded["files"].([]interface{})
	assert.Len(t, files, 14)

	statistics := decoded["statistics"].(map[string]interface{})
	assert.EqualValues(t, 2500, statistics["knowledge_graph_edges_count"])
	assert.EqualValues(t, 3, statistics["managers_count"])

	// 两空格缩进且键序稳定
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "{\n  \"dataset_info\""))
	assert.Less(t, strings.Index(text, "\"files\""), strings.Index(text, "\"statistics\""))
}

func TestManifestDeterministic(t *testing.T) {
	cfg := config.Default()
	stats := ManifestStats{People: 25, CSVFiles: []string{"finance_kpis.csv"}}

	dir := t.TempDir()
	p1 := filepath.Join(dir, "m1.json")
	p2 := filepath.Join(dir, "m2.json")
	require.NoError(t, WriteManifest(p1, BuildManifest(&cfg, stats)))
	require.NoError(t, WriteManifest(p2, BuildManifest(&cfg, stats)))

	b1, err := os.ReadFile(p1)
	require.NoError(t, err)
	b2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}
