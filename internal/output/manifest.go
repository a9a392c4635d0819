package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
)

// ManifestStats 汇总各产物的记录数，供清单文件引用。
type ManifestStats struct {
	People              int
	Documents           int
	ChatThreads         int
	ChatMessages        int
	Managers            int
	DuplicateThreads    int
	EmotionalThreads    int
	Topics              int
	KnowledgeGraphEdges int
	Overlaps            int
	Meetings            int
	WeeklyBriefs        int
	ACLs                int
	UserEvents          int
	CSVFiles            []string
}

// jsonlFileDescriptions 按固定顺序列出全部 JSONL 产物及其说明。
var jsonlFileDescriptions = []struct {
	name        string
	description string
}{
	{"people.jsonl", "Employee profiles and organizational structure"},
	{"documents.jsonl", "Organizational documents across all teams"},
	{"chat_threads.jsonl", "Chat threads and conversation channels"},
	{"chat_messages.jsonl", "Individual chat messages with emotional context"},
	{"topics.jsonl", "Topics and themes across the organization"},
	{"knowledge_graph_edges.jsonl", "Knowledge graph relationships between entities"},
	{"overlaps.jsonl", "Cross-team collaboration opportunities and overlaps"},
	{"meetings.jsonl", "Meeting summaries with decisions and action items"},
	{"weekly_briefs.jsonl", "Weekly organizational and team briefs"},
	{"starter_packs.jsonl", "Onboarding starter packs for each team"},
	{"acls.jsonl", "Access control lists and permissions"},
	{"user_events.jsonl", "User interaction events for personalization"},
}

// BuildManifest 组装数据集清单。生成时间取数据窗口结束日期，
// 保证同一份配置重跑得到逐字节一致的清单。
func BuildManifest(cfg *config.Config, stats ManifestStats) model.OrderedMap {
	end, _ := cfg.EndTime()
	datasetName := strings.Split(cfg.Organization.CompanyName, " ")[0] + " Synthetic Dataset"

	recordCounts := map[string]int{
		"people.jsonl":                stats.People,
		"documents.jsonl":             stats.Documents,
		"chat_threads.jsonl":          stats.ChatThreads,
		"chat_messages.jsonl":         stats.ChatMessages,
		"topics.jsonl":                stats.Topics,
		"knowledge_graph_edges.jsonl": stats.KnowledgeGraphEdges,
		"overlaps.jsonl":              stats.Overlaps,
		"meetings.jsonl":              stats.Meetings,
		"weekly_briefs.jsonl":         stats.WeeklyBriefs,
		"starter_packs.jsonl":         len(cfg.Organization.Teams),
		"acls.jsonl":                  stats.ACLs,
		"user_events.jsonl":           stats.UserEvents,
	}

	var files []interface{}
	for _, f := range jsonlFileDescriptions {
		files = append(files, model.OrderedMap{
			{Key: "name", Value: f.name},
			{Key: "records", Value: recordCounts[f.name]},
			{Key: "format", Value: "jsonl"},
			{Key: "description", Value: f.description},
		})
	}
	for _, csvFile := range stats.CSVFiles {
		files = append(files, model.OrderedMap{
			{Key: "name", Value: csvFile},
			{Key: "format", Value: "csv"},
			{Key: "description", Value: "Business metrics data for " + strings.Split(csvFile, "_")[0]},
		})
	}

	return model.OrderedMap{
		{Key: "dataset_info", Value: model.OrderedMap{
			{Key: "name", Value: datasetName},
			{Key: "version", Value: "1.0.0"},
			{Key: "generated_at", Value: end.Format(model.TimestampLayout)},
			{Key: "company", Value: cfg.Organization.CompanyName},
		}},
		{Key: "files", Value: files},
		{Key: "statistics", Value: model.OrderedMap{
			{Key: "teams", Value: len(cfg.Organization.Teams)},
			{Key: "people_count", Value: stats.People},
			{Key: "documents_count", Value: stats.Documents},
			{Key: "chat_threads_count", Value: stats.ChatThreads},
			{Key: "chat_messages_count", Value: stats.ChatMessages},
			{Key: "managers_count", Value: stats.Managers},
			{Key: "duplicate_discussions", Value: stats.DuplicateThreads},
			{Key: "emotional_threads", Value: stats.EmotionalThreads},
			{Key: "csv_files_count", Value: len(stats.CSVFiles)},
			{Key: "topics_count", Value: stats.Topics},
			{Key: "knowledge_graph_edges_count", Value: stats.KnowledgeGraphEdges},
			{Key: "cross_team_overlaps_count", Value: stats.Overlaps},
			{Key: "meetings_count", Value: stats.Meetings},
			{Key: "weekly_briefs_count", Value: stats.WeeklyBriefs},
			{Key: "starter_packs_count", Value: len(cfg.Organization.Teams)},
			{Key: "acls_count", Value: stats.ACLs},
			{Key: "user_events_count", Value: stats.UserEvents},
		}},
		{Key: "data_ranges", Value: model.OrderedMap{
			{Key: "start_date", Value: cfg.Temporal.StartDate},
			{Key: "end_date", Value: cfg.Temporal.EndDate},
		}},
		{Key: "teams", Value: cfg.Organization.Teams},
	}
}

// WriteManifest 将清单以两空格缩进的 JSON 写入文件。
func WriteManifest(path string, manifest model.OrderedMap) error {
	var buf bytes.Buffer
	if err := encodeIndented(&buf, manifest, 0); err != nil {
		return fmt.Errorf("编码清单失败: %w", err)
	}
	buf.WriteByte('\n')
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入清单 %s 失败: %w", path, err)
	}
	return nil
}

// encodeIndented 递归输出带缩进的有序 JSON。
func encodeIndented(buf *bytes.Buffer, v interface{}, level int) error {
	indent := strings.Repeat("  ", level)
	childIndent := strings.Repeat("  ", level+1)

	switch val := v.(type) {
	case model.OrderedMap:
		if len(val) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, f := range val {
			key, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.WriteString(childIndent)
			buf.Write(key)
			buf.WriteString(": ")
			if err := encodeIndented(buf, f.Value, level+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent)
		buf.WriteByte('}')
	case []interface{}:
		return encodeIndentedList(buf, val, level)
	case []string:
		items := make([]interface{}, len(val))
		for i, s := range val {
			items[i] = s
		}
		return encodeIndentedList(buf, items, level)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(raw)
	}
	return nil
}

func encodeIndentedList(buf *bytes.Buffer, items []interface{}, level int) error {
	if len(items) == 0 {
		buf.WriteString("[]")
		return nil
	}
	indent := strings.Repeat("  ", level)
	childIndent := strings.Repeat("  ", level+1)

	buf.WriteString("[\n")
	for i, item := range items {
		buf.WriteString(childIndent)
		if err := encodeIndented(buf, item, level+1); err != nil {
			return err
		}
		if i < len(items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent)
	buf.WriteByte(']')
	return nil
}
