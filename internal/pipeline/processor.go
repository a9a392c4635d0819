package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"org-synth-go/internal/config"
	"org-synth-go/internal/generator"
	"org-synth-go/internal/model"
	"org-synth-go/internal/output"
	"org-synth-go/internal/randx"
	"org-synth-go/internal/registry"
	"org-synth-go/pkg/log"
)

// Result 汇总一次生成运行的产物统计和校验结论。
type Result struct {
	People           []*model.Person
	Documents        []*model.Document
	Threads          []*model.ChatThread
	Messages         []*model.ChatMessage
	Topics           []*model.Topic
	Edges            []*model.KnowledgeGraphEdge
	Overlaps         []*model.Overlap
	Meetings         []*model.Meeting
	Briefs           []*model.Brief
	StarterPacks     []*model.StarterPack
	ACLs             []*model.ACL
	UserEvents       []*model.UserEvent
	MetricsFiles     []*generator.MetricsFile
	ValidationReport *registry.ValidationReport
}

// Processor 按固定阶段顺序驱动全部生成器并落盘。
// 同一个种子驱动所有阶段，配置不变时输出逐字节一致。
type Processor struct {
	cfg *config.Config
	reg *registry.Registry
	rng *randx.Source
}

// NewProcessor 创建生成流水线。
func NewProcessor(cfg *config.Config) *Processor {
	rng := randx.New(cfg.Seed)
	return &Processor{
		cfg: cfg,
		reg: registry.New(cfg.Organization.Teams, rng),
		rng: rng,
	}
}

// Run 执行完整的生成流程并返回运行结果。
func (p *Processor) Run() (*Result, error) {
	res := &Result{}
	dir := p.cfg.Output.Dir

	log.Infof("1. 生成组织结构")
	res.People = generator.NewOrganizationBuilder(p.cfg, p.reg, p.rng).Build()
	if _, err := output.WriteJSONL(filepath.Join(dir, "people.jsonl"), res.People); err != nil {
		return nil, err
	}

	log.Infof("2. 生成文档")
	res.Documents = generator.NewDocumentBuilder(p.cfg, p.reg, p.rng).Build()
	if _, err := output.WriteJSONL(filepath.Join(dir, "documents.jsonl"), res.Documents); err != nil {
		return nil, err
	}

	log.Infof("3. 生成会话与消息")
	res.Threads, res.Messages = generator.NewCommunicationBuilder(p.cfg, p.reg, p.rng).Build()
	if _, err := output.WriteJSONL(filepath.Join(dir, "chat_threads.jsonl"), res.Threads); err != nil {
		return nil, err
	}
	if _, err := output.WriteJSONL(filepath.Join(dir, "chat_messages.jsonl"), res.Messages); err != nil {
		return nil, err
	}

	log.Infof("4. 生成业务指标")
	res.MetricsFiles = generator.NewMetricsBuilder(p.cfg, p.rng).Build()
	for _, f := range res.MetricsFiles {
		if _, err := output.WriteCSV(filepath.Join(dir, f.Filename), f.Header, f.Rows); err != nil {
			return nil, err
		}
	}

	log.Infof("5. 生成知识图谱")
	res.Topics, res.Edges, res.Overlaps =
		generator.NewKnowledgeGraphBuilder(p.cfg, p.reg, p.rng, res.Messages).Build()
	if _, err := output.WriteJSONL(filepath.Join(dir, "topics.jsonl"), res.Topics); err != nil {
		return nil, err
	}
	if _, err := output.WriteJSONL(filepath.Join(dir, "knowledge_graph_edges.jsonl"), res.Edges); err != nil {
		return nil, err
	}
	if _, err := output.WriteJSONL(filepath.Join(dir, "overlaps.jsonl"), res.Overlaps); err != nil {
		return nil, err
	}

	log.Infof("6. 生成会议、简报与入门资料包")
	res.Meetings, res.Briefs, res.StarterPacks =
		generator.NewMeetingBuilder(p.cfg, p.reg, p.rng, res.Overlaps).Build()
	if _, err := output.WriteJSONL(filepath.Join(dir, "meetings.jsonl"), res.Meetings); err != nil {
		return nil, err
	}
	if _, err := output.WriteJSONL(filepath.Join(dir, "weekly_briefs.jsonl"), res.Briefs); err != nil {
		return nil, err
	}
	if _, err := output.WriteJSONL(filepath.Join(dir, "starter_packs.jsonl"), res.StarterPacks); err != nil {
		return nil, err
	}

	log.Infof("7. 生成访问控制")
	res.ACLs = generator.NewPermissionBuilder(p.cfg, p.reg, p.rng).Build()
	if _, err := output.WriteJSONL(filepath.Join(dir, "acls.jsonl"), res.ACLs); err != nil {
		return nil, err
	}

	log.Infof("8. 生成用户事件")
	res.UserEvents = generator.NewUserEventBuilder(p.cfg, p.reg, p.rng, res.Topics).Build()
	if _, err := output.WriteJSONL(filepath.Join(dir, "user_events.jsonl"), res.UserEvents); err != nil {
		return nil, err
	}

	if p.cfg.Output.Validation {
		log.Infof("9. 校验引用完整性")
		res.ValidationReport = p.reg.Validate()
		if res.ValidationReport.IsValid() {
			log.Infof("全部引用有效")
		} else {
			for _, e := range res.ValidationReport.Errors {
				log.Errorf("引用错误: %s", e)
			}
			return res, fmt.Errorf("引用完整性校验失败: %d 处错误", len(res.ValidationReport.Errors))
		}
		for _, w := range res.ValidationReport.Warnings {
			log.Warnf("引用告警: %s", w)
		}
	}

	if p.cfg.Output.Manifest {
		log.Infof("10. 生成数据集清单")
		manifest := output.BuildManifest(p.cfg, p.manifestStats(res))
		if err := output.WriteManifest(filepath.Join(dir, "manifest.json"), manifest); err != nil {
			return nil, err
		}
	}

	log.Infow("数据集生成完成", "output_dir", dir)
	return res, nil
}

func (p *Processor) manifestStats(res *Result) output.ManifestStats {
	duplicates, emotional := 0, 0
	for _, th := range res.Threads {
		switch {
		case strings.Contains(th.ThreadID, "DUP"):
			duplicates++
		case strings.Contains(th.ThreadID, "EMO"):
			emotional++
		}
	}

	csvFiles := make([]string, 0, len(res.MetricsFiles))
	for _, f := range res.MetricsFiles {
		csvFiles = append(csvFiles, f.Filename)
	}

	return output.ManifestStats{
		People:              len(res.People),
		Documents:           len(res.Documents),
		ChatThreads:         len(res.Threads),
		ChatMessages:        len(res.Messages),
		Managers:            len(p.reg.Managers()),
		DuplicateThreads:    duplicates,
		EmotionalThreads:    emotional,
		Topics:              len(res.Topics),
		KnowledgeGraphEdges: len(res.Edges),
		Overlaps:            len(res.Overlaps),
		Meetings:            len(res.Meetings),
		WeeklyBriefs:        len(res.Briefs),
		ACLs:                len(res.ACLs),
		UserEvents:          len(res.UserEvents),
		CSVFiles:            csvFiles,
	}
}
