package generator

import (
	"fmt"
	"sort"
	"strings"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
	"org-synth-go/internal/randx"
	"org-synth-go/internal/registry"
	"org-synth-go/pkg/log"
)

// docTemplate 定义一类文档的标题模式与内容主题。
type docTemplate struct {
	titlePatterns []string
	contentThemes []string
}

var documentTemplates = map[string]map[string]docTemplate{
	"Engineering": {
		"RFC": {
			titlePatterns: []string{
				"RFC: {topic} Implementation",
				"Technical Proposal: {topic}",
				"Architecture Decision: {topic}",
				"Design Document: {topic} System",
			},
			contentThemes: []string{
				"system architecture", "API design", "database schema",
				"performance optimization", "scalability", "security",
				"microservices", "deployment strategy",
			},
		},
		"Architecture": {
			titlePatterns: []string{
				"{topic} Architecture Overview",
				"System Design: {topic}",
				"Technical Architecture for {topic}",
				"{topic} Infrastructure Design",
			},
			contentThemes: []string{
				"system components", "data flow", "service interactions",
				"load balancing", "caching strategy", "monitoring",
			},
		},
		"Postmortem": {
			titlePatterns: []string{
				"Incident Postmortem: {topic}",
				"Outage Analysis: {topic}",
				"Post-Incident Review: {topic}",
				"Root Cause Analysis: {topic}",
			},
			contentThemes: []string{
				"incident timeline", "root cause", "impact assessment",
				"remediation steps", "prevention measures", "lessons learned",
			},
		},
	},
	"Product": {
		"PRD": {
			titlePatterns: []string{
				"Product Requirements: {topic}",
				"PRD: {topic} Feature",
				"{topic} Product Specification",
				"Feature Brief: {topic}",
			},
			contentThemes: []string{
				"user stories", "acceptance criteria", "success metrics",
				"user experience", "feature prioritization", "market research",
			},
		},
		"Decision Log": {
			titlePatterns: []string{
				"Decision Log: {topic}",
				"Product Decision: {topic}",
				"{topic} Strategy Decision",
				"Resolution: {topic}",
			},
			contentThemes: []string{
				"decision rationale", "alternatives considered", "stakeholder input",
				"success criteria", "implementation timeline", "risk assessment",
			},
		},
		"User Research": {
			titlePatterns: []string{
				"User Research: {topic}",
				"{topic} User Study Results",
				"Customer Insights: {topic}",
				"Usability Study: {topic}",
			},
			contentThemes: []string{
				"user feedback", "behavioral patterns", "pain points",
				"feature adoption", "user journey", "recommendations",
			},
		},
	},
	"Marketing": {
		"Campaign Report": {
			titlePatterns: []string{
				"{topic} Campaign Results",
				"Marketing Report: {topic}",
				"{topic} Campaign Analysis",
				"Performance Review: {topic} Campaign",
			},
			contentThemes: []string{
				"campaign performance", "conversion rates", "audience engagement",
				"ROI analysis", "channel effectiveness", "optimization recommendations",
			},
		},
		"Competitive Analysis": {
			titlePatterns: []string{
				"Competitive Analysis: {topic}",
				"Market Research: {topic}",
				"{topic} Competitor Review",
				"Industry Analysis: {topic}",
			},
			contentThemes: []string{
				"competitor positioning", "market trends", "feature comparison",
				"pricing analysis", "market opportunities", "strategic recommendations",
			},
		},
		"Customer Insights": {
			titlePatterns: []string{
				"Customer Analysis: {topic}",
				"{topic} Customer Insights",
				"Customer Behavior: {topic}",
				"Segmentation Analysis: {topic}",
			},
			contentThemes: []string{
				"customer segmentation", "behavioral analysis", "churn patterns",
				"retention strategies", "customer satisfaction", "feedback analysis",
			},
		},
	},
	"Finance": {
		"Quarterly Report": {
			titlePatterns: []string{
				"Q{quarter} Financial Report",
				"Quarterly Analysis: {topic}",
				"Financial Review: {topic}",
				"Q{quarter} Performance Summary",
			},
			contentThemes: []string{
				"revenue analysis", "cost breakdown", "profit margins",
				"budget variance", "financial forecasting", "key metrics",
			},
		},
		"Budget Analysis": {
			titlePatterns: []string{
				"Budget Analysis: {topic}",
				"{topic} Cost Review",
				"Financial Planning: {topic}",
				"Budget Allocation: {topic}",
			},
			contentThemes: []string{
				"budget allocation", "cost optimization", "expense tracking",
				"ROI analysis", "financial planning", "resource allocation",
			},
		},
		"Risk Assessment": {
			titlePatterns: []string{
				"Risk Assessment: {topic}",
				"Financial Risk: {topic}",
				"{topic} Risk Analysis",
				"Risk Management: {topic}",
			},
			contentThemes: []string{
				"risk identification", "impact assessment", "mitigation strategies",
				"compliance requirements", "financial exposure", "risk monitoring",
			},
		},
	},
	"HR": {
		"Policy": {
			titlePatterns: []string{
				"{topic} Policy Update",
				"HR Policy: {topic}",
				"{topic} Guidelines",
				"Company Policy: {topic}",
			},
			contentThemes: []string{
				"policy guidelines", "compliance requirements", "employee rights",
				"procedures", "implementation timeline", "training requirements",
			},
		},
		"Onboarding": {
			titlePatterns: []string{
				"Onboarding Guide: {topic}",
				"{topic} Team Onboarding",
				"New Hire Guide: {topic}",
				"{topic} Orientation Materials",
			},
			contentThemes: []string{
				"onboarding process", "team introductions", "role expectations",
				"training schedule", "resources", "first week activities",
			},
		},
		"Performance": {
			titlePatterns: []string{
				"Performance Review: {topic}",
				"{topic} Team Performance",
				"Performance Analysis: {topic}",
				"{topic} Evaluation Framework",
			},
			contentThemes: []string{
				"performance metrics", "goal achievement", "skill development",
				"feedback summary", "improvement areas", "career development",
			},
		},
	},
}

var commonTopics = []string{
	"Customer Churn", "Onboarding Experience", "Pricing Strategy",
	"User Engagement", "Performance Metrics", "Quarterly Planning",
	"System Performance", "Data Analytics", "Mobile App", "API Integration",
	"Security Framework", "Cloud Migration", "Feature Rollout",
	"Market Expansion", "Customer Feedback", "Product Roadmap",
}

type docLanguage struct {
	code string
	name string
}

var docLanguages = []docLanguage{
	{"es", "Spanish"},
	{"hi", "Hindi"},
	{"fr", "French"},
	{"de", "German"},
	{"pt", "Portuguese"},
}

// 非英语文档固定注入 5 篇，是下游测试夹具而非比例值。
const nonEnglishDocCount = 5

// DocumentBuilder 按团队配额生成文档并建立互链。
type DocumentBuilder struct {
	cfg *config.Config
	reg *registry.Registry
	rng *randx.Source

	counter int
}

// NewDocumentBuilder 创建文档生成器。
func NewDocumentBuilder(cfg *config.Config, reg *registry.Registry, rng *randx.Source) *DocumentBuilder {
	return &DocumentBuilder{cfg: cfg, reg: reg, rng: rng}
}

// Build 生成全部文档，注入非英语变体，按共享标签建立互链并登记。
func (b *DocumentBuilder) Build() []*model.Document {
	teams := b.cfg.Organization.Teams
	perTeam := b.cfg.Volumes.Documents / len(teams)
	remainder := b.cfg.Volumes.Documents % len(teams)

	var documents []*model.Document
	for i, team := range teams {
		count := perTeam
		if i < remainder {
			count++
		}
		documents = append(documents, b.generateTeamDocuments(team, count)...)
	}

	b.addNonEnglishDocuments(documents)
	b.addDocumentRelationships(documents)

	for _, d := range documents {
		b.reg.RegisterDocument(d)
	}
	log.Infow("文档生成完成", "documents", len(documents), "non_english", min(nonEnglishDocCount, len(documents)))
	return documents
}

func (b *DocumentBuilder) generateTeamDocuments(team string, count int) []*model.Document {
	teamPeople := b.reg.PeopleByTeam(team)
	if len(teamPeople) == 0 {
		return nil
	}

	templates := documentTemplates[team]
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]*model.Document, 0, count)
	for i := 0; i < count; i++ {
		var tpl docTemplate
		if len(names) > 0 {
			tpl = templates[randx.Choice(b.rng, names)]
		}
		docs = append(docs, b.createSingleDocument(team, tpl, teamPeople))
	}
	return docs
}

func (b *DocumentBuilder) createSingleDocument(team string, tpl docTemplate, teamPeople []*model.Person) *model.Document {
	b.counter++
	docID := fmt.Sprintf("DOC_%03d", b.counter)

	topic := randx.Choice(b.rng, commonTopics)

	patterns := tpl.titlePatterns
	if len(patterns) == 0 {
		patterns = []string{"{topic} Document"}
	}
	title := randx.Choice(b.rng, patterns)
	title = strings.ReplaceAll(title, "{topic}", topic)
	title = strings.ReplaceAll(title, "{quarter}", fmt.Sprintf("%d", b.rng.IntBetween(1, 4)))

	themes := tpl.contentThemes
	if len(themes) == 0 {
		themes = []string{"general analysis"}
	}
	content := b.generateContent(topic, themes)

	author := randx.Choice(b.rng, teamPeople)
	var coAuthors []string
	if b.rng.Chance(0.3) {
		var candidates []*model.Person
		for _, p := range teamPeople {
			if p.PersonID != author.PersonID {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) > 0 {
			n := b.rng.IntBetween(1, min(2, len(candidates)))
			for _, p := range randx.Sample(b.rng, candidates, n) {
				coAuthors = append(coAuthors, p.PersonID)
			}
		}
	}

	tags := b.generateTags(topic, themes, team)

	start, _ := b.cfg.StartTime()
	end, _ := b.cfg.EndTime()
	createdAt := b.rng.DateBetween(start, end)
	updatedAt := createdAt.AddDate(0, 0, b.rng.IntBetween(0, 30))

	return &model.Document{
		DocID:           docID,
		Title:           title,
		Content:         content,
		Team:            team,
		AuthorPersonID:  author.PersonID,
		CoAuthors:       coAuthors,
		Tags:            tags,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
		Status:          randx.WeightedChoice(b.rng, []string{"draft", "final"}, []float64{0.2, 0.8}),
		Visibility:      randx.WeightedChoice(b.rng, []string{"public", "internal", "restricted"}, []float64{0.1, 0.8, 0.1}),
		SourceType:      "native_internal",
		Language:        "en",
		Confidentiality: randx.WeightedChoice(b.rng, []string{"low", "medium", "high"}, []float64{0.3, 0.6, 0.1}),
	}
}

// generateContent 以 markdown 小节拼装正文：概述、至多三个主题小节和结论。
func (b *DocumentBuilder) generateContent(topic string, themes []string) string {
	var sections []string

	introKeywords := append([]string{strings.ToLower(topic)}, themes[:min(2, len(themes))]...)
	sections = append(sections, "## Overview\n\n"+realisticText(b.rng, 20, 40, introKeywords))

	for _, theme := range themes[:min(3, len(themes))] {
		keywords := []string{strings.ToLower(topic), theme}
		title := titleCase(strings.ReplaceAll(theme, "_", " "))
		sections = append(sections, "## "+title+"\n\n"+realisticText(b.rng, 30, 60, keywords))
	}

	conclusion := realisticText(b.rng, 15, 30, []string{strings.ToLower(topic), "recommendations", "next steps"})
	sections = append(sections, "## Conclusion\n\n"+conclusion)

	return strings.Join(sections, "\n\n")
}

// generateTags 由话题词、主题词和一个团队主题词拼出去重后的标签，至多取 5 个。
func (b *DocumentBuilder) generateTags(topic string, themes []string, team string) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}

	for _, w := range strings.Fields(strings.ToLower(topic)) {
		add(w)
	}
	for _, theme := range themes[:min(2, len(themes))] {
		for _, w := range strings.Fields(strings.ReplaceAll(theme, "_", " ")) {
			add(w)
		}
	}
	if teamThemes := b.reg.ContentThemes(team); len(teamThemes) > 0 {
		add(strings.ReplaceAll(randx.Choice(b.rng, teamThemes), " ", "_"))
	}

	return randx.Sample(b.rng, tags, min(5, len(tags)))
}

// addNonEnglishDocuments 把固定数量的文档改写为非英语变体。
func (b *DocumentBuilder) addNonEnglishDocuments(documents []*model.Document) {
	if len(documents) < nonEnglishDocCount {
		return
	}
	for _, doc := range randx.Sample(b.rng, documents, nonEnglishDocCount) {
		lang := randx.Choice(b.rng, docLanguages)
		doc.Language = lang.code
		doc.Title = fmt.Sprintf("[%s] %s", lang.name, doc.Title)
		body := doc.Content
		if len(body) > 200 {
			body = body[:200]
		}
		doc.Content = fmt.Sprintf("[Content in %s]\n\n%s...", lang.name, body)
	}
}

// addDocumentRelationships 将共享同一标签的文档互相挂接，至多 2 篇。
// 标签组按字典序遍历，文档出现在多个组时以后处理的组为准。
func (b *DocumentBuilder) addDocumentRelationships(documents []*model.Document) {
	tagGroups := make(map[string][]*model.Document)
	for _, doc := range documents {
		for _, tag := range doc.Tags {
			tagGroups[tag] = append(tagGroups[tag], doc)
		}
	}

	tags := make([]string, 0, len(tagGroups))
	for tag := range tagGroups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		group := tagGroups[tag]
		if len(group) < 2 {
			continue
		}
		for _, doc := range group {
			var related []*model.Document
			for _, other := range group {
				if other.DocID != doc.DocID {
					related = append(related, other)
				}
			}
			picked := randx.Sample(b.rng, related, min(2, len(related)))
			ids := make([]string, 0, len(picked))
			for _, d := range picked {
				ids = append(ids, d.DocID)
			}
			doc.RelatedDocIDs = ids
		}
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}
