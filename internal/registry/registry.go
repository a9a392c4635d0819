// Package registry 维护跨生成器共享的实体索引与引用完整性。
//
// 所有生成器通过注册表登记产出并查询先前阶段的实体。注册表在 map 之外
// 额外维护插入有序的标识切片，保证任何遍历顺序都与插入顺序一致，
// 从而让同一种子的两次生成产生完全相同的输出。
package registry

import (
	"fmt"
	"strings"

	"org-synth-go/internal/model"
	"org-synth-go/internal/randx"
)

// ValidationReport 汇总引用完整性检查的结果。
// 人员引用悬空视为错误，文档互链悬空视为告警。
type ValidationReport struct {
	Errors   []string
	Warnings []string
}

// IsValid 在没有任何错误时返回真，告警不影响有效性。
func (r *ValidationReport) IsValid() bool { return len(r.Errors) == 0 }

// Registry 是所有已生成实体的中心存储。
type Registry struct {
	rng *randx.Source

	teams []string

	people      map[string]*model.Person
	peopleOrder []string

	documents map[string]*model.Document
	docOrder  []string

	topics     map[string]*model.Topic
	topicOrder []string

	threads     map[string]*model.ChatThread
	threadOrder []string

	peopleByTeam map[string][]string
	managers     []string
	managerSet   map[string]bool

	documentTags   map[string][]string
	tagSeen        map[string]map[string]bool
	topicDocuments map[string][]string

	crossRefs    map[string][]string
	crossRefSeen map[string]map[string]bool

	contentThemes map[string][]string
}

// New 创建一个空注册表。随机源用于 RandomPerson 与 RelatedDocuments 的抽样。
func New(teams []string, rng *randx.Source) *Registry {
	return &Registry{
		rng:            rng,
		teams:          teams,
		people:         make(map[string]*model.Person),
		documents:      make(map[string]*model.Document),
		topics:         make(map[string]*model.Topic),
		threads:        make(map[string]*model.ChatThread),
		peopleByTeam:   make(map[string][]string),
		managerSet:     make(map[string]bool),
		documentTags:   make(map[string][]string),
		tagSeen:        make(map[string]map[string]bool),
		topicDocuments: make(map[string][]string),
		crossRefs:      make(map[string][]string),
		crossRefSeen:   make(map[string]map[string]bool),
		contentThemes:  defaultContentThemes(),
	}
}

// RegisterPerson 登记一名人员，并建立团队索引。
// 职位名称包含 manager 或 director 关键字的人员会进入经理索引。
func (r *Registry) RegisterPerson(p *model.Person) {
	if _, ok := r.people[p.PersonID]; ok {
		return
	}
	r.people[p.PersonID] = p
	r.peopleOrder = append(r.peopleOrder, p.PersonID)
	r.peopleByTeam[p.Team] = append(r.peopleByTeam[p.Team], p.PersonID)

	title := strings.ToLower(p.RoleTitle)
	if strings.Contains(title, "manager") || strings.Contains(title, "director") {
		r.managers = append(r.managers, p.PersonID)
		r.managerSet[p.PersonID] = true
	}
}

// RegisterDocument 登记一篇文档，并按标签建立倒排索引。
func (r *Registry) RegisterDocument(d *model.Document) {
	if _, ok := r.documents[d.DocID]; ok {
		return
	}
	r.documents[d.DocID] = d
	r.docOrder = append(r.docOrder, d.DocID)
	for _, tag := range d.Tags {
		if r.tagSeen[tag] == nil {
			r.tagSeen[tag] = make(map[string]bool)
		}
		if !r.tagSeen[tag][d.DocID] {
			r.tagSeen[tag][d.DocID] = true
			r.documentTags[tag] = append(r.documentTags[tag], d.DocID)
		}
	}
}

// RegisterTopic 登记一个话题。
func (r *Registry) RegisterTopic(t *model.Topic) {
	if _, ok := r.topics[t.TopicID]; ok {
		return
	}
	r.topics[t.TopicID] = t
	r.topicOrder = append(r.topicOrder, t.TopicID)
}

// RegisterThread 登记一个聊天会话。
func (r *Registry) RegisterThread(t *model.ChatThread) {
	if _, ok := r.threads[t.ThreadID]; ok {
		return
	}
	r.threads[t.ThreadID] = t
	r.threadOrder = append(r.threadOrder, t.ThreadID)
}

// Teams 返回配置的团队列表。
func (r *Registry) Teams() []string { return r.teams }

// Person 按标识查找人员。
func (r *Registry) Person(id string) (*model.Person, bool) {
	p, ok := r.people[id]
	return p, ok
}

// Document 按标识查找文档。
func (r *Registry) Document(id string) (*model.Document, bool) {
	d, ok := r.documents[id]
	return d, ok
}

// People 按注册顺序返回全部人员。
func (r *Registry) People() []*model.Person {
	out := make([]*model.Person, 0, len(r.peopleOrder))
	for _, id := range r.peopleOrder {
		out = append(out, r.people[id])
	}
	return out
}

// Documents 按注册顺序返回全部文档。
func (r *Registry) Documents() []*model.Document {
	out := make([]*model.Document, 0, len(r.docOrder))
	for _, id := range r.docOrder {
		out = append(out, r.documents[id])
	}
	return out
}

// Topics 按注册顺序返回全部话题。
func (r *Registry) Topics() []*model.Topic {
	out := make([]*model.Topic, 0, len(r.topicOrder))
	for _, id := range r.topicOrder {
		out = append(out, r.topics[id])
	}
	return out
}

// Threads 按注册顺序返回全部会话。
func (r *Registry) Threads() []*model.ChatThread {
	out := make([]*model.ChatThread, 0, len(r.threadOrder))
	for _, id := range r.threadOrder {
		out = append(out, r.threads[id])
	}
	return out
}

// PeopleByTeam 按注册顺序返回某团队的全部人员。
func (r *Registry) PeopleByTeam(team string) []*model.Person {
	ids := r.peopleByTeam[team]
	out := make([]*model.Person, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.people[id])
	}
	return out
}

// Managers 返回经理索引中的人员标识。
func (r *Registry) Managers() []string { return r.managers }

// IsManager 判断人员是否在经理索引中。
func (r *Registry) IsManager(personID string) bool { return r.managerSet[personID] }

// RandomPerson 随机返回一名满足条件的人员，没有候选时返回 nil。
// roleFilter 为 manager 时按经理索引过滤，否则按职位名称子串匹配。
// 调用方必须处理 nil，这代表数据尚不充分而非错误。
func (r *Registry) RandomPerson(team, roleFilter string) *model.Person {
	candidates := make([]*model.Person, 0, len(r.peopleOrder))
	for _, id := range r.peopleOrder {
		p := r.people[id]
		if team != "" && p.Team != team {
			continue
		}
		if roleFilter != "" {
			if strings.EqualFold(roleFilter, "manager") {
				if !r.managerSet[p.PersonID] {
					continue
				}
			} else if !strings.Contains(strings.ToLower(p.RoleTitle), strings.ToLower(roleFilter)) {
				continue
			}
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil
	}
	return randx.Choice(r.rng, candidates)
}

// LinkTopicDocument 将文档挂接到话题的文档集合。
func (r *Registry) LinkTopicDocument(topicID, docID string) {
	r.topicDocuments[topicID] = append(r.topicDocuments[topicID], docID)
}

// RelatedDocuments 解析话题或标签，返回至多 limit 篇相关文档。
// 同时做直接标签匹配与话题名称及别名解析，两路结果取并集后随机抽样。
func (r *Registry) RelatedDocuments(topic, team string, limit int) []*model.Document {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range r.documentTags[topic] {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if t := r.findTopicByName(topic); t != nil {
		for _, id := range r.topicDocuments[t.TopicID] {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	docs := make([]*model.Document, 0, len(ids))
	for _, id := range ids {
		d, ok := r.documents[id]
		if !ok {
			continue
		}
		if team != "" && d.Team != team {
			continue
		}
		docs = append(docs, d)
	}
	return randx.Sample(r.rng, docs, limit)
}

// AddCrossReference 在两个实体之间建立对称的关联关系。
func (r *Registry) AddCrossReference(a, b string) {
	r.addRef(a, b)
	r.addRef(b, a)
}

func (r *Registry) addRef(from, to string) {
	if r.crossRefSeen[from] == nil {
		r.crossRefSeen[from] = make(map[string]bool)
	}
	if !r.crossRefSeen[from][to] {
		r.crossRefSeen[from][to] = true
		r.crossRefs[from] = append(r.crossRefs[from], to)
	}
}

// CrossReferences 返回与指定实体关联的实体标识，按建立顺序排列。
func (r *Registry) CrossReferences(entityID string) []string {
	return r.crossRefs[entityID]
}

// Validate 检查全部已注册实体的引用完整性。
// 人员引用（经理、作者、合著者）悬空是错误，文档互链悬空是告警。
// 检查只收集结果，从不中断生成。
func (r *Registry) Validate() *ValidationReport {
	report := &ValidationReport{}

	for _, id := range r.peopleOrder {
		p := r.people[id]
		if p.ManagerID != "" {
			if _, ok := r.people[p.ManagerID]; !ok {
				report.Errors = append(report.Errors,
					fmt.Sprintf("Person %s has invalid manager_id: %s", p.PersonID, p.ManagerID))
			}
		}
	}

	for _, id := range r.docOrder {
		d := r.documents[id]
		if _, ok := r.people[d.AuthorPersonID]; !ok {
			report.Errors = append(report.Errors,
				fmt.Sprintf("Document %s has invalid author_person_id: %s", d.DocID, d.AuthorPersonID))
		}
		for _, co := range d.CoAuthors {
			if _, ok := r.people[co]; !ok {
				report.Errors = append(report.Errors,
					fmt.Sprintf("Document %s has invalid co_author: %s", d.DocID, co))
			}
		}
		for _, rel := range d.RelatedDocIDs {
			if _, ok := r.documents[rel]; !ok {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("Document %s references non-existent document: %s", d.DocID, rel))
			}
		}
	}

	return report
}

func (r *Registry) findTopicByName(name string) *model.Topic {
	lower := strings.ToLower(name)
	for _, id := range r.topicOrder {
		t := r.topics[id]
		if strings.ToLower(t.Name) == lower {
			return t
		}
		for _, alias := range t.Aliases {
			if strings.ToLower(alias) == lower {
				return t
			}
		}
	}
	return nil
}

// ContentThemes 返回团队的内容主题关键词。
func (r *Registry) ContentThemes(team string) []string {
	return r.contentThemes[team]
}

// CrossTeamThemes 返回横跨多个团队的公共主题。
func (r *Registry) CrossTeamThemes() []string {
	return []string{
		"customer churn", "onboarding experience", "pricing strategy",
		"user engagement", "performance metrics", "quarterly planning",
		"hiring freeze", "policy changes", "system performance",
	}
}

func defaultContentThemes() map[string][]string {
	return map[string][]string{
		"Marketing": {
			"customer acquisition", "brand awareness", "campaign performance",
			"conversion rates", "market research", "competitive analysis",
			"customer segmentation", "retention", "churn analysis", "pricing strategy",
		},
		"Product": {
			"user experience", "feature development", "product roadmap",
			"user research", "A/B testing", "product metrics", "onboarding",
			"user feedback", "feature adoption", "product strategy",
		},
		"Engineering": {
			"system architecture", "performance optimization", "scalability",
			"technical debt", "code review", "deployment", "monitoring",
			"security", "API design", "infrastructure", "bug fixes",
		},
		"Finance": {
			"revenue analysis", "cost optimization", "budget planning",
			"financial forecasting", "risk assessment", "compliance",
			"quarterly results", "expense tracking", "ROI analysis",
		},
		"HR": {
			"employee engagement", "talent acquisition", "performance management",
			"training programs", "company culture", "policy updates",
			"compensation", "benefits", "team building", "onboarding",
		},
	}
}
