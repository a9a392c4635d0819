package generator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
	"org-synth-go/internal/randx"
	"org-synth-go/internal/registry"
	"org-synth-go/pkg/log"
)

// sessionPattern 控制一次会话的事件数、时长和话题集中程度。
type sessionPattern struct {
	minEvents        int
	maxEvents        int
	minDuration      int
	maxDuration      int
	topicConsistency float64
}

var sessionPatterns = map[string]sessionPattern{
	"focused_deep_dives": {5, 12, 20, 60, 0.8},
	"broad_exploration":  {3, 8, 10, 30, 0.4},
	"learning_oriented":  {8, 15, 30, 90, 0.6},
}

// personaBehavior 描述演示人物的检索习惯和资源偏好。
type personaBehavior struct {
	searchFrequency    string
	documentFocus      []string
	crossTeamInterest  []string
	preferredResources []string
	sessionPattern     string
}

var personaBehaviors = map[string]personaBehavior{
	"Maya Chen": {
		searchFrequency:    "high",
		documentFocus:      []string{"product", "user", "analytics", "churn", "onboarding"},
		crossTeamInterest:  []string{"Marketing", "Engineering"},
		preferredResources: []string{model.ResourceDoc, model.ResourceTopic},
		sessionPattern:     "focused_deep_dives",
	},
	"Rahul Sharma": {
		searchFrequency:    "medium",
		documentFocus:      []string{"marketing", "campaign", "customer", "churn", "analytics"},
		crossTeamInterest:  []string{"Product", "Finance"},
		preferredResources: []string{model.ResourceDoc, model.ResourceThread},
		sessionPattern:     "broad_exploration",
	},
	"Priya Patel": {
		searchFrequency:    "very_high",
		documentFocus:      []string{"onboarding", "process", "guide", "training", "product"},
		crossTeamInterest:  []string{"HR", "Engineering"},
		preferredResources: []string{model.ResourcePack, model.ResourceDoc},
		sessionPattern:     "learning_oriented",
	},
}

var activityFrequencies = map[string]float64{
	"very_high": 0.8,
	"high":      0.6,
	"medium":    0.4,
	"low":       0.2,
}

var personaSearchQueries = map[string][]string{
	"Maya Chen": {
		"customer churn analysis", "product metrics dashboard", "user onboarding flow",
		"feature adoption rates", "product roadmap planning", "user experience research",
		"A/B testing results", "customer feedback analysis", "pricing strategy impact",
		"cross-team collaboration",
	},
	"Rahul Sharma": {
		"marketing campaign performance", "customer segmentation data", "lead generation metrics",
		"brand awareness analysis", "competitive intelligence", "customer acquisition cost",
		"email campaign results", "social media analytics", "market research findings",
		"customer churn prevention",
	},
	"Priya Patel": {
		"product onboarding guide", "team processes documentation", "new hire training materials",
		"company policies handbook", "product feature overview", "development workflow",
		"team collaboration tools", "project management process", "code review guidelines",
		"product requirements template",
	},
}

var fallbackQueries = []string{
	"project status", "team updates", "documentation", "process guidelines", "meeting notes",
}

var eventTypeNames = []string{model.EventViewed, model.EventSearched, model.EventClicked}
var eventTypeWeights = []float64{0.6, 0.3, 0.1}

// UserEventBuilder 为演示人物生成带会话聚类的浏览、搜索和点击事件。
type UserEventBuilder struct {
	cfg    *config.Config
	reg    *registry.Registry
	rng    *randx.Source
	topics []*model.Topic

	eventCounter int
}

// NewUserEventBuilder 创建用户事件生成器。话题列表用于 TOPIC 类资源抽样。
func NewUserEventBuilder(cfg *config.Config, reg *registry.Registry, rng *randx.Source,
	topics []*model.Topic) *UserEventBuilder {
	return &UserEventBuilder{cfg: cfg, reg: reg, rng: rng, topics: topics}
}

// Build 按人物行为画像生成事件，全部事件按时间全局排序。
func (b *UserEventBuilder) Build() []*model.UserEvent {
	var personas []*model.Person
	for _, p := range b.reg.People() {
		if _, ok := personaBehaviors[p.FullName]; ok {
			personas = append(personas, p)
		}
	}
	if len(personas) != len(personaBehaviors) {
		log.Warnf("演示人物数量不符: 找到 %d, 期望 %d", len(personas), len(personaBehaviors))
	}

	var events []*model.UserEvent
	if len(personas) > 0 {
		perPersona := b.cfg.Volumes.UserEvents / len(personas)
		for _, person := range personas {
			events = append(events, b.personaEvents(person, perPersona)...)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	log.Infow("用户事件生成完成", "events", len(events), "personas", len(personas))
	return events
}

func (b *UserEventBuilder) personaEvents(person *model.Person, target int) []*model.UserEvent {
	behavior := personaBehaviors[person.FullName]
	frequency := activityFrequencies[behavior.searchFrequency]
	if frequency == 0 {
		frequency = 0.4
	}

	start, _ := b.cfg.StartTime()
	end, _ := b.cfg.EndTime()

	var events []*model.UserEvent
	for day := start; day.Before(end) && len(events) < target; day = day.AddDate(0, 0, 1) {
		if !b.rng.Chance(frequency) {
			continue
		}
		events = append(events, b.session(person, behavior, day)...)
	}
	if len(events) > target {
		events = events[:target]
	}
	return events
}

// session 生成一次连续会话，事件沿会话时长逐步推进。
func (b *UserEventBuilder) session(person *model.Person, behavior personaBehavior,
	day time.Time) []*model.UserEvent {
	pattern, ok := sessionPatterns[behavior.sessionPattern]
	if !ok {
		pattern = sessionPatterns["broad_exploration"]
	}

	eventCount := b.rng.IntBetween(pattern.minEvents, pattern.maxEvents)
	duration := b.rng.IntBetween(pattern.minDuration, pattern.maxDuration)
	primaryTopic := randx.Choice(b.rng, behavior.documentFocus)

	current := b.rng.BusinessTime(day)
	increment := float64(duration) / float64(eventCount)

	var events []*model.UserEvent
	for i := 0; i < eventCount; i++ {
		eventType := randx.WeightedChoice(b.rng, eventTypeNames, eventTypeWeights)
		if e := b.createEvent(person, behavior, eventType, current, primaryTopic,
			pattern.topicConsistency); e != nil {
			events = append(events, e)
		}
		gap := b.rng.FloatBetween(1, increment*2)
		current = current.Add(time.Duration(gap * float64(time.Minute)))
	}
	return events
}

func (b *UserEventBuilder) createEvent(person *model.Person, behavior personaBehavior,
	eventType string, timestamp time.Time, primaryTopic string,
	topicConsistency float64) *model.UserEvent {
	b.eventCounter++
	eventID := fmt.Sprintf("EVENT_%04d", b.eventCounter)
	followPrimary := b.rng.Chance(topicConsistency)

	if eventType == model.EventSearched {
		return &model.UserEvent{
			EventID:      eventID,
			PersonID:     person.PersonID,
			EventType:    model.EventSearched,
			ResourceType: "QUERY",
			ResourceID:   "SEARCH_QUERY",
			Timestamp:    timestamp,
			Query:        b.searchQuery(person.FullName, primaryTopic, followPrimary),
		}
	}

	resourceType, resourceID := b.selectResource(person, behavior, primaryTopic, followPrimary)
	if resourceType == "" {
		return nil
	}
	return &model.UserEvent{
		EventID:      eventID,
		PersonID:     person.PersonID,
		EventType:    eventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Timestamp:    timestamp,
	}
}

func (b *UserEventBuilder) searchQuery(personaName, primaryTopic string, followPrimary bool) string {
	queries := personaSearchQueries[personaName]

	if followPrimary && primaryTopic != "" {
		var related []string
		for _, q := range queries {
			if strings.Contains(strings.ToLower(q), strings.ToLower(primaryTopic)) {
				related = append(related, q)
			}
		}
		if len(related) > 0 {
			return randx.Choice(b.rng, related)
		}
	}
	if len(queries) > 0 {
		return randx.Choice(b.rng, queries)
	}
	return randx.Choice(b.rng, fallbackQueries)
}

func (b *UserEventBuilder) selectResource(person *model.Person, behavior personaBehavior,
	primaryTopic string, followPrimary bool) (string, string) {
	resourceType := randx.Choice(b.rng, behavior.preferredResources)

	switch resourceType {
	case model.ResourceDoc:
		return model.ResourceDoc, b.selectDocument(person, behavior, primaryTopic, followPrimary)
	case model.ResourceThread:
		return model.ResourceThread, b.selectThread(person, primaryTopic, followPrimary)
	case model.ResourceTopic:
		if id := b.selectTopic(primaryTopic, followPrimary); id != "" {
			return model.ResourceTopic, id
		}
	case model.ResourcePack:
		return model.ResourcePack, fmt.Sprintf("PACK_%s_%03d",
			strings.ToUpper(person.Team), b.teamIndex(person.Team)+1)
	}
	return "", ""
}

func (b *UserEventBuilder) selectDocument(person *model.Person, behavior personaBehavior,
	primaryTopic string, followPrimary bool) string {
	docs := b.reg.Documents()
	topicLower := strings.ToLower(primaryTopic)

	if followPrimary && primaryTopic != "" {
		var related []*model.Document
		for _, d := range docs {
			if strings.Contains(strings.ToLower(d.Title), topicLower) ||
				containsFold(d.Tags, topicLower) {
				related = append(related, d)
			}
		}
		if len(related) > 0 {
			return randx.Choice(b.rng, related).DocID
		}
	}

	var sameTeam, crossTeam []*model.Document
	interest := map[string]bool{}
	for _, t := range behavior.crossTeamInterest {
		interest[t] = true
	}
	for _, d := range docs {
		switch {
		case d.Team == person.Team:
			sameTeam = append(sameTeam, d)
		case interest[d.Team]:
			crossTeam = append(crossTeam, d)
		}
	}

	switch {
	case b.rng.Chance(0.7) && len(sameTeam) > 0:
		return randx.Choice(b.rng, sameTeam).DocID
	case len(crossTeam) > 0:
		return randx.Choice(b.rng, crossTeam).DocID
	default:
		return randx.Choice(b.rng, docs).DocID
	}
}

func (b *UserEventBuilder) selectThread(person *model.Person, primaryTopic string,
	followPrimary bool) string {
	threads := b.reg.Threads()
	topicLower := strings.ToLower(primaryTopic)

	if followPrimary && primaryTopic != "" {
		var related []*model.ChatThread
		for _, th := range threads {
			if containsFold(th.TopicTags, topicLower) {
				related = append(related, th)
			}
		}
		if len(related) > 0 {
			return randx.Choice(b.rng, related).ThreadID
		}
	}

	var participated, teamThreads []*model.ChatThread
	teamLower := strings.ToLower(person.Team)
	for _, th := range threads {
		for _, p := range th.Participants {
			if p == person.PersonID {
				participated = append(participated, th)
				break
			}
		}
		if strings.Contains(strings.ToLower(th.Channel), teamLower) {
			teamThreads = append(teamThreads, th)
		}
	}

	switch {
	case len(participated) > 0 && b.rng.Chance(0.6):
		return randx.Choice(b.rng, participated).ThreadID
	case len(teamThreads) > 0:
		return randx.Choice(b.rng, teamThreads).ThreadID
	default:
		return randx.Choice(b.rng, threads).ThreadID
	}
}

func (b *UserEventBuilder) selectTopic(primaryTopic string, followPrimary bool) string {
	if len(b.topics) == 0 {
		return ""
	}
	if followPrimary && primaryTopic != "" {
		var related []*model.Topic
		for _, t := range b.topics {
			if strings.Contains(strings.ToLower(t.Name), strings.ToLower(primaryTopic)) {
				related = append(related, t)
			}
		}
		if len(related) > 0 {
			return randx.Choice(b.rng, related).TopicID
		}
	}
	return randx.Choice(b.rng, b.topics).TopicID
}

func (b *UserEventBuilder) teamIndex(team string) int {
	for i, t := range b.cfg.Organization.Teams {
		if t == team {
			return i
		}
	}
	return 0
}

// containsFold 判断标签列表中是否有包含给定子串的条目，比较不区分大小写。
func containsFold(items []string, lowered string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), lowered) {
			return true
		}
	}
	return false
}
