package generator

import (
	"fmt"
	"strings"
	"time"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
	"org-synth-go/internal/randx"
	"org-synth-go/internal/registry"
	"org-synth-go/pkg/log"
)

// channelType 定义一类频道的命名模式及其在总量中的占比。
type channelType struct {
	name      string
	frequency float64
}

// 频道类型按固定顺序生成，保证同一种子下线程编号稳定。
var channelTypes = []channelType{
	{"team-general", 0.4},
	{"project-specific", 0.3},
	{"cross-team", 0.2},
	{"random", 0.1},
}

var projectNames = []string{
	"alpha", "beta", "gamma", "delta", "phoenix", "nova", "titan",
	"catalyst", "nexus", "vertex", "prism", "fusion", "quantum",
}

var crossTeamChannelTopics = []string{
	"sync", "planning", "launch", "review", "strategy", "metrics",
	"onboarding", "security", "compliance", "infrastructure",
}

var messageTemplates = map[string][]string{
	"standup": {
		"Yesterday I worked on {topic}. Today I'm focusing on {topic}.",
		"Completed {topic} review. Moving on to {topic} implementation.",
		"Had some blockers with {topic}, but resolved them. Continuing with {topic}.",
		"Finished {topic} analysis. Results look good. Next: {topic}.",
	},
	"question": {
		"Has anyone worked on {topic} before? Need some guidance.",
		"Quick question about {topic} - what's the best approach?",
		"Stuck on {topic}. Any suggestions?",
		"Anyone familiar with {topic}? Could use some help.",
	},
	"update": {
		"Update on {topic}: we're making good progress.",
		"FYI - {topic} is now complete and ready for review.",
		"Status update: {topic} is 80% done, should finish by EOD.",
		"Quick update: {topic} deployment went smoothly.",
	},
	"discussion": {
		"What do you all think about the {topic} approach?",
		"I've been analyzing {topic} and have some concerns.",
		"Interesting findings from the {topic} data.",
		"We should discuss the {topic} strategy in our next meeting.",
	},
	"urgent": {
		"URGENT: Issue with {topic} - need immediate attention!",
		"Critical: {topic} is down, investigating now.",
		"Emergency: {topic} failure affecting customers.",
		"High priority: {topic} needs to be fixed ASAP.",
	},
	"frustrated": {
		"This {topic} issue is really frustrating...",
		"Why is {topic} so complicated? This shouldn't be this hard.",
		"Spent all day on {topic} and still no progress 😤",
		"The {topic} documentation is terrible, can't figure this out.",
	},
	"confused": {
		"I'm confused about the {topic} requirements.",
		"Not sure I understand the {topic} approach correctly.",
		"Can someone clarify the {topic} process?",
		"The {topic} specs are unclear to me.",
	},
	"optimistic": {
		"Great progress on {topic} today! 🎉",
		"The {topic} solution is working perfectly!",
		"Excited about the {topic} results we're seeing.",
		"This {topic} approach is going to be amazing!",
	},
}

// 不同语境下的情绪权重表。
var standupEmotions = []string{"calm", "optimistic", "frustrated"}
var standupEmotionWeights = []float64{0.8, 0.15, 0.05}
var urgentEmotions = []string{"urgent", "frustrated", "calm"}
var urgentEmotionWeights = []float64{0.7, 0.2, 0.1}
var projectEmotions = []string{"calm", "optimistic", "confused", "frustrated"}
var projectEmotionWeights = []float64{0.6, 0.2, 0.1, 0.1}

var casualAdditions = []string{
	" 👍", " 🎉", " 😊", " 💪", " 🚀", " ✅", " 🔥",
	" Thanks!", " Great work!", " Nice!", " Awesome!",
}

var typoPairs = [][2]string{
	{"the", "teh"}, {"and", "adn"}, {"you", "u"}, {"are", "r"},
	{"to", "2"}, {"for", "4"}, {"be", "b"}, {"see", "c"},
}

var actionItemTemplates = []string{
	"Follow up on {topic}",
	"Review {topic} documentation",
	"Schedule {topic} meeting",
	"Update {topic} status",
	"Test {topic} implementation",
	"Share {topic} results",
}

// 固定的 25 个重复讨论话题，每个在两个团队各生成一个线程。
var duplicateTopics = []string{
	"customer churn analysis", "onboarding optimization", "pricing review",
	"performance metrics", "security audit", "API integration", "data migration",
	"user feedback analysis", "system monitoring", "cost optimization",
	"feature prioritization", "compliance review", "infrastructure upgrade",
	"market research", "competitive analysis", "user experience study",
	"budget planning", "risk assessment", "process improvement",
	"team restructuring", "training program", "vendor evaluation",
	"product roadmap", "customer support", "quality assurance",
}

// emotionalScenario 描述一类情绪升级事故线程的种子。
type emotionalScenario struct {
	emotion   string
	topic     string
	intensity string
}

var emotionalScenarios = []emotionalScenario{
	{"frustrated", "deployment failure", "high"},
	{"frustrated", "system outage", "high"},
	{"confused", "unclear requirements", "medium"},
	{"confused", "conflicting priorities", "medium"},
	{"urgent", "security breach", "critical"},
	{"urgent", "customer complaint", "high"},
	{"frustrated", "budget cuts", "medium"},
	{"confused", "process changes", "low"},
}

const emotionalThreadCount = 20

// CommunicationBuilder 生成聊天会话与时间有序的消息流。
type CommunicationBuilder struct {
	cfg *config.Config
	reg *registry.Registry
	rng *randx.Source

	threadCounter     int
	messageCounter    int
	dupThreadCounter  int
	dupMessageCounter int
	emoMessageCounter int
}

// NewCommunicationBuilder 创建通信数据生成器。
func NewCommunicationBuilder(cfg *config.Config, reg *registry.Registry, rng *randx.Source) *CommunicationBuilder {
	return &CommunicationBuilder{cfg: cfg, reg: reg, rng: rng}
}

// Build 生成全部会话与消息。常规频道之外固定追加 25 组重复讨论
// 线程对和 20 个情绪升级线程，这些数量是下游测试夹具。
func (b *CommunicationBuilder) Build() ([]*model.ChatThread, []*model.ChatMessage) {
	var threads []*model.ChatThread
	var messages []*model.ChatMessage

	for _, ct := range channelTypes {
		count := int(float64(b.cfg.Volumes.ChatThreads) * ct.frequency)
		for i := 0; i < count; i++ {
			thread, msgs := b.generateThreadWithMessages(ct.name)
			threads = append(threads, thread)
			messages = append(messages, msgs...)
		}
	}

	dupThreads, dupMessages := b.generateDuplicateDiscussions()
	threads = append(threads, dupThreads...)
	messages = append(messages, dupMessages...)

	emoThreads, emoMessages := b.generateEmotionalThreads()
	threads = append(threads, emoThreads...)
	messages = append(messages, emoMessages...)

	for _, t := range threads {
		b.reg.RegisterThread(t)
	}
	log.Infow("通信数据生成完成",
		"threads", len(threads), "messages", len(messages),
		"duplicate_threads", len(dupThreads), "emotional_threads", len(emoThreads))
	return threads, messages
}

func (b *CommunicationBuilder) generateThreadWithMessages(channelType string) (*model.ChatThread, []*model.ChatMessage) {
	thread := b.createThread(channelType)

	people := b.reg.People()
	participantCount := b.rng.IntBetween(2, min(6, len(people)))
	participants := randx.Sample(b.rng, people, participantCount)
	for _, p := range participants {
		thread.Participants = append(thread.Participants, p.PersonID)
	}

	messageCount := b.rng.IntBetween(8, 15)
	current := b.threadStartTime()

	messages := make([]*model.ChatMessage, 0, messageCount)
	for i := 0; i < messageCount; i++ {
		sender := b.selectSender(participants, i)
		messages = append(messages, b.createMessage(thread, sender, current, i, channelType))
		current = current.Add(time.Duration(b.rng.IntBetween(1, 30)) * time.Minute)
	}
	return thread, messages
}

func (b *CommunicationBuilder) createThread(channelType string) *model.ChatThread {
	b.threadCounter++
	threadID := fmt.Sprintf("T_%03d", b.threadCounter)

	var channel string
	var topicTags []string
	switch channelType {
	case "team-general":
		team := randx.Choice(b.rng, b.cfg.Organization.Teams)
		channel = strings.ToLower(team) + "-general"
		topicTags = []string{strings.ToLower(team), "general"}
	case "project-specific":
		project := randx.Choice(b.rng, projectNames)
		channel = "project-" + project
		topicTags = []string{"project", project}
	case "cross-team":
		topic := randx.Choice(b.rng, crossTeamChannelTopics)
		channel = "cross-team-" + topic
		topicTags = []string{"cross-team", topic}
	default:
		channel = "random"
		topicTags = []string{"random", "casual"}
	}

	return &model.ChatThread{
		ThreadID:  threadID,
		Channel:   channel,
		TopicTags: topicTags,
		CreatedAt: b.threadStartTime(),
	}
}

func (b *CommunicationBuilder) createMessage(thread *model.ChatThread, sender *model.Person,
	timestamp time.Time, index int, channelType string) *model.ChatMessage {
	b.messageCounter++
	messageID := fmt.Sprintf("M_%04d", b.messageCounter)

	context := b.selectContext(index)
	emotion := b.selectEmotion(context)
	text := b.generateMessageText(context, emotion, thread.TopicTags)

	var mentions []string
	if b.rng.Chance(0.1) && len(thread.Participants) > 1 {
		var others []string
		for _, p := range thread.Participants {
			if p != sender.PersonID {
				others = append(others, p)
			}
		}
		mentions = []string{randx.Choice(b.rng, others)}
	}

	var docRefs []string
	if b.rng.Chance(0.15) {
		related := b.reg.RelatedDocuments(randx.Choice(b.rng, thread.TopicTags), sender.Team, 1)
		if len(related) > 0 {
			docRefs = []string{related[0].DocID}
		}
	}

	var actionItems []string
	if b.rng.Chance(0.2) {
		topic := randx.Choice(b.rng, thread.TopicTags)
		tpl := randx.Choice(b.rng, actionItemTemplates)
		actionItems = []string{strings.ReplaceAll(tpl, "{topic}", topic)}
	}

	return &model.ChatMessage{
		MessageID:      messageID,
		ThreadID:       thread.ThreadID,
		SenderPersonID: sender.PersonID,
		Timestamp:      timestamp,
		Text:           text,
		Emotions:       emotion,
		Mentions:       mentions,
		DocRefs:        docRefs,
		ActionItems:    actionItems,
	}
}

// selectSender 第一条消息均匀随机，后续按资历加权：
// 经理或总监权重 1.5 倍，司龄超过两年 1.2 倍。
func (b *CommunicationBuilder) selectSender(participants []*model.Person, index int) *model.Person {
	if index == 0 {
		return randx.Choice(b.rng, participants)
	}
	weights := make([]float64, len(participants))
	for i, p := range participants {
		w := 1.0
		title := strings.ToLower(p.RoleTitle)
		if strings.Contains(title, "manager") || strings.Contains(title, "director") {
			w *= 1.5
		}
		if p.TenureMonths > 24 {
			w *= 1.2
		}
		weights[i] = w
	}
	return randx.WeightedChoice(b.rng, participants, weights)
}

func (b *CommunicationBuilder) selectContext(index int) string {
	if index == 0 {
		return randx.WeightedChoice(b.rng,
			[]string{"question", "update", "discussion"},
			[]float64{0.4, 0.3, 0.3})
	}
	return randx.WeightedChoice(b.rng,
		[]string{"discussion", "update", "question", "standup"},
		[]float64{0.4, 0.3, 0.2, 0.1})
}

func (b *CommunicationBuilder) selectEmotion(context string) string {
	switch context {
	case "urgent":
		return randx.WeightedChoice(b.rng, urgentEmotions, urgentEmotionWeights)
	case "standup", "update":
		return randx.WeightedChoice(b.rng, standupEmotions, standupEmotionWeights)
	default:
		return randx.WeightedChoice(b.rng, projectEmotions, projectEmotionWeights)
	}
}

func (b *CommunicationBuilder) generateMessageText(context, emotion string, topicTags []string) string {
	var templates []string
	switch emotion {
	case "urgent", "frustrated", "confused", "optimistic":
		templates = messageTemplates[emotion]
	default:
		templates = messageTemplates[context]
	}
	if len(templates) == 0 {
		templates = messageTemplates["discussion"]
	}
	template := randx.Choice(b.rng, templates)

	pool := append(append([]string{}, topicTags...), b.reg.CrossTeamThemes()...)
	topic := randx.Choice(b.rng, pool)
	message := strings.ReplaceAll(template, "{topic}", topic)

	if b.rng.Chance(0.1) {
		message += randx.Choice(b.rng, casualAdditions)
	}
	if b.rng.Chance(0.05) {
		message = b.addTypos(message)
	}
	return message
}

// addTypos 按固定替换表注入至多一个拼写错误。
func (b *CommunicationBuilder) addTypos(text string) string {
	for _, pair := range typoPairs {
		if b.rng.Chance(0.3) && strings.Contains(strings.ToLower(text), pair[0]) {
			return strings.Replace(text, pair[0], pair[1], 1)
		}
	}
	return text
}

// generateDuplicateDiscussions 为 25 个预置话题各生成两个不同团队的
// 同话题线程，模拟同一个问题在两处被独立提出。
func (b *CommunicationBuilder) generateDuplicateDiscussions() ([]*model.ChatThread, []*model.ChatMessage) {
	var threads []*model.ChatThread
	var messages []*model.ChatMessage

	for _, topic := range duplicateTopics {
		teams := randx.Sample(b.rng, b.cfg.Organization.Teams, 2)
		for _, team := range teams {
			teamPeople := b.reg.PeopleByTeam(team)
			if len(teamPeople) == 0 {
				continue
			}

			b.dupThreadCounter++
			thread := &model.ChatThread{
				ThreadID:  fmt.Sprintf("T_DUP_%03d", b.dupThreadCounter),
				Channel:   strings.ToLower(team) + "-" + strings.ReplaceAll(topic, " ", "-"),
				TopicTags: []string{strings.ToLower(team), strings.ReplaceAll(topic, " ", "_")},
				CreatedAt: b.threadStartTime(),
			}

			participants := randx.Sample(b.rng, teamPeople, min(3, len(teamPeople)))
			for _, p := range participants {
				thread.Participants = append(thread.Participants, p.PersonID)
			}

			current := thread.CreatedAt
			for i := 0; i < b.rng.IntBetween(3, 5); i++ {
				sender := randx.Choice(b.rng, participants)
				b.dupMessageCounter++
				messages = append(messages, &model.ChatMessage{
					MessageID:      fmt.Sprintf("M_DUP_%04d", b.dupMessageCounter),
					ThreadID:       thread.ThreadID,
					SenderPersonID: sender.PersonID,
					Timestamp:      current,
					Text:           fmt.Sprintf("We need to analyze %s for our team. Has anyone started on this?", topic),
					Emotions:       "confused",
					ActionItems:    []string{"Research " + topic, "Create " + topic + " plan"},
				})
				current = current.Add(time.Duration(b.rng.IntBetween(5, 30)) * time.Minute)
			}
			threads = append(threads, thread)
		}
	}
	return threads, messages
}

// generateEmotionalThreads 生成 20 个情绪随消息序号升级再回落的事故线程。
func (b *CommunicationBuilder) generateEmotionalThreads() ([]*model.ChatThread, []*model.ChatMessage) {
	var threads []*model.ChatThread
	var messages []*model.ChatMessage

	people := b.reg.People()

	for i := 0; i < emotionalThreadCount; i++ {
		scenario := randx.Choice(b.rng, emotionalScenarios)

		thread := &model.ChatThread{
			ThreadID:  fmt.Sprintf("T_EMO_%03d", i+1),
			Channel:   "incident-" + strings.ReplaceAll(scenario.topic, " ", "-"),
			TopicTags: []string{"incident", strings.ReplaceAll(scenario.topic, " ", "_")},
			CreatedAt: b.threadStartTime(),
		}

		participants := randx.Sample(b.rng, people, b.rng.IntBetween(3, 6))
		for _, p := range participants {
			thread.Participants = append(thread.Participants, p.PersonID)
		}

		current := thread.CreatedAt
		for j := 0; j < b.rng.IntBetween(5, 10); j++ {
			sender := randx.Choice(b.rng, participants)

			// 前两条延续场景情绪，中段升级，结尾回落到 calm
			var emotion string
			switch {
			case j < 2:
				emotion = scenario.emotion
			case j < 5:
				if scenario.emotion != "frustrated" {
					emotion = "frustrated"
				} else {
					emotion = "urgent"
				}
			default:
				emotion = "calm"
			}

			b.emoMessageCounter++
			messages = append(messages, &model.ChatMessage{
				MessageID:      fmt.Sprintf("M_EMO_%04d", b.emoMessageCounter),
				ThreadID:       thread.ThreadID,
				SenderPersonID: sender.PersonID,
				Timestamp:      current,
				Text:           b.emotionalMessageText(scenario.topic, emotion, scenario.intensity),
				Emotions:       emotion,
			})
			current = current.Add(time.Duration(b.rng.IntBetween(2, 15)) * time.Minute)
		}
		threads = append(threads, thread)
	}
	return threads, messages
}

func (b *CommunicationBuilder) emotionalMessageText(topic, emotion, intensity string) string {
	calmTemplates := []string{
		"Update on %s: situation is under control now.",
		"Good news - the %s issue has been resolved.",
		"Thanks everyone for helping with the %s situation.",
	}
	intensityTemplates := map[string]map[string][]string{
		"frustrated": {
			"high": {
				"This %s is completely unacceptable! We need to fix this NOW!",
				"I can't believe %s happened again. This is the third time this month!",
				"The %s is causing major issues. Why wasn't this prevented?",
			},
			"medium": {
				"Really frustrated with this %s situation.",
				"The %s is becoming a real problem for our team.",
				"We need to address the %s issue before it gets worse.",
			},
		},
		"confused": {
			"medium": {
				"I'm really confused about the %s process. Can someone explain?",
				"The %s documentation doesn't make sense to me.",
				"Not sure how to handle this %s situation. Need guidance.",
			},
			"low": {
				"Quick question about %s - what's the standard approach?",
				"Clarification needed on %s requirements.",
				"Can someone help me understand the %s workflow?",
			},
		},
		"urgent": {
			"critical": {
				"CRITICAL: %s needs immediate attention! All hands on deck!",
				"URGENT: %s is affecting production systems!",
				"EMERGENCY: %s - need response team NOW!",
			},
			"high": {
				"High priority: %s needs to be resolved today.",
				"Urgent: %s is blocking other work.",
				"Time sensitive: %s deadline is approaching fast.",
			},
		},
	}

	if emotion == "calm" {
		return fmt.Sprintf(randx.Choice(b.rng, calmTemplates), topic)
	}
	byIntensity, ok := intensityTemplates[emotion]
	if ok {
		templates := byIntensity[intensity]
		if len(templates) == 0 {
			templates = byIntensity["medium"]
		}
		if len(templates) > 0 {
			return fmt.Sprintf(randx.Choice(b.rng, templates), topic)
		}
	}
	return fmt.Sprintf("We need to discuss the %s situation.", topic)
}

func (b *CommunicationBuilder) threadStartTime() time.Time {
	start, _ := b.cfg.StartTime()
	end, _ := b.cfg.EndTime()
	return b.rng.BusinessTime(b.rng.DateBetween(start, end))
}
