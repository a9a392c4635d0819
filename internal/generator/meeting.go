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

// meetingType 描述一类会议的出现频率、人数区间和标题模板。
type meetingType struct {
	name           string
	frequency      float64
	minAttendees   int
	maxAttendees   int
	titleTemplates []string
}

var meetingTypes = []meetingType{
	{"standup", 0.3, 3, 6, []string{
		"{team} Daily Standup", "{team} Sprint Planning", "{team} Weekly Sync",
	}},
	{"project", 0.25, 4, 8, []string{
		"{project} Project Review", "{project} Planning Session", "{project} Status Update",
	}},
	{"cross_team", 0.2, 5, 10, []string{
		"Cross-Team Sync: {topic}", "{topic} Collaboration Meeting", "Joint Planning: {topic}",
	}},
	{"leadership", 0.15, 3, 8, []string{
		"Leadership Team Meeting", "Quarterly Business Review", "Strategic Planning Session",
	}},
	{"all_hands", 0.1, 15, 25, []string{
		"All Hands Meeting", "Company Update", "Quarterly All Hands",
	}},
}

var meetingTopics = map[string][]string{
	"standup": {
		"sprint progress", "blockers review", "task assignments",
		"daily updates", "team coordination",
	},
	"project": {
		"project timeline", "milestone review", "resource allocation",
		"risk assessment", "deliverable planning",
	},
	"cross_team": {
		"customer churn analysis", "onboarding optimization", "pricing strategy",
		"system integration", "process alignment", "data sharing",
	},
	"leadership": {
		"quarterly results", "strategic initiatives", "budget planning",
		"organizational changes", "market analysis",
	},
	"all_hands": {
		"company updates", "new initiatives", "team introductions",
		"policy changes", "achievement recognition",
	},
}

var decisionTemplates = []string{
	"Approved {topic} implementation timeline",
	"Decided to prioritize {topic} over other initiatives",
	"Agreed on {topic} budget allocation of ${amount}",
	"Resolved to address {topic} by {timeframe}",
	"Committed to {topic} performance targets",
	"Established {topic} working group with cross-team members",
}

var actionItemTemplatesMeeting = []string{
	"{person} to complete {topic} analysis by {date}",
	"{person} to coordinate with {team} team on {topic}",
	"{person} to prepare {topic} proposal for next meeting",
	"{person} to schedule follow-up on {topic}",
	"{person} to update {topic} documentation",
	"{person} to present {topic} findings to stakeholders",
}

var dependencyTemplates = []string{
	"{team1} waiting for {team2} to complete {task}",
	"{team1} needs input from {team2} on {topic}",
	"{team1} and {team2} need to coordinate on {topic}",
	"{team1} blocked by {team2} resource availability",
}

var dependencyTasks = []string{"requirements", "design review", "testing", "deployment", "documentation"}
var dependencyTopics = []string{"API integration", "data migration", "user interface", "security review"}

var projectCodenames = []string{"Alpha", "Beta", "Phoenix", "Catalyst", "Nexus"}

var decisionTimeframes = []string{"end of quarter", "next month", "Q1", "by year-end"}

// 周简报内容素材。
var briefAchievements = []string{
	"Completed customer churn analysis showing 15% improvement in retention",
	"Launched new onboarding flow with 25% faster completion rates",
	"Finalized Q4 budget planning with all department approvals",
	"Deployed new API integration reducing processing time by 30%",
	"Completed security audit with zero critical findings",
}

var briefCollaborations = []string{
	"Marketing and Product teams aligned on customer segmentation strategy",
	"Engineering and Finance coordinating on infrastructure cost optimization",
	"HR and Product collaborating on employee onboarding tool development",
	"Marketing and Engineering working together on analytics dashboard",
	"Product and Finance analyzing pricing impact on user adoption",
}

var briefEmergingTopics = []string{
	"AI integration opportunities across product suite",
	"Remote work policy optimization based on team feedback",
	"Customer data privacy compliance requirements",
	"Sustainability initiatives for office operations",
	"Digital transformation of internal processes",
}

var briefMilestones = []string{
	"Q4 All Hands meeting scheduled for next Friday",
	"Product roadmap review with stakeholders next week",
	"Annual performance review cycle begins Monday",
	"New hire orientation program launches next month",
	"Quarterly business review presentations due next week",
}

var briefFallbackConnections = []string{
	"Connect Marketing and Product teams on customer feedback analysis",
	"Facilitate Engineering and Finance discussion on cloud cost optimization",
}

var teamAccomplishments = map[string][]string{
	"Marketing": {
		"Launched new campaign resulting in 20% increase in leads",
		"Completed competitive analysis for Q4 strategy",
		"Optimized email campaigns with 15% better open rates",
	},
	"Product": {
		"Released new feature with 85% positive user feedback",
		"Completed user research study with 200+ participants",
		"Finalized product roadmap for next quarter",
	},
	"Engineering": {
		"Deployed performance improvements reducing load time by 40%",
		"Completed security vulnerability assessment",
		"Migrated legacy systems to new infrastructure",
	},
	"Finance": {
		"Completed monthly financial close 2 days early",
		"Implemented new expense tracking system",
		"Finalized budget allocations for all departments",
	},
	"HR": {
		"Onboarded 3 new team members successfully",
		"Launched employee satisfaction survey",
		"Updated company policies based on legal review",
	},
}

var briefCrossTeamActivities = []string{
	"Collaborated with Product team on user experience improvements",
	"Coordinated with Engineering on technical requirements",
	"Worked with Finance on budget planning and resource allocation",
	"Partnered with Marketing on customer feedback analysis",
	"Supported HR on process optimization initiatives",
}

var briefPriorities = []string{
	"Complete quarterly planning documentation",
	"Review and approve pending project proposals",
	"Conduct team retrospective and planning session",
	"Finalize resource allocation for upcoming initiatives",
	"Prepare presentations for stakeholder review",
}

// 组织级周简报的固定周数。
const organizationalBriefWeeks = 12

// MeetingBuilder 生成会议纪要、每周简报和各团队入门资料包。
// 简报的推荐连接小节会复用已生成的跨团队洞察。
type MeetingBuilder struct {
	cfg      *config.Config
	reg      *registry.Registry
	rng      *randx.Source
	overlaps []*model.Overlap

	meetingCounter int
	briefCounter   int
}

// NewMeetingBuilder 创建会议与简报生成器。
func NewMeetingBuilder(cfg *config.Config, reg *registry.Registry, rng *randx.Source,
	overlaps []*model.Overlap) *MeetingBuilder {
	return &MeetingBuilder{cfg: cfg, reg: reg, rng: rng, overlaps: overlaps}
}

// Build 生成全部会议、简报和入门资料包。
func (b *MeetingBuilder) Build() ([]*model.Meeting, []*model.Brief, []*model.StarterPack) {
	meetings := make([]*model.Meeting, 0, b.cfg.Volumes.Meetings)
	for i := 0; i < b.cfg.Volumes.Meetings; i++ {
		meetings = append(meetings, b.createMeeting())
	}

	var briefs []*model.Brief
	for week := 0; week < organizationalBriefWeeks; week++ {
		briefs = append(briefs, b.createOrganizationalBrief(week))
	}
	for _, team := range b.cfg.Organization.Teams {
		briefs = append(briefs, b.createTeamBrief(team))
	}

	packs := b.createStarterPacks()

	log.Infow("会议与简报生成完成",
		"meetings", len(meetings), "briefs", len(briefs), "starter_packs", len(packs))
	return meetings, briefs, packs
}

func (b *MeetingBuilder) createMeeting() *model.Meeting {
	b.meetingCounter++
	meetingID := fmt.Sprintf("MEET_%03d", b.meetingCounter)

	names := make([]string, len(meetingTypes))
	weights := make([]float64, len(meetingTypes))
	for i, mt := range meetingTypes {
		names[i] = mt.name
		weights[i] = mt.frequency
	}
	typeName := randx.WeightedChoice(b.rng, names, weights)
	var mt meetingType
	for _, candidate := range meetingTypes {
		if candidate.name == typeName {
			mt = candidate
		}
	}

	title := b.meetingTitle(mt)
	attendees := b.selectAttendees(mt)
	date := b.meetingDate()

	return &model.Meeting{
		MeetingID:        meetingID,
		Title:            title,
		Attendees:        personIDs(attendees),
		Date:             date,
		Summary:          b.meetingSummary(mt.name, attendees),
		Decisions:        b.meetingDecisions(mt.name),
		ActionItems:      b.meetingActionItems(mt.name, attendees),
		TeamDependencies: b.teamDependencies(mt.name, attendees),
	}
}

func (b *MeetingBuilder) meetingTitle(mt meetingType) string {
	template := randx.Choice(b.rng, mt.titleTemplates)

	if strings.Contains(template, "{team}") {
		template = strings.ReplaceAll(template, "{team}",
			randx.Choice(b.rng, b.cfg.Organization.Teams))
	}
	if strings.Contains(template, "{project}") {
		template = strings.ReplaceAll(template, "{project}",
			randx.Choice(b.rng, projectCodenames))
	}
	if strings.Contains(template, "{topic}") {
		topic := randx.Choice(b.rng, meetingTopics[mt.name])
		template = strings.ReplaceAll(template, "{topic}", titleCase(topic))
	}
	return template
}

func (b *MeetingBuilder) selectAttendees(mt meetingType) []*model.Person {
	count := b.rng.IntBetween(mt.minAttendees, mt.maxAttendees)
	all := b.reg.People()

	var attendees []*model.Person
	switch mt.name {
	case "standup":
		team := randx.Choice(b.rng, b.cfg.Organization.Teams)
		teamPeople := b.reg.PeopleByTeam(team)
		attendees = randx.Sample(b.rng, teamPeople, min(count, len(teamPeople)))

	case "project":
		primaryTeam := randx.Choice(b.rng, b.cfg.Organization.Teams)
		primaryPeople := b.reg.PeopleByTeam(primaryTeam)
		primaryCount := int(float64(count) * 0.7)
		otherCount := count - primaryCount

		attendees = randx.Sample(b.rng, primaryPeople, min(primaryCount, len(primaryPeople)))
		var others []*model.Person
		for _, p := range all {
			if p.Team != primaryTeam {
				others = append(others, p)
			}
		}
		if otherCount > 0 {
			attendees = append(attendees, randx.Sample(b.rng, others, min(otherCount, len(others)))...)
		}

	case "cross_team":
		teamsInvolved := randx.Sample(b.rng, b.cfg.Organization.Teams,
			b.rng.IntBetween(2, 4))
		perTeam := max(1, count/len(teamsInvolved))
		for _, team := range teamsInvolved {
			teamPeople := b.reg.PeopleByTeam(team)
			attendees = append(attendees,
				randx.Sample(b.rng, teamPeople, min(perTeam, len(teamPeople)))...)
		}

	case "leadership":
		// 管理者和资深成员，按人员序去重
		seen := map[string]bool{}
		var pool []*model.Person
		for _, p := range all {
			if b.reg.IsManager(p.PersonID) && !seen[p.PersonID] {
				pool = append(pool, p)
				seen[p.PersonID] = true
			}
		}
		for _, p := range all {
			if p.TenureMonths > 24 && !seen[p.PersonID] {
				pool = append(pool, p)
				seen[p.PersonID] = true
			}
		}
		attendees = randx.Sample(b.rng, pool, min(count, len(pool)))

	default: // all_hands
		attendees = randx.Sample(b.rng, all, min(count, len(all)))
	}

	// 人数很少时指定的团队或池子可能抽空，退回全员抽样，会议总得有与会者
	if len(attendees) == 0 {
		attendees = randx.Sample(b.rng, all, min(count, len(all)))
	}
	return attendees
}

// meetingDate 取窗口内随机日期，落在周末则顺延到工作日，
// 整点取 9 到 16 时，分钟取常见会议刻度。
func (b *MeetingBuilder) meetingDate() time.Time {
	start, _ := b.cfg.StartTime()
	end, _ := b.cfg.EndTime()
	base := b.rng.DateBetween(start, end)
	for base.Weekday() == time.Saturday || base.Weekday() == time.Sunday {
		base = base.AddDate(0, 0, 1)
	}
	hour := b.rng.IntBetween(9, 16)
	minute := randx.Choice(b.rng, []int{0, 15, 30, 45})
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}

func (b *MeetingBuilder) meetingSummary(typeName string, attendees []*model.Person) string {
	primaryTopic := randx.Choice(b.rng, meetingTopics[typeName])

	var attendeeTeams []string
	seen := map[string]bool{}
	for _, p := range attendees {
		if !seen[p.Team] {
			attendeeTeams = append(attendeeTeams, p.Team)
			seen[p.Team] = true
		}
	}
	teamStr := strings.Join(attendeeTeams, ", ")
	if len(attendeeTeams) > 3 {
		teamStr = fmt.Sprintf("%d teams", len(attendeeTeams))
	}

	paragraphs := []string{
		fmt.Sprintf("Meeting focused on %s with representatives from %s. "+
			"Key discussions centered around current progress, challenges, and next steps. "+
			"The team reviewed recent developments and aligned on priorities moving forward.",
			primaryTopic, teamStr),
	}

	discussionPoints := []string{
		fmt.Sprintf("Detailed analysis of %s performance metrics and current status.", primaryTopic),
		fmt.Sprintf("Review of blockers and challenges related to %s implementation.", primaryTopic),
		fmt.Sprintf("Discussion of resource allocation and timeline adjustments for %s.", primaryTopic),
		"Evaluation of cross-team dependencies and coordination requirements.",
	}
	paragraphs = append(paragraphs,
		randx.Sample(b.rng, discussionPoints, b.rng.IntBetween(2, 3))...)

	paragraphs = append(paragraphs,
		fmt.Sprintf("The meeting concluded with clear action items and next steps. "+
			"Team members committed to specific deliverables and follow-up meetings were scheduled. "+
			"Overall progress on %s remains on track with identified mitigation strategies for current challenges.",
			primaryTopic))

	return strings.Join(paragraphs, " ")
}

func (b *MeetingBuilder) meetingDecisions(typeName string) []string {
	count := b.rng.IntBetween(1, 4)
	topics := meetingTopics[typeName]

	decisions := make([]string, 0, count)
	for i := 0; i < count; i++ {
		decision := randx.Choice(b.rng, decisionTemplates)
		decision = strings.ReplaceAll(decision, "{topic}", randx.Choice(b.rng, topics))
		decision = strings.ReplaceAll(decision, "{amount}",
			fmt.Sprintf("%dK", b.rng.IntBetween(10, 500)))
		decision = strings.ReplaceAll(decision, "{timeframe}",
			randx.Choice(b.rng, decisionTimeframes))
		decisions = append(decisions, decision)
	}
	return decisions
}

// meetingActionItems 的截止日期取自数据集时间窗口，保证重跑输出一致。
func (b *MeetingBuilder) meetingActionItems(typeName string, attendees []*model.Person) []string {
	count := b.rng.IntBetween(2, 6)
	topics := meetingTopics[typeName]
	start, _ := b.cfg.StartTime()
	end, _ := b.cfg.EndTime()

	items := make([]string, 0, count)
	for i := 0; i < count; i++ {
		item := randx.Choice(b.rng, actionItemTemplatesMeeting)
		person := randx.Choice(b.rng, attendees)
		dueDate := b.rng.DateBetween(start, end)

		item = strings.ReplaceAll(item, "{person}", person.FullName)
		item = strings.ReplaceAll(item, "{topic}", randx.Choice(b.rng, topics))
		item = strings.ReplaceAll(item, "{team}", randx.Choice(b.rng, b.cfg.Organization.Teams))
		item = strings.ReplaceAll(item, "{date}", dueDate.Format("January 2"))
		items = append(items, item)
	}
	return items
}

func (b *MeetingBuilder) teamDependencies(typeName string, attendees []*model.Person) []string {
	if typeName != "cross_team" && typeName != "project" {
		return nil
	}

	var attendeeTeams []string
	seen := map[string]bool{}
	for _, p := range attendees {
		if !seen[p.Team] {
			attendeeTeams = append(attendeeTeams, p.Team)
			seen[p.Team] = true
		}
	}
	if len(attendeeTeams) < 2 {
		return nil
	}

	count := b.rng.IntBetween(1, 3)
	deps := make([]string, 0, count)
	for i := 0; i < count; i++ {
		pair := randx.Sample(b.rng, attendeeTeams, 2)
		dep := randx.Choice(b.rng, dependencyTemplates)
		dep = strings.ReplaceAll(dep, "{team1}", pair[0])
		dep = strings.ReplaceAll(dep, "{team2}", pair[1])
		dep = strings.ReplaceAll(dep, "{task}", randx.Choice(b.rng, dependencyTasks))
		dep = strings.ReplaceAll(dep, "{topic}", randx.Choice(b.rng, dependencyTopics))
		deps = append(deps, dep)
	}
	return deps
}

func (b *MeetingBuilder) createOrganizationalBrief(weekNumber int) *model.Brief {
	b.briefCounter++
	start, _ := b.cfg.StartTime()
	weekDate := start.AddDate(0, 0, weekNumber*7)

	sections := []model.BriefSection{
		{Name: "Key Achievements This Week", Items: randx.Sample(b.rng, briefAchievements, 3)},
		{Name: "New Cross-Team Collaborations", Items: randx.Sample(b.rng, briefCollaborations, 2)},
		{Name: "Emerging Topics and Trends", Items: randx.Sample(b.rng, briefEmergingTopics, 2)},
		{Name: "Upcoming Milestones", Items: randx.Sample(b.rng, briefMilestones, 2)},
		{Name: "Suggested Connections", Items: b.suggestedConnections()},
	}

	return &model.Brief{
		BriefID:  fmt.Sprintf("BRIEF_ORG_%03d", b.briefCounter),
		Type:     "organizational",
		Title:    "Weekly Organizational Brief - Week of " + weekDate.Format("January 2, 2006"),
		WeekDate: weekDate,
		Sections: sections,
	}
}

// suggestedConnections 优先引用真实的跨团队洞察，缺失时退回固定建议。
func (b *MeetingBuilder) suggestedConnections() []string {
	var connections []string
	for _, ov := range randx.Sample(b.rng, b.overlaps, min(2, len(b.overlaps))) {
		connections = append(connections,
			fmt.Sprintf("Connect %s teams on %s",
				strings.Join(ov.TeamsInvolved, " and "), ov.TopicName))
	}
	if len(connections) == 0 {
		connections = append(connections, briefFallbackConnections...)
	}
	if len(connections) > 2 {
		connections = connections[:2]
	}
	return connections
}

func (b *MeetingBuilder) createTeamBrief(team string) *model.Brief {
	b.briefCounter++
	end, _ := b.cfg.EndTime()
	weekDate := end.AddDate(0, 0, -b.rng.IntBetween(1, 30))

	accomplishments := teamAccomplishments[team]
	if len(accomplishments) == 0 {
		accomplishments = []string{"Completed weekly objectives"}
	}

	sections := []model.BriefSection{
		{Name: "Team Accomplishments",
			Items: randx.Sample(b.rng, accomplishments, min(2, len(accomplishments)))},
		{Name: "Cross-Team Activities",
			Items: []string{randx.Choice(b.rng, briefCrossTeamActivities)}},
		{Name: "Next Week Priorities",
			Items: randx.Sample(b.rng, briefPriorities, 2)},
	}

	return &model.Brief{
		BriefID:  fmt.Sprintf("BRIEF_%s_%03d", strings.ToUpper(team), b.briefCounter),
		Type:     "team",
		Team:     team,
		Title:    team + " Team Weekly Brief - Week of " + weekDate.Format("January 2, 2006"),
		WeekDate: weekDate,
		Sections: sections,
	}
}

// createStarterPacks 为每个团队挑选精选文档、仪表盘链接和任期最长的三位专家。
func (b *MeetingBuilder) createStarterPacks() []*model.StarterPack {
	domain := companyDomain(b.cfg.Organization.CompanyName)
	end, _ := b.cfg.EndTime()

	var packs []*model.StarterPack
	for i, team := range b.cfg.Organization.Teams {
		var teamDocs []string
		for _, doc := range b.reg.Documents() {
			if doc.Team == team {
				teamDocs = append(teamDocs, doc.DocID)
			}
		}

		teamPeople := b.reg.PeopleByTeam(team)
		experts := make([]*model.Person, len(teamPeople))
		copy(experts, teamPeople)
		sort.SliceStable(experts, func(a, c int) bool {
			return experts[a].TenureMonths > experts[c].TenureMonths
		})
		if len(experts) > 3 {
			experts = experts[:3]
		}

		teamLower := strings.ToLower(team)
		packs = append(packs, &model.StarterPack{
			PackID:  fmt.Sprintf("PACK_%s_%03d", strings.ToUpper(team), i+1),
			Team:    team,
			Title:   team + " Team Starter Pack",
			Summary: fmt.Sprintf("Essential resources and contacts for new %s team members", team),
			DocIDs:  randx.Sample(b.rng, teamDocs, min(6, len(teamDocs))),
			DashboardLinks: []string{
				fmt.Sprintf("https://dashboard.%s/%s/metrics", domain, teamLower),
				fmt.Sprintf("https://analytics.%s/%s/reports", domain, teamLower),
				fmt.Sprintf("https://tools.%s/%s/workspace", domain, teamLower),
			},
			Experts:   personIDs(experts),
			UpdatedAt: end,
		})
	}
	return packs
}

func personIDs(people []*model.Person) []string {
	ids := make([]string, 0, len(people))
	for _, p := range people {
		ids = append(ids, p.PersonID)
	}
	return ids
}
