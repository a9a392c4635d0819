// Package generator 包含各类实体的生成器，按固定顺序由流水线调度。
package generator

import (
	"fmt"
	"strings"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
	"org-synth-go/internal/randx"
	"org-synth-go/internal/registry"
	"org-synth-go/pkg/log"
)

var firstNames = []string{
	"Maya", "Rahul", "Priya", "Alex", "Sarah", "David", "Lisa", "Michael",
	"Jennifer", "James", "Maria", "Robert", "Linda", "William", "Patricia",
	"John", "Barbara", "Richard", "Elizabeth", "Joseph", "Jessica", "Thomas",
	"Susan", "Christopher", "Karen", "Daniel", "Nancy", "Matthew", "Betty",
	"Anthony", "Helen", "Mark", "Sandra", "Donald", "Donna", "Steven", "Carol",
}

var lastNames = []string{
	"Chen", "Sharma", "Patel", "Johnson", "Williams", "Brown", "Jones", "Garcia",
	"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee",
	"Perez", "Thompson", "White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis",
	"Robinson", "Walker", "Young", "Allen", "King", "Wright", "Scott", "Torres",
}

var roleTemplates = map[string][]string{
	"Marketing": {
		"Marketing Manager", "Marketing Analyst", "Content Strategist",
		"Digital Marketing Specialist", "Brand Manager", "Marketing Coordinator",
		"Growth Marketing Manager", "Marketing Director",
	},
	"Product": {
		"Product Manager", "Senior Product Manager", "Product Analyst",
		"Product Owner", "UX Designer", "Product Marketing Manager",
		"Product Director", "Associate Product Manager",
	},
	"Engineering": {
		"Software Engineer", "Senior Software Engineer", "DevOps Engineer",
		"Frontend Developer", "Backend Developer", "Full Stack Developer",
		"Engineering Manager", "Principal Engineer", "Tech Lead",
	},
	"Finance": {
		"Financial Analyst", "Senior Financial Analyst", "Finance Manager",
		"Controller", "Finance Director", "Budget Analyst", "Accounting Manager",
	},
	"HR": {
		"HR Manager", "HR Business Partner", "Talent Acquisition Specialist",
		"HR Coordinator", "People Operations Manager", "HR Director",
		"Recruiter", "HR Analyst",
	},
}

var teamSkills = map[string][]string{
	"Marketing": {
		"Digital Marketing", "Content Strategy", "SEO/SEM", "Social Media",
		"Analytics", "Campaign Management", "Brand Strategy", "Market Research",
		"Email Marketing", "Growth Hacking", "A/B Testing", "Customer Segmentation",
	},
	"Product": {
		"Product Strategy", "User Research", "Data Analysis", "A/B Testing",
		"Roadmap Planning", "Agile/Scrum", "User Experience", "Market Analysis",
		"Feature Prioritization", "Stakeholder Management", "Wireframing", "SQL",
	},
	"Engineering": {
		"Python", "JavaScript", "React", "Node.js", "AWS", "Docker", "Kubernetes",
		"SQL", "NoSQL", "Git", "CI/CD", "System Design", "API Development",
		"Microservices", "DevOps", "Machine Learning", "Data Engineering",
	},
	"Finance": {
		"Financial Modeling", "Excel", "SQL", "Budgeting", "Forecasting",
		"Financial Analysis", "Accounting", "Risk Management", "Compliance",
		"Business Intelligence", "Data Analysis", "Cost Management",
	},
	"HR": {
		"Talent Acquisition", "Performance Management", "Employee Relations",
		"Compensation & Benefits", "Training & Development", "HR Analytics",
		"Organizational Development", "Employment Law", "HRIS", "Recruiting",
	},
}

var timezones = []string{
	"America/Los_Angeles", "America/New_York", "Europe/London",
	"America/Chicago", "America/Denver",
}

var seniorRoleKeywords = []string{"manager", "director", "lead", "principal"}

// 在职月数按分桶的权重钟形分布抽取，偏向中等司龄。
var tenureRanges = [][2]int{{1, 6}, {6, 12}, {12, 24}, {24, 36}, {36, 48}, {48, 60}, {60, 72}}
var tenureWeights = []float64{1, 2, 3, 4, 3, 2, 1}

// OrganizationBuilder 生成人员与汇报关系。
type OrganizationBuilder struct {
	cfg *config.Config
	reg *registry.Registry
	rng *randx.Source

	managerIDs []string
}

// NewOrganizationBuilder 创建组织结构生成器。
func NewOrganizationBuilder(cfg *config.Config, reg *registry.Registry, rng *randx.Source) *OrganizationBuilder {
	return &OrganizationBuilder{cfg: cfg, reg: reg, rng: rng}
}

// Build 生成全部人员，分配经理并登记到注册表。
func (b *OrganizationBuilder) Build() []*model.Person {
	people := b.generatePeople()
	b.assignManagers(people)
	b.createTeamHistory(people)

	for _, p := range people {
		b.reg.RegisterPerson(p)
	}
	log.Infow("组织结构生成完成", "people", len(people), "teams", len(b.cfg.Organization.Teams), "managers", len(b.managerIDs))
	return people
}

// ManagerIDs 返回被选定为经理的人员标识，经理本人没有 manager_id。
func (b *OrganizationBuilder) ManagerIDs() []string { return b.managerIDs }

func (b *OrganizationBuilder) generatePeople() []*model.Person {
	usedNames := make(map[string]bool)

	people := b.createDemoPersonas()
	for _, p := range people {
		usedNames[p.FullName] = true
	}

	remaining := b.cfg.Organization.EmployeeCount - len(people)
	for i := 0; i < remaining; i++ {
		p := b.generateSinglePerson(i+len(b.cfg.DemoPersonas), usedNames)
		people = append(people, p)
		usedNames[p.FullName] = true
	}
	return people
}

// createDemoPersonas 优先创建配置中的演示人物，保证特定姓名一定存在。
func (b *OrganizationBuilder) createDemoPersonas() []*model.Person {
	domain := companyDomain(b.cfg.Organization.CompanyName)
	out := make([]*model.Person, 0, len(b.cfg.DemoPersonas))

	for i, persona := range b.cfg.DemoPersonas {
		nameParts := strings.Split(strings.ToLower(persona.Name), " ")
		email := fmt.Sprintf("%s@%s", strings.Join(nameParts, "."), domain)

		skills := randx.Sample(b.rng, teamSkills[persona.Team], b.rng.IntBetween(3, 6))

		var tenure int
		if strings.Contains(persona.Role, "New Hire") {
			tenure = b.rng.IntBetween(1, 3)
		} else {
			tenure = b.rng.IntBetween(12, 48)
		}

		out = append(out, &model.Person{
			PersonID:     fmt.Sprintf("P_%03d", i+1),
			FullName:     persona.Name,
			Email:        email,
			RoleTitle:    persona.Role,
			Team:         persona.Team,
			Skills:       skills,
			TenureMonths: tenure,
			Active:       true,
			Timezone:     randx.Choice(b.rng, timezones),
		})
	}
	return out
}

func (b *OrganizationBuilder) generateSinglePerson(index int, usedNames map[string]bool) *model.Person {
	var fullName string
	for attempts := 0; ; attempts++ {
		first := randx.Choice(b.rng, firstNames)
		last := randx.Choice(b.rng, lastNames)
		fullName = first + " " + last
		if !usedNames[fullName] {
			break
		}
		if attempts >= 50 {
			// 名字池耗尽时追加序号兜底，避免死循环
			fullName = fmt.Sprintf("%s %s %d", first, last, index)
			break
		}
	}

	teams := b.cfg.Organization.Teams
	team := teams[index%len(teams)]

	role := randx.Choice(b.rng, roleTemplates[team])
	if role == "" {
		role = team + " Specialist"
	}

	email := fmt.Sprintf("%s@%s",
		strings.ReplaceAll(strings.ToLower(fullName), " ", "."),
		companyDomain(b.cfg.Organization.CompanyName))

	skills := randx.Sample(b.rng, teamSkills[team], b.rng.IntBetween(3, 7))

	tenureRange := randx.WeightedChoice(b.rng, tenureRanges, tenureWeights)
	tenure := b.rng.IntBetween(tenureRange[0], tenureRange[1])

	return &model.Person{
		PersonID:     fmt.Sprintf("P_%03d", index+1),
		FullName:     fullName,
		Email:        email,
		RoleTitle:    role,
		Team:         team,
		Skills:       skills,
		TenureMonths: tenure,
		Active:       true,
		Timezone:     randx.Choice(b.rng, timezones),
	}
}

// assignManagers 两阶段选出恰好 manager_count 名经理并为其余人分配汇报对象。
func (b *OrganizationBuilder) assignManagers(people []*model.Person) {
	var potential []*model.Person
	potentialSet := make(map[string]bool)

	for _, p := range people {
		title := strings.ToLower(p.RoleTitle)
		isSenior := false
		for _, kw := range seniorRoleKeywords {
			if strings.Contains(title, kw) {
				isSenior = true
				break
			}
		}
		if isSenior || p.TenureMonths >= 24 {
			potential = append(potential, p)
			potentialSet[p.PersonID] = true
		}
	}

	target := b.cfg.Organization.ManagerCount
	if len(potential) < target {
		var rest []*model.Person
		for _, p := range people {
			if !potentialSet[p.PersonID] {
				rest = append(rest, p)
			}
		}
		for _, p := range randx.Sample(b.rng, rest, target-len(potential)) {
			if !strings.Contains(p.RoleTitle, "Senior") {
				p.RoleTitle = "Senior " + p.RoleTitle
			}
			potential = append(potential, p)
		}
	}

	managers := randx.Sample(b.rng, potential, target)
	managerSet := make(map[string]bool, len(managers))
	b.managerIDs = b.managerIDs[:0]
	for _, m := range managers {
		managerSet[m.PersonID] = true
		b.managerIDs = append(b.managerIDs, m.PersonID)
	}

	for _, p := range people {
		if managerSet[p.PersonID] {
			continue
		}
		var sameTeam []*model.Person
		for _, m := range managers {
			if m.Team == p.Team {
				sameTeam = append(sameTeam, m)
			}
		}
		if len(sameTeam) > 0 {
			p.ManagerID = randx.Choice(b.rng, sameTeam).PersonID
		} else if len(managers) > 0 {
			p.ManagerID = randx.Choice(b.rng, managers).PersonID
		}
	}
}

// createTeamHistory 给四分之一司龄足够的人补上一段转岗历史。
func (b *OrganizationBuilder) createTeamHistory(people []*model.Person) {
	changeCount := int(float64(len(people)) * 0.25)
	for _, p := range randx.Sample(b.rng, people, changeCount) {
		if p.TenureMonths < 12 {
			continue
		}
		var others []string
		for _, t := range b.cfg.Organization.Teams {
			if t != p.Team {
				others = append(others, t)
			}
		}
		if len(others) > 0 {
			p.PreviousTeams = []string{randx.Choice(b.rng, others)}
		}
	}
}

// companyDomain 由公司名首个单词推导邮箱域名。
func companyDomain(companyName string) string {
	parts := strings.Fields(strings.ToLower(companyName))
	if len(parts) == 0 {
		return "example.com"
	}
	return parts[0] + ".com"
}
