package generator

import (
	"fmt"
	"strconv"
	"time"

	"org-synth-go/internal/config"
	"org-synth-go/internal/randx"
	"org-synth-go/pkg/log"
)

// MetricsFile 表示一个待落盘的 CSV 指标文件。
type MetricsFile struct {
	Filename string
	Header   []string
	Rows     [][]string
}

// 指标数据覆盖的月度周期数和近期周度周期数。
const (
	metricsMonthlyPeriods = 18
	metricsWeeklyPeriods  = 8
)

var marketingCampaigns = []string{
	"Q1 Brand Awareness", "Product Launch", "Holiday Campaign",
	"Retargeting Campaign", "Lead Generation", "Customer Acquisition",
	"Social Media Push", "Email Campaign", "Content Marketing", "SEO Campaign",
}

var marketingChannels = []string{"Google Ads", "Facebook", "LinkedIn", "Email", "Organic", "Display"}

var metricRegions = []string{"North America", "Europe", "Asia Pacific", "Latin America"}

var productFeatures = []string{
	"Dashboard", "Analytics", "Reporting", "API Access", "Mobile App",
	"Notifications", "Collaboration", "Export", "Integration", "Search",
}

var productSegments = []string{"Free", "Pro", "Enterprise", "Trial"}

var customerSegments = []string{"SMB", "Mid-Market", "Enterprise", "Startup"}

// 各客户分层的流失率区间。
var segmentChurnRanges = map[string][2]float64{
	"SMB":        {8, 15},
	"Mid-Market": {5, 10},
	"Enterprise": {2, 6},
	"Startup":    {12, 20},
}

var financeDepartments = []string{"Marketing", "Product", "Engineering", "Finance", "HR", "Sales"}

var hrBaseHeadcount = map[string]int{
	"Marketing": 8, "Product": 6, "Engineering": 12, "Finance": 4, "HR": 3,
}

// MetricsBuilder 生成五类业务指标 CSV：营销投放、产品采用、
// 客户流失、财务 KPI 和人力分析。
type MetricsBuilder struct {
	cfg *config.Config
	rng *randx.Source
}

// NewMetricsBuilder 创建指标生成器。
func NewMetricsBuilder(cfg *config.Config, rng *randx.Source) *MetricsBuilder {
	return &MetricsBuilder{cfg: cfg, rng: rng}
}

// Build 为每类指标生成 18 个月度周期加近 8 周周度周期的数据。
func (b *MetricsBuilder) Build() []*MetricsFile {
	files := []*MetricsFile{
		b.buildFile("marketing_metrics.csv",
			[]string{"date", "campaign_name", "channel", "impressions", "clicks",
				"ctr", "cost", "conversions", "conversion_rate", "cpa", "roas", "region"},
			b.marketingRows),
		b.buildFile("product_adoption.csv",
			[]string{"date", "feature_id", "feature_name", "active_users", "new_users",
				"retention_rate", "engagement_score", "completion_rate", "user_segment"},
			b.productRows),
		b.buildFile("customer_churn.csv",
			[]string{"date", "region", "customer_segment", "churn_rate", "retention_rate",
				"satisfaction_score", "support_tickets", "avg_resolution_time", "nps_score"},
			b.customerRows),
		b.buildFile("finance_kpis.csv",
			[]string{"date", "quarter", "revenue", "expenses", "profit_margin", "cash_flow",
				"arr", "mrr", "ltv", "cac", "department"},
			b.financeRows),
		b.buildFile("hr_analytics.csv",
			[]string{"date", "department", "headcount", "new_hires", "departures",
				"attrition_rate", "engagement_score", "satisfaction_score", "training_hours"},
			b.hrRows),
	}

	total := 0
	for _, f := range files {
		total += len(f.Rows)
	}
	log.Infow("指标生成完成", "files", len(files), "rows", total)
	return files
}

func (b *MetricsBuilder) buildFile(filename string, header []string,
	rowsFor func(time.Time) [][]string) *MetricsFile {
	end, _ := b.cfg.EndTime()

	var rows [][]string
	current := end.AddDate(0, 0, -30*metricsMonthlyPeriods)
	for m := 0; m < metricsMonthlyPeriods; m++ {
		rows = append(rows, rowsFor(current)...)
		current = current.AddDate(0, 1, 0)
	}

	current = end.AddDate(0, 0, -7*metricsWeeklyPeriods)
	for w := 0; w < metricsWeeklyPeriods; w++ {
		rows = append(rows, rowsFor(current)...)
		current = current.AddDate(0, 0, 7)
	}

	return &MetricsFile{Filename: filename, Header: header, Rows: rows}
}

func (b *MetricsBuilder) marketingRows(date time.Time) [][]string {
	count := b.rng.IntBetween(2, 4)
	rows := make([][]string, 0, count)

	for i := 0; i < count; i++ {
		impressions := b.rng.IntBetween(10000, 100000)
		// 年末假日季的投放量抬升
		if date.Month() == time.November || date.Month() == time.December {
			impressions = int(float64(impressions) * 1.3)
		}
		ctr := b.rng.FloatBetween(0.5, 5.0)
		clicks := int(float64(impressions) * ctr / 100)
		cost := b.rng.FloatBetween(1000, 10000)
		conversionRate := b.rng.FloatBetween(1.0, 8.0)
		conversions := int(float64(clicks) * conversionRate / 100)
		cpa := cost / float64(max(conversions, 1))
		roas := float64(conversions) * b.rng.FloatBetween(50, 200) / cost

		rows = append(rows, []string{
			date.Format("2006-01-02"),
			randx.Choice(b.rng, marketingCampaigns),
			randx.Choice(b.rng, marketingChannels),
			strconv.Itoa(impressions),
			strconv.Itoa(clicks),
			round2(ctr),
			round2(cost),
			strconv.Itoa(conversions),
			round2(conversionRate),
			round2(cpa),
			round2(roas),
			randx.Choice(b.rng, metricRegions),
		})
	}
	return rows
}

func (b *MetricsBuilder) productRows(date time.Time) [][]string {
	start, _ := b.cfg.StartTime()
	monthsSinceStart := (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
	growth := 1 + float64(monthsSinceStart)*0.05

	segmentMultipliers := map[string]float64{"Free": 1.0, "Pro": 0.6, "Enterprise": 0.3, "Trial": 0.2}

	var rows [][]string
	for fi, feature := range productFeatures {
		for _, segment := range productSegments {
			baseUsers := float64(b.rng.IntBetween(100, 2000)) * growth
			activeUsers := int(baseUsers * segmentMultipliers[segment])
			newUsers := int(float64(activeUsers) * b.rng.FloatBetween(0.05, 0.15))

			rows = append(rows, []string{
				date.Format("2006-01-02"),
				fmt.Sprintf("FEAT_%03d", fi+1),
				feature,
				strconv.Itoa(activeUsers),
				strconv.Itoa(newUsers),
				round1(b.rng.FloatBetween(70, 95)),
				round1(b.rng.FloatBetween(3.0, 5.0)),
				round1(b.rng.FloatBetween(60, 90)),
				segment,
			})
		}
	}
	return rows
}

func (b *MetricsBuilder) customerRows(date time.Time) [][]string {
	var rows [][]string
	for _, region := range metricRegions {
		for _, segment := range customerSegments {
			churnRange, ok := segmentChurnRanges[segment]
			if !ok {
				churnRange = [2]float64{5, 15}
			}
			churnRate := b.rng.FloatBetween(churnRange[0], churnRange[1])

			// 满意度与流失率负相关
			var satisfaction float64
			if churnRate < 10 {
				satisfaction = b.rng.FloatBetween(3.5, 5.0)
			} else {
				satisfaction = b.rng.FloatBetween(2.5, 4.0)
			}

			nps := (satisfaction-3)*20 + b.rng.FloatBetween(-10, 10)
			if nps > 100 {
				nps = 100
			}
			if nps < -100 {
				nps = -100
			}

			rows = append(rows, []string{
				date.Format("2006-01-02"),
				region,
				segment,
				round2(churnRate),
				round2(100 - churnRate),
				round1(satisfaction),
				strconv.Itoa(b.rng.IntBetween(50, 500)),
				round1(b.rng.FloatBetween(2, 48)),
				round1(nps),
			})
		}
	}
	return rows
}

func (b *MetricsBuilder) financeRows(date time.Time) [][]string {
	start, _ := b.cfg.StartTime()
	quarter := fmt.Sprintf("Q%d", (int(date.Month())-1)/3+1)
	monthsSinceStart := (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
	growth := 1 + float64(monthsSinceStart)*0.08

	revenue := 1000000 * growth * b.rng.FloatBetween(0.9, 1.1)
	expenses := revenue * b.rng.FloatBetween(0.6, 0.8)
	profitMargin := (revenue - expenses) / revenue * 100
	cashFlow := revenue - expenses + b.rng.FloatBetween(-50000, 100000)
	ltv := b.rng.FloatBetween(5000, 15000)
	cac := b.rng.FloatBetween(500, 2000)

	rows := [][]string{{
		date.Format("2006-01-02"), quarter,
		round2(revenue), round2(expenses), round2(profitMargin), round2(cashFlow),
		round2(revenue * 12), round2(revenue), round2(ltv), round2(cac),
		"Company",
	}}

	for _, department := range financeDepartments {
		deptRevenue := revenue * b.rng.FloatBetween(0.1, 0.3)
		deptExpenses := deptRevenue * b.rng.FloatBetween(0.5, 0.9)
		deptMargin := (deptRevenue - deptExpenses) / deptRevenue * 100

		rows = append(rows, []string{
			date.Format("2006-01-02"), quarter,
			round2(deptRevenue), round2(deptExpenses), round2(deptMargin),
			round2(deptRevenue - deptExpenses),
			round2(deptRevenue * 12), round2(deptRevenue),
			round2(ltv * b.rng.FloatBetween(0.8, 1.2)),
			round2(cac * b.rng.FloatBetween(0.8, 1.2)),
			department,
		})
	}
	return rows
}

func (b *MetricsBuilder) hrRows(date time.Time) [][]string {
	start, _ := b.cfg.StartTime()
	monthsSinceStart := (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
	growth := 1 + float64(monthsSinceStart)*0.02

	var rows [][]string
	for _, department := range b.cfg.Organization.Teams {
		base, ok := hrBaseHeadcount[department]
		if !ok {
			base = 5
		}
		headcount := int(float64(base) * growth)
		newHires := b.rng.IntBetween(0, max(2, headcount/10))
		departures := b.rng.IntBetween(0, max(1, headcount/15))
		attrition := float64(departures) / float64(max(headcount, 1)) * 100 * 12

		rows = append(rows, []string{
			date.Format("2006-01-02"),
			department,
			strconv.Itoa(headcount),
			strconv.Itoa(newHires),
			strconv.Itoa(departures),
			round2(attrition),
			round1(b.rng.FloatBetween(3.2, 4.8)),
			round1(b.rng.FloatBetween(3.0, 4.5)),
			strconv.Itoa(b.rng.IntBetween(2, 20) * headcount),
		})
	}
	return rows
}

func round2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func round1(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
