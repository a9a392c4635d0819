package generator

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMetrics(t *testing.T, seed int64) []*MetricsFile {
	t.Helper()
	cfg, _, rng := newTestEnv(seed)
	return NewMetricsBuilder(cfg, rng).Build()
}

func TestMetricsFileSet(t *testing.T) {
	files := buildMetrics(t, 42)
	require.Len(t, files, 5)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
		assert.NotEmpty(t, f.Header)
		assert.NotEmpty(t, f.Rows)
		for _, row := range f.Rows {
			assert.Len(t, row, len(f.Header), "row width must match header in %s", f.Filename)
		}
	}
	assert.Equal(t, []string{
		"marketing_metrics.csv", "product_adoption.csv", "customer_churn.csv",
		"finance_kpis.csv", "hr_analytics.csv",
	}, names)
}

func TestMetricsPeriodCounts(t *testing.T) {
	files := buildMetrics(t, 42)

	for _, f := range files {
		dates := map[string]bool{}
		for _, row := range f.Rows {
			dates[row[0]] = true
			_, err := time.Parse("2006-01-02", row[0])
			require.NoError(t, err)
		}
		// 18 个月度周期 + 8 个周度周期
		assert.Equal(t, 26, len(dates), "distinct periods in %s", f.Filename)
	}
}

func TestMetricsProductRowsPerPeriod(t *testing.T) {
	files := buildMetrics(t, 42)

	var product *MetricsFile
	for _, f := range files {
		if f.Filename == "product_adoption.csv" {
			product = f
		}
	}
	require.NotNil(t, product)
	// 10 个功能 x 4 个分层 x 26 个周期
	assert.Len(t, product.Rows, 10*4*26)
}

func TestMetricsCustomerChurnStaysInSegmentRange(t *testing.T) {
	files := buildMetrics(t, 7)

	var churn *MetricsFile
	for _, f := range files {
		if f.Filename == "customer_churn.csv" {
			churn = f
		}
	}
	require.NotNil(t, churn)

	for _, row := range churn.Rows {
		segment := row[2]
		rate, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		retention, err := strconv.ParseFloat(row[4], 64)
		require.NoError(t, err)
		assert.InDelta(t, 100, rate+retention, 0.01)

		bounds, ok := segmentChurnRanges[segment]
		require.True(t, ok, "unknown segment %s", segment)
		assert.GreaterOrEqual(t, rate, bounds[0])
		assert.LessOrEqual(t, rate, bounds[1])
	}
}

func TestMetricsFinanceCompanyRowLeadsEachPeriod(t *testing.T) {
	files := buildMetrics(t, 42)

	var finance *MetricsFile
	for _, f := range files {
		if f.Filename == "finance_kpis.csv" {
			finance = f
		}
	}
	require.NotNil(t, finance)

	// 每期 1 条公司级 + 6 条部门级
	require.Equal(t, 0, len(finance.Rows)%7)
	for i := 0; i < len(finance.Rows); i += 7 {
		assert.Equal(t, "Company", finance.Rows[i][10])
	}
}

func TestMetricsDeterministic(t *testing.T) {
	files1 := buildMetrics(t, 42)
	files2 := buildMetrics(t, 42)

	require.Equal(t, len(files1), len(files2))
	for i := range files1 {
		assert.Equal(t, files1[i].Rows, files2[i].Rows)
	}
}
