package randx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)

	items := []string{"alpha", "beta", "gamma", "delta"}
	for i := 0; i < 50; i++ {
		assert.Equal(t, Choice(a, items), Choice(b, items))
		assert.Equal(t, a.IntBetween(1, 100), b.IntBetween(1, 100))
	}
}

func TestChoiceEmpty(t *testing.T) {
	s := New(1)
	assert.Equal(t, "", Choice(s, []string{}))
}

func TestSampleCapsAtPopulation(t *testing.T) {
	s := New(7)
	items := []int{1, 2, 3}

	got := Sample(s, items, 10)
	require.Len(t, got, 3)
	assert.ElementsMatch(t, items, got)

	assert.Nil(t, Sample(s, items, 0))
	assert.Nil(t, Sample(s, []int{}, 2))
}

func TestSampleUnique(t *testing.T) {
	s := New(9)
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	for i := 0; i < 20; i++ {
		got := Sample(s, items, 4)
		seen := map[int]bool{}
		for _, v := range got {
			assert.False(t, seen[v], "sample must not repeat elements")
			seen[v] = true
		}
	}
}

func TestWeightedChoiceRespectsWeights(t *testing.T) {
	s := New(3)
	items := []string{"rare", "common"}
	weights := []float64{0.01, 0.99}

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		counts[WeightedChoice(s, items, weights)]++
	}
	assert.Greater(t, counts["common"], counts["rare"])
}

func TestWeightedChoiceMismatchedWeights(t *testing.T) {
	s := New(4)
	items := []string{"a", "b"}
	got := WeightedChoice(s, items, []float64{1.0})
	assert.Contains(t, items, got)
}

func TestDateBetweenStaysInRange(t *testing.T) {
	s := New(11)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		d := s.DateBetween(start, end)
		assert.False(t, d.Before(start))
		assert.True(t, d.Before(end.AddDate(0, 0, 1)))
	}
}

func TestBusinessTimeWithinHours(t *testing.T) {
	s := New(13)
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		ts := s.BusinessTime(day)
		assert.GreaterOrEqual(t, ts.Hour(), 9)
		assert.LessOrEqual(t, ts.Hour(), 16)
		assert.Equal(t, day.Day(), ts.Day())
	}
}
