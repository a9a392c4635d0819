// Package randx 提供种子可复现的抽样原语，供所有生成器共享。
package randx

import (
	"math/rand"
	"time"
)

// Source 包装一个带种子的随机源，同一种子保证产生相同的抽样序列。
type Source struct {
	rng *rand.Rand
}

// New 以指定种子创建随机源。
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// IntBetween 返回 [min, max] 区间内的随机整数。
func (s *Source) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// Float 返回 [0, 1) 区间内的随机浮点数。
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// FloatBetween 返回 [min, max) 区间内的随机浮点数。
func (s *Source) FloatBetween(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// Chance 以概率 p 返回真。
func (s *Source) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Choice 从列表中均匀随机选取一项，空列表返回零值。
func Choice[T any](s *Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[s.rng.Intn(len(items))]
}

// Sample 无放回地随机选取 k 个元素，k 超过列表长度时取全部。
// 返回的是新切片，原列表不被打乱。
func Sample[T any](s *Source, items []T, k int) []T {
	if len(items) == 0 || k <= 0 {
		return nil
	}
	if k > len(items) {
		k = len(items)
	}
	idx := s.rng.Perm(len(items))[:k]
	out := make([]T, 0, k)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

// WeightedChoice 按权重随机选取一项。权重列表与条目不等长时退化为均匀选取。
func WeightedChoice[T any](s *Source, items []T, weights []float64) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	if len(weights) != len(items) {
		return Choice(s, items)
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return Choice(s, items)
	}
	r := s.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return items[i]
		}
	}
	return items[len(items)-1]
}

// DateBetween 在两个时间点之间随机采样：先随机取天数，再随机取当天秒数。
func (s *Source) DateBetween(start, end time.Time) time.Time {
	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return start
	}
	randomDays := s.rng.Intn(days)
	randomSeconds := s.rng.Intn(24 * 60 * 60)
	return start.AddDate(0, 0, randomDays).Add(time.Duration(randomSeconds) * time.Second)
}

// BusinessTime 将日期调整到工作时段（9 点到 17 点之间）的随机时刻。
func (s *Source) BusinessTime(date time.Time) time.Time {
	hour := s.IntBetween(9, 16)
	minute := s.IntBetween(0, 59)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}
