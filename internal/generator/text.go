package generator

import (
	"strings"

	"org-synth-go/internal/randx"
)

var businessWords = []string{
	"analysis", "strategy", "implementation", "optimization", "performance",
	"metrics", "insights", "collaboration", "efficiency", "innovation",
	"customer", "market", "revenue", "growth", "engagement", "conversion",
	"platform", "solution", "framework", "methodology", "approach",
	"requirements", "objectives", "deliverables", "timeline", "resources",
}

// realisticText 由商务词汇池和话题关键词拼出带句读的填充文本。
// 文本只求词汇合理，不保证语义通顺。
func realisticText(rng *randx.Source, minWords, maxWords int, topicKeywords []string) string {
	pool := make([]string, 0, len(businessWords)+len(topicKeywords))
	pool = append(pool, businessWords...)
	pool = append(pool, topicKeywords...)

	wordCount := rng.IntBetween(minWords, maxWords)
	words := make([]string, 0, wordCount)
	for i := 0; i < wordCount; i++ {
		w := randx.Choice(rng, pool)
		if i == 0 {
			w = capitalize(w)
		}
		words = append(words, w)
	}

	var sentences []string
	var current []string
	for _, w := range words {
		current = append(current, w)
		if len(current) >= rng.IntBetween(5, 12) {
			sentences = append(sentences, strings.Join(current, " ")+".")
			current = nil
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, strings.Join(current, " ")+".")
	}
	return strings.Join(sentences, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
