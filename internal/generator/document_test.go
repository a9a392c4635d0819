package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/model"
)

func buildDocuments(t *testing.T, seed int64) []*model.Document {
	t.Helper()
	cfg, reg, rng := newTestEnv(seed)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	return NewDocumentBuilder(cfg, reg, rng).Build()
}

func TestDocumentCountAndTeamQuota(t *testing.T) {
	docs := buildDocuments(t, 42)
	require.Len(t, docs, 160)

	counts := map[string]int{}
	for _, d := range docs {
		counts[d.Team]++
	}
	for team, n := range counts {
		assert.InDelta(t, 32, n, 1, "team %s quota", team)
	}
}

func TestDocumentNonEnglishFixedCount(t *testing.T) {
	docs := buildDocuments(t, 42)

	nonEnglish := 0
	for _, d := range docs {
		if d.Language != "en" {
			nonEnglish++
			assert.True(t, strings.HasPrefix(d.Title, "["), "translated title carries language tag: %s", d.Title)
			assert.Contains(t, d.Content, "[Content in ")
			assert.True(t, strings.HasSuffix(d.Content, "..."))
		}
	}
	assert.Equal(t, 5, nonEnglish)
}

func TestDocumentAuthorsResolveAndRelatedCapped(t *testing.T) {
	cfg, reg, rng := newTestEnv(9)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	docs := NewDocumentBuilder(cfg, reg, rng).Build()

	for _, d := range docs {
		author, ok := reg.Person(d.AuthorPersonID)
		require.True(t, ok, "author of %s must resolve", d.DocID)
		assert.Equal(t, d.Team, author.Team, "authors write for their own team")

		for _, co := range d.CoAuthors {
			_, ok := reg.Person(co)
			assert.True(t, ok, "co_author of %s must resolve", d.DocID)
			assert.NotEqual(t, d.AuthorPersonID, co)
		}

		assert.LessOrEqual(t, len(d.CoAuthors), 2)
		assert.LessOrEqual(t, len(d.RelatedDocIDs), 2)
		assert.LessOrEqual(t, len(d.Tags), 5)
	}
}

func TestDocumentRelatedIDsShareATag(t *testing.T) {
	cfg, reg, rng := newTestEnv(21)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	docs := NewDocumentBuilder(cfg, reg, rng).Build()

	byID := map[string]*model.Document{}
	for _, d := range docs {
		byID[d.DocID] = d
	}

	for _, d := range docs {
		for _, rel := range d.RelatedDocIDs {
			other, ok := byID[rel]
			require.True(t, ok, "related doc %s must exist", rel)
			shared := false
			for _, tag := range d.Tags {
				for _, otherTag := range other.Tags {
					if tag == otherTag {
						shared = true
					}
				}
			}
			assert.True(t, shared, "%s and %s must share a tag", d.DocID, rel)
		}
	}
}

func TestDocumentTimestampsOrderedAndInWindow(t *testing.T) {
	cfg, reg, rng := newTestEnv(33)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	docs := NewDocumentBuilder(cfg, reg, rng).Build()

	start, err := cfg.StartTime()
	require.NoError(t, err)

	for _, d := range docs {
		assert.False(t, d.CreatedAt.Before(start))
		assert.False(t, d.UpdatedAt.Before(d.CreatedAt), "updated_at precedes created_at on %s", d.DocID)
	}
}

func TestDocumentContentHasSections(t *testing.T) {
	docs := buildDocuments(t, 5)
	english := 0
	for _, d := range docs {
		if d.Language != "en" {
			continue
		}
		english++
		assert.Contains(t, d.Content, "## Overview")
		assert.Contains(t, d.Content, "## Conclusion")
	}
	assert.Greater(t, english, 0)
}
