package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/model"
)

func buildCommunication(t *testing.T, seed int64) ([]*model.ChatThread, []*model.ChatMessage) {
	t.Helper()
	cfg, reg, rng := newTestEnv(seed)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	NewDocumentBuilder(cfg, reg, rng).Build()
	return NewCommunicationBuilder(cfg, reg, rng).Build()
}

func TestCommunicationThreadCounts(t *testing.T) {
	threads, _ := buildCommunication(t, 42)

	regular, dup, emo := 0, 0, 0
	for _, th := range threads {
		switch {
		case strings.HasPrefix(th.ThreadID, "T_DUP_"):
			dup++
		case strings.HasPrefix(th.ThreadID, "T_EMO_"):
			emo++
		default:
			regular++
		}
	}

	// 220 按 0.4/0.3/0.2/0.1 向下取整：88+66+44+22
	assert.Equal(t, 220, regular)
	assert.Equal(t, 50, dup, "25 duplicate topics, two teams each")
	assert.Equal(t, 20, emo)
}

func TestCommunicationMessageTimestampsNonDecreasing(t *testing.T) {
	_, messages := buildCommunication(t, 42)

	lastSeen := map[string]int64{}
	for _, m := range messages {
		ts := m.Timestamp.Unix()
		if prev, ok := lastSeen[m.ThreadID]; ok {
			assert.GreaterOrEqual(t, ts, prev, "thread %s timestamps must not go backwards", m.ThreadID)
		}
		lastSeen[m.ThreadID] = ts
	}
}

func TestCommunicationSendersAreParticipants(t *testing.T) {
	threads, messages := buildCommunication(t, 7)

	participants := map[string]map[string]bool{}
	for _, th := range threads {
		set := map[string]bool{}
		for _, p := range th.Participants {
			set[p] = true
		}
		participants[th.ThreadID] = set

		assert.GreaterOrEqual(t, len(th.Participants), 2)
		assert.LessOrEqual(t, len(th.Participants), 6)
	}

	for _, m := range messages {
		set, ok := participants[m.ThreadID]
		require.True(t, ok, "message %s references unknown thread", m.MessageID)
		assert.True(t, set[m.SenderPersonID], "sender of %s must participate in its thread", m.MessageID)
	}
}

func TestCommunicationDuplicateThreadsComeInTopicPairs(t *testing.T) {
	threads, messages := buildCommunication(t, 11)

	byTopic := map[string][]*model.ChatThread{}
	for _, th := range threads {
		if !strings.HasPrefix(th.ThreadID, "T_DUP_") {
			continue
		}
		require.Len(t, th.TopicTags, 2)
		byTopic[th.TopicTags[1]] = append(byTopic[th.TopicTags[1]], th)
	}

	require.Len(t, byTopic, 25)
	for topic, pair := range byTopic {
		require.Len(t, pair, 2, "topic %s needs exactly two threads", topic)
		assert.NotEqual(t, pair[0].TopicTags[0], pair[1].TopicTags[0], "duplicate threads for %s must sit in different teams", topic)
	}

	for _, m := range messages {
		if strings.HasPrefix(m.MessageID, "M_DUP_") {
			assert.Equal(t, "confused", m.Emotions)
			assert.Contains(t, m.Text, "Has anyone started on this?")
			assert.Len(t, m.ActionItems, 2)
		}
	}
}

func TestCommunicationEmotionalThreadsEscalateThenResolve(t *testing.T) {
	threads, messages := buildCommunication(t, 13)

	byThread := map[string][]*model.ChatMessage{}
	for _, m := range messages {
		if strings.HasPrefix(m.MessageID, "M_EMO_") {
			byThread[m.ThreadID] = append(byThread[m.ThreadID], m)
		}
	}

	emoThreads := 0
	for _, th := range threads {
		if !strings.HasPrefix(th.ThreadID, "T_EMO_") {
			continue
		}
		emoThreads++
		assert.True(t, strings.HasPrefix(th.Channel, "incident-"))

		msgs := byThread[th.ThreadID]
		require.GreaterOrEqual(t, len(msgs), 5)
		require.LessOrEqual(t, len(msgs), 10)

		for j, m := range msgs {
			if j >= 5 {
				assert.Equal(t, "calm", m.Emotions, "late messages resolve to calm")
			}
			if j >= 2 && j < 5 {
				assert.Contains(t, []string{"frustrated", "urgent"}, m.Emotions, "middle messages escalate")
			}
		}
	}
	assert.Equal(t, 20, emoThreads)
}

func TestCommunicationDocRefsResolve(t *testing.T) {
	cfg, reg, rng := newTestEnv(17)
	NewOrganizationBuilder(cfg, reg, rng).Build()
	NewDocumentBuilder(cfg, reg, rng).Build()
	_, messages := NewCommunicationBuilder(cfg, reg, rng).Build()

	refs := 0
	for _, m := range messages {
		for _, ref := range m.DocRefs {
			refs++
			_, ok := reg.Document(ref)
			assert.True(t, ok, "doc_ref %s in %s must resolve", ref, m.MessageID)
		}
	}
	assert.Greater(t, refs, 0, "some messages should reference documents")
}
