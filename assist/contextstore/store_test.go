package contextstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/answerdesk/answerdesk/assist/classify"
)

func testKey() Key {
	return Key{TenantID: "t1", ConversationID: "+5511999990000"}
}

func customerTurn(id, text string) Turn {
	return Turn{
		ID:        id,
		Role:      RoleCustomer,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		Intent:    classify.IntentOrderStatus,
		Emotion:   classify.EmotionNeutral,
	}
}

func TestMemoryStore_GetCreatesEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(MemoryStoreConfig{})

	conv := s.Get(ctx, testKey())
	require.NotNil(t, conv)
	assert.Empty(t, conv.Turns)
	assert.Empty(t, conv.Summary)
	assert.NotNil(t, conv.Preferences)
}

func TestMemoryStore_AppendTurn(t *testing.T) {
	ctx := context.Background()
	key := testKey()

	t.Run("DuplicateIDIsNoOp", func(t *testing.T) {
		s := NewMemoryStore(MemoryStoreConfig{})
		turn := customerTurn("turn-1", "where is my order?")
		s.AppendTurn(ctx, key, turn)
		s.AppendTurn(ctx, key, turn)
		assert.Len(t, s.Get(ctx, key).Turns, 1)
	})

	t.Run("TimestampsStrictlyIncreasing", func(t *testing.T) {
		s := NewMemoryStore(MemoryStoreConfig{})
		base := time.Now().UnixMilli()
		for i := 0; i < 5; i++ {
			// Same wall-clock millisecond for every turn.
			s.AppendTurn(ctx, key, Turn{ID: fmt.Sprintf("turn-%d", i), Role: RoleCustomer, Text: "hi", Timestamp: base})
		}
		turns := s.Get(ctx, key).Turns
		require.Len(t, turns, 5)
		for i := 1; i < len(turns); i++ {
			assert.Greater(t, turns[i].Timestamp, turns[i-1].Timestamp)
		}
	})

	t.Run("SnapshotIsDetached", func(t *testing.T) {
		s := NewMemoryStore(MemoryStoreConfig{})
		s.AppendTurn(ctx, key, customerTurn("turn-1", "hello"))
		conv := s.Get(ctx, key)
		conv.Turns[0].Text = "mutated"
		conv.Preferences["color"] = "blue"
		fresh := s.Get(ctx, key)
		assert.Equal(t, "hello", fresh.Turns[0].Text)
		assert.NotContains(t, fresh.Preferences, "color")
	})
}

func TestMemoryStore_WindowFolding(t *testing.T) {
	ctx := context.Background()
	key := testKey()
	s := NewMemoryStore(MemoryStoreConfig{WindowSize: 20})

	for i := 1; i <= 21; i++ {
		s.AppendTurn(ctx, key, Turn{
			ID:        fmt.Sprintf("turn-%d", i),
			Role:      RoleCustomer,
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: int64(i),
			Intent:    classify.IntentOrderStatus,
			Emotion:   classify.EmotionFrustrated,
		})
	}

	conv := s.Get(ctx, key)
	require.Len(t, conv.Turns, 20)
	assert.Equal(t, "message 2", conv.Turns[0].Text, "oldest turn folded out")
	assert.Equal(t, "message 21", conv.Turns[19].Text)
	assert.NotEmpty(t, conv.Summary)
	assert.Contains(t, conv.Summary, "order_status")
	assert.LessOrEqual(t, len(conv.Summary), MaxSummaryBytes)
}

func TestMemoryStore_FoldedTurnIDReusable(t *testing.T) {
	ctx := context.Background()
	key := testKey()
	s := NewMemoryStore(MemoryStoreConfig{WindowSize: 2})

	s.AppendTurn(ctx, key, customerTurn("a", "one"))
	s.AppendTurn(ctx, key, customerTurn("b", "two"))
	s.AppendTurn(ctx, key, customerTurn("c", "three")) // folds "a" out

	// The folded turn's ID no longer blocks appends.
	s.AppendTurn(ctx, key, customerTurn("a", "four"))
	conv := s.Get(ctx, key)
	assert.Equal(t, "four", conv.Turns[len(conv.Turns)-1].Text)
}

func TestMemoryStore_Preferences(t *testing.T) {
	ctx := context.Background()
	key := testKey()
	s := NewMemoryStore(MemoryStoreConfig{})

	s.SetPreference(ctx, key, "preferred_name", "Ana")
	s.SetPreference(ctx, key, "preferred_name", "Ana Maria")
	assert.Equal(t, "Ana Maria", s.Get(ctx, key).Preferences["preferred_name"])
}

func TestMemoryStore_EvictIdle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(MemoryStoreConfig{})

	active := Key{TenantID: "t1", ConversationID: "active"}
	idle := Key{TenantID: "t1", ConversationID: "idle"}
	s.AppendTurn(ctx, idle, customerTurn("i1", "old"))

	time.Sleep(10 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(10 * time.Millisecond)
	s.AppendTurn(ctx, active, customerTurn("a1", "new"))

	n := s.EvictIdle(ctx, cutoff)
	assert.Equal(t, 1, n)
	assert.Empty(t, s.Get(ctx, idle).Turns)
	assert.Len(t, s.Get(ctx, active).Turns, 1)
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	key := testKey()
	s := NewMemoryStore(MemoryStoreConfig{WindowSize: 200})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendTurn(ctx, key, Turn{ID: fmt.Sprintf("turn-%d", i), Role: RoleCustomer, Text: "hi", Timestamp: time.Now().UnixMilli()})
		}(i)
	}
	wg.Wait()

	turns := s.Get(ctx, key).Turns
	require.Len(t, turns, 50)
	for i := 1; i < len(turns); i++ {
		assert.Greater(t, turns[i].Timestamp, turns[i-1].Timestamp)
	}
}

func TestTemplateFolder_Fold(t *testing.T) {
	f := NewTemplateFolder()

	t.Run("ClauseFormat", func(t *testing.T) {
		got := f.Fold("", []Turn{{Role: RoleCustomer, Intent: classify.IntentRefundRequest, Emotion: classify.EmotionFrustrated}})
		assert.Equal(t, "customer refund_request (frustrated)", got)
	})

	t.Run("AppendsToExisting", func(t *testing.T) {
		got := f.Fold("customer greeting (happy)", []Turn{{Role: RoleAssistant, Intent: classify.IntentGreeting, Emotion: classify.EmotionNeutral}})
		assert.Equal(t, "customer greeting (happy); assistant greeting (neutral)", got)
	})

	t.Run("CollapsesRepeats", func(t *testing.T) {
		turn := Turn{Role: RoleCustomer, Intent: classify.IntentComplaint, Emotion: classify.EmotionFrustrated}
		got := f.Fold("", []Turn{turn, turn, turn})
		assert.Equal(t, "customer complaint (frustrated)", got)
	})

	t.Run("MissingClassificationDefaults", func(t *testing.T) {
		got := f.Fold("", []Turn{{Role: RoleCustomer}})
		assert.Equal(t, "customer unknown (neutral)", got)
	})

	t.Run("CapDropsOldestClauses", func(t *testing.T) {
		summary := ""
		intents := []classify.Intent{
			classify.IntentOrderStatus, classify.IntentRefundRequest, classify.IntentComplaint,
			classify.IntentProductQuestion, classify.IntentShippingInfo, classify.IntentStoreHours,
		}
		for i := 0; i < 40; i++ {
			summary = f.Fold(summary, []Turn{{Role: RoleCustomer, Intent: intents[i%len(intents)], Emotion: classify.EmotionNeutral}})
		}
		assert.LessOrEqual(t, len(summary), MaxSummaryBytes)
		// Newest clause survives head-first truncation.
		assert.Contains(t, summary, string(intents[39%len(intents)]))
	})
}

func TestMemoryStore_EvictionLoop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(MemoryStoreConfig{})
	s.AppendTurn(ctx, testKey(), customerTurn("t1", "hello"))

	s.StartEviction(5*time.Millisecond, 1*time.Millisecond)
	defer s.Close()

	assert.Eventually(t, func() bool {
		return len(s.Get(ctx, testKey()).Turns) == 0
	}, time.Second, 5*time.Millisecond)
}
