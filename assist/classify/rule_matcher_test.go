package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleMatcher_Intents(t *testing.T) {
	ctx := context.Background()
	m := NewRuleMatcher()

	tests := []struct {
		name       string
		input      string
		wantIntent Intent
	}{
		{"OrderStatus", "Where is my order #12345?", IntentOrderStatus},
		{"OrderStatusTracking", "Can you give me the tracking number for my package?", IntentOrderStatus},
		{"RefundRequest", "I want a refund for this, please give me my money back", IntentRefundRequest},
		{"Complaint", "The item arrived broken and damaged, this is unacceptable", IntentComplaint},
		{"ProductQuestion", "Do you have this in stock? How much is it?", IntentProductQuestion},
		{"ShippingInfo", "Do you ship to Canada? What is the shipping cost?", IntentShippingInfo},
		{"StoreHours", "What are your opening hours on the weekend?", IntentStoreHours},
		{"Greeting", "Hello! Good morning", IntentGreeting},
		{"HumanHandoff", "I need to speak to someone, a real person please", IntentHumanHandoff},
		{"Unknown", "xyzzy", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Classify(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIntent, got.Intent)
			if tt.wantIntent != IntentUnknown {
				assert.Greater(t, got.IntentConfidence, float32(0))
			}
		})
	}
}

func TestRuleMatcher_Emotions(t *testing.T) {
	ctx := context.Background()
	m := NewRuleMatcher()

	tests := []struct {
		name        string
		input       string
		wantEmotion Emotion
	}{
		{"Frustrated", "This is the worst service, I am fed up and angry", EmotionFrustrated},
		{"Anxious", "Please help, this is urgent, I need it by tomorrow", EmotionAnxious},
		{"Happy", "Thanks so much, your service is awesome!", EmotionHappy},
		{"Neutral", "What sizes are there", EmotionNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Classify(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmotion, got.Emotion)
		})
	}
}

func TestRuleMatcher_Deterministic(t *testing.T) {
	ctx := context.Background()
	m := NewRuleMatcher()

	input := "Where is my order? It is urgent and I am worried"
	first, err := m.Classify(ctx, input)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		got, err := m.Classify(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestRuleMatcher_OrderPattern(t *testing.T) {
	ctx := context.Background()
	m := NewRuleMatcher()

	// A bare order reference plus a weak keyword should still resolve to
	// order status via the pattern bonus.
	got, err := m.Classify(ctx, "status of #998877")
	require.NoError(t, err)
	assert.Equal(t, IntentOrderStatus, got.Intent)
}

func TestRuleMatcher_EmptyInput(t *testing.T) {
	m := NewRuleMatcher()

	got, err := m.Classify(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, got.Intent)
	assert.Equal(t, EmotionNeutral, got.Emotion)
}
