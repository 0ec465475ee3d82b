// Package classify provides intent and emotion classification for inbound
// customer messages.
package classify

import "context"

// Intent represents the detected customer intent.
type Intent string

const (
	IntentOrderStatus     Intent = "order_status"
	IntentRefundRequest   Intent = "refund_request"
	IntentComplaint       Intent = "complaint"
	IntentProductQuestion Intent = "product_question"
	IntentShippingInfo    Intent = "shipping_info"
	IntentStoreHours      Intent = "store_hours"
	IntentGreeting        Intent = "greeting"
	IntentHumanHandoff    Intent = "human_handoff"
	IntentUnknown         Intent = "unknown"
)

// Emotion represents the detected customer emotion.
type Emotion string

const (
	EmotionNeutral    Emotion = "neutral"
	EmotionHappy      Emotion = "happy"
	EmotionFrustrated Emotion = "frustrated"
	EmotionAnxious    Emotion = "anxious"
)

// Classification is the result of classifying one message.
type Classification struct {
	Intent            Intent
	IntentConfidence  float32
	Emotion           Emotion
	EmotionConfidence float32
}

// Classifier detects intent and emotion from a customer message.
// The orchestrator consumes this as a capability; implementations must be
// safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}
