package classify

import (
	"context"
	"regexp"
	"strings"
)

// intentOrder is the fixed evaluation order for intent scoring. Earlier
// entries win ties.
var intentOrder = []Intent{
	IntentHumanHandoff,
	IntentRefundRequest,
	IntentOrderStatus,
	IntentComplaint,
	IntentShippingInfo,
	IntentProductQuestion,
	IntentStoreHours,
	IntentGreeting,
}

// emotionOrder is the fixed evaluation order for emotion scoring.
var emotionOrder = []Emotion{
	EmotionFrustrated,
	EmotionAnxious,
	EmotionHappy,
}

// RuleMatcher implements rule-based intent and emotion matching over weighted
// keyword tables. Target: 0ms latency, no I/O, deterministic.
type RuleMatcher struct {
	intentKeywords  map[Intent]map[string]int
	emotionKeywords map[Emotion]map[string]int
	orderPatterns   []*regexp.Regexp
}

// NewRuleMatcher creates a new rule matcher with predefined keyword weights.
func NewRuleMatcher() *RuleMatcher {
	return &RuleMatcher{
		intentKeywords: map[Intent]map[string]int{
			IntentOrderStatus: {
				// Core keywords (+2)
				"order": 2, "tracking": 2, "shipped": 2, "delivery": 2, "package": 2,
				"where is my": 3, "track": 2,
				// Supporting keywords (+1)
				"status": 1, "arrive": 1, "when": 1, "late": 1,
			},
			IntentRefundRequest: {
				"refund": 3, "money back": 3, "return": 2, "cancel": 2,
				"charge": 1, "charged": 1, "reimburse": 2,
			},
			IntentComplaint: {
				"complaint": 3, "terrible": 2, "awful": 2, "broken": 2, "damaged": 2,
				"wrong item": 3, "disappointed": 2, "unacceptable": 2,
				"bad": 1, "problem": 1, "issue": 1,
			},
			IntentProductQuestion: {
				"do you have": 3, "do you sell": 3, "available": 2, "in stock": 3,
				"price": 2, "how much": 3, "size": 1, "color": 1, "product": 1,
			},
			IntentShippingInfo: {
				"shipping": 2, "ship to": 3, "deliver to": 3, "shipping cost": 3,
				"international": 1, "free shipping": 3,
			},
			IntentStoreHours: {
				"open": 2, "close": 2, "hours": 2, "location": 2, "address": 2,
				"opening hours": 3, "today": 1, "weekend": 1,
			},
			IntentGreeting: {
				"hello": 2, "hi": 2, "hey": 2, "good morning": 3, "good afternoon": 3,
				"good evening": 3,
			},
			IntentHumanHandoff: {
				"human": 2, "agent": 2, "real person": 3, "speak to someone": 3,
				"representative": 2, "manager": 2,
			},
		},
		emotionKeywords: map[Emotion]map[string]int{
			EmotionFrustrated: {
				"angry": 2, "furious": 3, "terrible": 2, "worst": 2, "ridiculous": 2,
				"unacceptable": 2, "fed up": 3, "again": 1, "still": 1, "never": 1,
			},
			EmotionAnxious: {
				"worried": 2, "urgent": 2, "asap": 2, "need it": 2, "please help": 2,
				"important": 1, "deadline": 2, "tomorrow": 1,
			},
			EmotionHappy: {
				"thank": 2, "thanks": 2, "great": 2, "love": 2, "awesome": 2,
				"perfect": 2, "wonderful": 2,
			},
		},
		orderPatterns: []*regexp.Regexp{
			regexp.MustCompile(`#\d{4,}`),               // order numbers like #12345
			regexp.MustCompile(`\border\s+\d+`),         // "order 12345"
			regexp.MustCompile(`\b[A-Z]{2}\d{9}[A-Z]{2}\b`), // postal tracking codes
		},
	}
}

// Classify classifies a message using the keyword tables. It never fails;
// unmatched input yields IntentUnknown with zero confidence.
func (m *RuleMatcher) Classify(_ context.Context, text string) (Classification, error) {
	lower := strings.ToLower(text)

	result := Classification{
		Intent:  IntentUnknown,
		Emotion: EmotionNeutral,
	}

	// Fixed evaluation order so equal scores resolve deterministically.
	bestScore := 0
	for _, intent := range intentOrder {
		score := m.calculateScore(lower, m.intentKeywords[intent])
		if intent == IntentOrderStatus && m.hasOrderPattern(text) {
			score += 2
		}
		if score > bestScore {
			bestScore = score
			result.Intent = intent
		}
	}
	if bestScore < 2 {
		// Too weak to commit to an intent.
		result.Intent = IntentUnknown
		result.IntentConfidence = 0
	} else {
		result.IntentConfidence = normalizeConfidence(bestScore, 6)
	}

	bestEmotion := 0
	for _, emotion := range emotionOrder {
		score := m.calculateScore(lower, m.emotionKeywords[emotion])
		if score > bestEmotion {
			bestEmotion = score
			result.Emotion = emotion
		}
	}
	if bestEmotion < 2 {
		result.Emotion = EmotionNeutral
		result.EmotionConfidence = 0.5
	} else {
		result.EmotionConfidence = normalizeConfidence(bestEmotion, 5)
	}

	return result, nil
}

// calculateScore calculates the weighted score for a keyword set.
func (m *RuleMatcher) calculateScore(input string, keywords map[string]int) int {
	score := 0
	for keyword, weight := range keywords {
		if strings.Contains(input, keyword) {
			score += weight
		}
	}
	return score
}

// hasOrderPattern checks if input contains an order or tracking reference.
func (m *RuleMatcher) hasOrderPattern(input string) bool {
	for _, pattern := range m.orderPatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}

// normalizeConfidence normalizes score to 0-1 confidence range.
func normalizeConfidence(score, maxScore int) float32 {
	if score >= maxScore {
		return 0.95
	}
	return float32(score) / float32(maxScore)
}

// Ensure RuleMatcher implements Classifier
var _ Classifier = (*RuleMatcher)(nil)
