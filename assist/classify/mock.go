package classify

import (
	"context"
	"sync"
)

// MockClassifier is a mock implementation of Classifier for testing.
type MockClassifier struct {
	mu sync.Mutex

	// Result is returned from every Classify call.
	Result Classification
	// Err, if set, is returned from Classify.
	Err error
	// Calls records the texts passed to Classify.
	Calls []string
}

// NewMockClassifier creates a mock classifier returning the given result.
func NewMockClassifier(result Classification) *MockClassifier {
	return &MockClassifier{Result: result}
}

// Classify returns the configured result.
func (m *MockClassifier) Classify(_ context.Context, text string) (Classification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, text)
	if m.Err != nil {
		return Classification{Intent: IntentUnknown, Emotion: EmotionNeutral}, m.Err
	}
	return m.Result, nil
}

// CallCount returns the number of Classify calls.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Ensure MockClassifier implements Classifier
var _ Classifier = (*MockClassifier)(nil)
