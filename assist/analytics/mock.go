package analytics

import "sync"

// MockSink is a synchronous Sink for testing collaborators.
type MockSink struct {
	mu     sync.Mutex
	Events []*Event
}

// NewMockSink creates an empty mock sink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) Record(event *Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

func (m *MockSink) Subscribe() (<-chan *Event, func()) {
	ch := make(chan *Event)
	return ch, func() { close(ch) }
}

// Recorded returns a copy of all recorded events.
func (m *MockSink) Recorded() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.Events...)
}

// Last returns the most recently recorded event, or nil.
func (m *MockSink) Last() *Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Events) == 0 {
		return nil
	}
	return m.Events[len(m.Events)-1]
}

// Ensure MockSink implements Sink
var _ Sink = (*MockSink)(nil)
