package provider

import (
	"sort"
	"sync"
)

// Status represents the observed availability of a provider.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// DownThreshold is the number of consecutive failures after which a
// provider is considered down.
const DownThreshold = 3

// Health is a snapshot of one provider's observed health.
type Health struct {
	Status              Status `json:"status"`
	LastLatencyMs       int64  `json:"last_latency_ms"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}

// HealthRegistry tracks per-provider health shared by all workers. Updates
// are atomic per provider; reads never block a request. Health only biases
// candidate ordering, it never removes a provider outright.
type HealthRegistry struct {
	mu    sync.RWMutex
	state map[string]*Health
}

// NewHealthRegistry creates a registry with all providers healthy.
func NewHealthRegistry(names []string) *HealthRegistry {
	state := make(map[string]*Health, len(names))
	for _, name := range names {
		state[name] = &Health{Status: StatusHealthy}
	}
	return &HealthRegistry{state: state}
}

// ReportSuccess records a successful call: resets the consecutive failure
// counter and updates the observed latency.
func (r *HealthRegistry) ReportSuccess(name string, latencyMs int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.ensure(name)
	h.ConsecutiveFailures = 0
	h.LastLatencyMs = latencyMs
	h.Status = StatusHealthy
}

// ReportFailure records a failed call as one increment-and-derive step, so
// concurrent failures are never lost.
func (r *HealthRegistry) ReportFailure(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.ensure(name)
	h.ConsecutiveFailures++
	if h.ConsecutiveFailures >= DownThreshold {
		h.Status = StatusDown
	} else {
		h.Status = StatusDegraded
	}
}

// Get returns the health snapshot for one provider.
func (r *HealthRegistry) Get(name string) Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.state[name]; ok {
		return *h
	}
	return Health{Status: StatusHealthy}
}

// Snapshot returns a copy of all provider health states.
func (r *HealthRegistry) Snapshot() map[string]Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Health, len(r.state))
	for name, h := range r.state {
		out[name] = *h
	}
	return out
}

// Candidates orders provider names for the next attempt: not-down first,
// then fewest consecutive failures, then lowest observed latency, then the
// configured priority order as the deterministic tie-break. Down providers
// are ordered last, never removed.
func (r *HealthRegistry) Candidates(priority []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type candidate struct {
		name     string
		health   Health
		priority int
	}

	candidates := make([]candidate, 0, len(priority))
	for i, name := range priority {
		h := Health{Status: StatusHealthy}
		if s, ok := r.state[name]; ok {
			h = *s
		}
		candidates = append(candidates, candidate{name: name, health: h, priority: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aDown := a.health.Status == StatusDown
		bDown := b.health.Status == StatusDown
		if aDown != bDown {
			return !aDown
		}
		if a.health.ConsecutiveFailures != b.health.ConsecutiveFailures {
			return a.health.ConsecutiveFailures < b.health.ConsecutiveFailures
		}
		if a.health.LastLatencyMs != b.health.LastLatencyMs {
			return a.health.LastLatencyMs < b.health.LastLatencyMs
		}
		return a.priority < b.priority
	})

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}

// ensure returns the state for name, creating it on first report. Must be
// called with the write lock held.
func (r *HealthRegistry) ensure(name string) *Health {
	h, ok := r.state[name]
	if !ok {
		h = &Health{Status: StatusHealthy}
		r.state[name] = h
	}
	return h
}
