package provider

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthRegistry_StatusTransitions(t *testing.T) {
	r := NewHealthRegistry([]string{"alpha"})

	assert.Equal(t, StatusHealthy, r.Get("alpha").Status)

	r.ReportFailure("alpha")
	assert.Equal(t, StatusDegraded, r.Get("alpha").Status)
	assert.Equal(t, 1, r.Get("alpha").ConsecutiveFailures)

	r.ReportFailure("alpha")
	assert.Equal(t, StatusDegraded, r.Get("alpha").Status)

	r.ReportFailure("alpha")
	assert.Equal(t, StatusDown, r.Get("alpha").Status)
	assert.Equal(t, 3, r.Get("alpha").ConsecutiveFailures)

	// Success resets the counter and restores healthy status.
	r.ReportSuccess("alpha", 120)
	h := r.Get("alpha")
	assert.Equal(t, StatusHealthy, h.Status)
	assert.Equal(t, 0, h.ConsecutiveFailures)
	assert.Equal(t, int64(120), h.LastLatencyMs)
}

func TestHealthRegistry_Candidates(t *testing.T) {
	priority := []string{"alpha", "beta", "gamma"}

	t.Run("AllHealthyFollowsPriority", func(t *testing.T) {
		r := NewHealthRegistry(priority)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Candidates(priority))
	})

	t.Run("DownOrderedLastNeverRemoved", func(t *testing.T) {
		r := NewHealthRegistry(priority)
		for i := 0; i < DownThreshold; i++ {
			r.ReportFailure("alpha")
		}
		got := r.Candidates(priority)
		assert.Len(t, got, 3)
		assert.Equal(t, "alpha", got[2])
	})

	t.Run("FewerFailuresFirst", func(t *testing.T) {
		r := NewHealthRegistry(priority)
		r.ReportFailure("alpha")
		r.ReportFailure("alpha")
		r.ReportFailure("beta")
		got := r.Candidates(priority)
		assert.Equal(t, []string{"gamma", "beta", "alpha"}, got)
	})

	t.Run("LatencyBreaksFailureTies", func(t *testing.T) {
		r := NewHealthRegistry(priority)
		r.ReportSuccess("alpha", 500)
		r.ReportSuccess("beta", 50)
		r.ReportSuccess("gamma", 200)
		assert.Equal(t, []string{"beta", "gamma", "alpha"}, r.Candidates(priority))
	})

	t.Run("PriorityBreaksFullTies", func(t *testing.T) {
		r := NewHealthRegistry(priority)
		r.ReportSuccess("alpha", 100)
		r.ReportSuccess("beta", 100)
		r.ReportSuccess("gamma", 100)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Candidates(priority))
	})
}

func TestHealthRegistry_ConcurrentFailures(t *testing.T) {
	r := NewHealthRegistry([]string{"alpha"})

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			r.ReportFailure("alpha")
		}()
	}
	wg.Wait()

	// Increment-and-derive is atomic per provider: no lost updates.
	assert.Equal(t, n, r.Get("alpha").ConsecutiveFailures)
	assert.Equal(t, StatusDown, r.Get("alpha").Status)
}

func TestHealthRegistry_Snapshot(t *testing.T) {
	r := NewHealthRegistry([]string{"alpha", "beta"})
	r.ReportSuccess("alpha", 42)

	snap := r.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, int64(42), snap["alpha"].LastLatencyMs)

	// Snapshot is a copy; mutating it does not affect the registry.
	mutated := snap["alpha"]
	mutated.LastLatencyMs = 9999
	snap["alpha"] = mutated
	assert.Equal(t, int64(42), r.Get("alpha").LastLatencyMs)
}
