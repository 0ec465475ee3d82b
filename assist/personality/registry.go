package personality

import (
	"log/slog"
	"sync"
	"time"

	apierrors "github.com/answerdesk/answerdesk/internal/errors"
)

// Registry holds the current personality profile per tenant. Updates are
// latest-wins and versioned by update timestamp; readers always observe a
// single consistent snapshot, never a partially written profile.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewRegistry creates an empty profile registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[string]*Profile),
	}
}

// Update installs a new profile for the tenant. An invalid profile is
// rejected: the last-known-good profile stays in place and a configuration
// warning is logged.
func (r *Registry) Update(tenantID string, profile *Profile) error {
	if err := profile.Validate(); err != nil {
		slog.Warn("rejecting invalid personality profile",
			"tenant_id", tenantID,
			"error", err)
		return apierrors.InvalidProfile(tenantID, err)
	}

	// Copy so later caller mutations cannot leak into published snapshots.
	snapshot := *profile
	snapshot.UpdatedTs = time.Now().UnixMilli()

	r.mu.Lock()
	r.profiles[tenantID] = &snapshot
	r.mu.Unlock()

	return nil
}

// Snapshot returns the tenant's current profile, or the system default when
// none is configured. The returned pointer is immutable by convention; the
// caller must use the same snapshot for the whole request.
func (r *Registry) Snapshot(tenantID string) *Profile {
	r.mu.RLock()
	profile, ok := r.profiles[tenantID]
	r.mu.RUnlock()

	if !ok {
		return Default()
	}
	return profile
}

// Tenants returns the tenant IDs with a configured profile.
func (r *Registry) Tenants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	return ids
}
