package store

// TenantProfile is the persisted personality profile of one tenant. The
// payload is the serialized personality.Profile; the store does not
// interpret it beyond the tenant key and version timestamp.
type TenantProfile struct {
	TenantID  string
	Payload   []byte
	UpdatedTs int64
}

// FindTenantProfile is the filter for listing tenant profiles.
type FindTenantProfile struct {
	TenantID *string
}
