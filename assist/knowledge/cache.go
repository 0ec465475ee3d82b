package knowledge

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/answerdesk/answerdesk/assist/timeout"
	"github.com/answerdesk/answerdesk/store"
)

// CacheConfig configures the knowledge cache.
type CacheConfig struct {
	Source Source
	// StaleTTL is the snapshot age that triggers a background refresh
	// (default: 5 minutes). A stale snapshot is still served.
	StaleTTL time.Duration
	// MaxResults bounds how many items one lookup returns (default: 3).
	MaxResults int
}

// Cache implements Service with per-tenant snapshots refreshed
// stale-while-revalidate. A conversation turn is never blocked on a full
// external sync: lookups serve whatever is cached and refreshes are
// deduplicated per tenant.
type Cache struct {
	source     Source
	staleTTL   time.Duration
	maxResults int

	mu        sync.RWMutex
	snapshots map[string]*snapshot

	group singleflight.Group
}

type snapshot struct {
	items     []*store.KnowledgeItem
	fetchedAt time.Time
}

// NewCache creates a new knowledge cache.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.StaleTTL <= 0 {
		cfg.StaleTTL = 5 * time.Minute
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}

	return &Cache{
		source:     cfg.Source,
		staleTTL:   cfg.StaleTTL,
		maxResults: cfg.MaxResults,
		snapshots:  make(map[string]*snapshot),
	}
}

// Lookup returns the best-matching cached items for the query. A cold
// tenant triggers one bounded synchronous fetch; a stale tenant is served
// immediately and refreshed in the background.
func (c *Cache) Lookup(ctx context.Context, tenantID, query string) []*store.KnowledgeItem {
	c.mu.RLock()
	snap, ok := c.snapshots[tenantID]
	c.mu.RUnlock()

	if !ok {
		// Cold cache: one bounded attempt, then give up and answer empty.
		fetchCtx, cancel := context.WithTimeout(ctx, timeout.KnowledgeLookup)
		defer cancel()
		if err := c.Refresh(fetchCtx, tenantID); err != nil {
			slog.Warn("knowledge fetch failed, proceeding without enrichment",
				"tenant_id", tenantID,
				"error", err)
			return nil
		}
		c.mu.RLock()
		snap = c.snapshots[tenantID]
		c.mu.RUnlock()
		if snap == nil {
			return nil
		}
	} else if time.Since(snap.fetchedAt) > c.staleTTL {
		// Stale-while-revalidate: serve the old snapshot, refresh behind.
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), timeout.PipelineBudget)
			defer cancel()
			if err := c.Refresh(bgCtx, tenantID); err != nil {
				slog.Warn("background knowledge refresh failed",
					"tenant_id", tenantID,
					"error", err)
			}
		}()
	}

	return c.match(snap.items, query)
}

// Refresh reloads the tenant snapshot. Concurrent refreshes for the same
// tenant collapse into one source fetch.
func (c *Cache) Refresh(ctx context.Context, tenantID string) error {
	_, err, _ := c.group.Do(tenantID, func() (any, error) {
		items, err := c.source.FetchTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.snapshots[tenantID] = &snapshot{items: items, fetchedAt: time.Now()}
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// Invalidate drops the tenant snapshot so the next lookup refetches.
func (c *Cache) Invalidate(tenantID string) {
	c.mu.Lock()
	delete(c.snapshots, tenantID)
	c.mu.Unlock()
}

// match scores items by query token overlap over topic and value, highest
// first, topic as the deterministic tie-break.
func (c *Cache) match(items []*store.KnowledgeItem, query string) []*store.KnowledgeItem {
	if len(items) == 0 {
		return nil
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		item  *store.KnowledgeItem
		score int
	}
	var matches []scored
	for _, item := range items {
		haystack := strings.ToLower(item.Topic + " " + item.Value)
		score := 0
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{item: item, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].item.Topic < matches[j].item.Topic
	})

	limit := c.maxResults
	if len(matches) < limit {
		limit = len(matches)
	}
	out := make([]*store.KnowledgeItem, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].item
	}
	return out
}

// stopwords excluded from query matching.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "do": {},
	"does": {}, "my": {}, "your": {}, "i": {}, "you": {}, "it": {}, "to": {},
	"of": {}, "in": {}, "on": {}, "for": {}, "and": {}, "or": {}, "what": {},
	"when": {}, "where": {}, "how": {}, "can": {}, "please": {},
}

func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Ensure Cache implements Service
var _ Service = (*Cache)(nil)
