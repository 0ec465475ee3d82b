package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/answerdesk/answerdesk/assist/classify"
)

// Aggregator keeps hourly in-memory stats per tenant. Raw events are
// persisted separately; the aggregator only serves live dashboard reads.
type Aggregator struct {
	mu sync.RWMutex

	// key = "hourBucket|tenantID"
	buckets map[string]*tenantBucket
}

type tenantBucket struct {
	hourBucket     time.Time
	tenantID       string
	requestCount   int64
	successCount   int64
	latencies      []int64
	intentCounts   map[classify.Intent]int64
	emotionCounts  map[classify.Emotion]int64
	providerCounts map[string]int64
}

// NewAggregator creates a new stats aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{buckets: make(map[string]*tenantBucket)}
}

// Record folds one event into its hour bucket. The bucket comes from the
// event's own timestamp, not the wall clock, so events that sit in the
// queue across an hour boundary are not misfiled.
func (a *Aggregator) Record(event *Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	hourBucket := truncateToHour(createdAt)
	key := makeBucketKey(hourBucket, event.TenantID)

	bucket, exists := a.buckets[key]
	if !exists {
		bucket = &tenantBucket{
			hourBucket:     hourBucket,
			tenantID:       event.TenantID,
			latencies:      make([]int64, 0, 100),
			intentCounts:   make(map[classify.Intent]int64),
			emotionCounts:  make(map[classify.Emotion]int64),
			providerCounts: make(map[string]int64),
		}
		a.buckets[key] = bucket
	}

	bucket.requestCount++
	if event.Success {
		bucket.successCount++
	}
	bucket.latencies = append(bucket.latencies, event.LatencyMs)
	if event.Intent != "" {
		bucket.intentCounts[event.Intent]++
	}
	if event.Emotion != "" {
		bucket.emotionCounts[event.Emotion]++
	}
	if event.Provider != "" {
		bucket.providerCounts[event.Provider]++
	}
}

// TenantStats returns the in-memory stats for one tenant across all
// retained hour buckets.
func (a *Aggregator) TenantStats(tenantID string) *TenantStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := &TenantStats{
		IntentCounts:   make(map[classify.Intent]int64),
		EmotionCounts:  make(map[classify.Emotion]int64),
		ProviderCounts: make(map[string]int64),
	}

	var allLatencies []int64
	for _, bucket := range a.buckets {
		if bucket.tenantID != tenantID {
			continue
		}
		stats.RequestCount += bucket.requestCount
		stats.SuccessCount += bucket.successCount
		allLatencies = append(allLatencies, bucket.latencies...)
		for intent, n := range bucket.intentCounts {
			stats.IntentCounts[intent] += n
		}
		for emotion, n := range bucket.emotionCounts {
			stats.EmotionCounts[emotion] += n
		}
		for provider, n := range bucket.providerCounts {
			stats.ProviderCounts[provider] += n
		}
	}

	stats.LatencyP50Ms = percentile(allLatencies, 50)
	stats.LatencyP95Ms = percentile(allLatencies, 95)
	return stats
}

// DropBefore discards buckets older than the given hour to bound memory.
// Returns how many buckets were dropped.
func (a *Aggregator) DropBefore(beforeHour time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	var stale []string
	for key, bucket := range a.buckets {
		if bucket.hourBucket.Before(beforeHour) {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		delete(a.buckets, key)
	}
	return len(stale)
}

func truncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func makeBucketKey(hourBucket time.Time, tenantID string) string {
	return hourBucket.Format(time.RFC3339) + "|" + tenantID
}

func percentile(latencies []int64, p int) int64 {
	if len(latencies) == 0 {
		return 0
	}

	sorted := make([]int64, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}
