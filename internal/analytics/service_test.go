package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"callcenter-analytics/internal/calls"
)

type countingRepo struct {
	inner *calls.MemoryRepo
	lists int
}

func (r *countingRepo) ListByStartTimeRange(ctx context.Context, from, to time.Time) ([]calls.CallRecord, error) {
	r.lists++
	return r.inner.ListByStartTimeRange(ctx, from, to)
}

type memoryCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{m: map[string][]byte{}} }

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = val
	return nil
}

func seedRepo(t *testing.T, repo *calls.MemoryRepo, recs ...calls.CallRecord) {
	t.Helper()
	for _, rec := range recs {
		if _, err := repo.Insert(context.Background(), rec); err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}
}

func TestDashboard_OneDayWindowExcludesYesterday(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := calls.NewMemoryRepo()
	seedRepo(t, repo,
		calls.CallRecord{CallID: "today", StartTime: now.Add(-2 * time.Hour), Rating: 5, AppointmentBooked: true},
		// 25h ago: outside [now-1d, now]
		calls.CallRecord{CallID: "yesterday", StartTime: now.Add(-25 * time.Hour), Rating: 2},
	)

	svc := NewService(repo, nil, 0)
	svc.clock = func() time.Time { return now }
	svc.rnd = fixedRand(0)

	view, err := svc.Dashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if view.Stats.TotalCalls != 1 {
		t.Fatalf("expected 1 call in the 1-day window, got %d", view.Stats.TotalCalls)
	}
	if view.Stats.ConversionRate != 100 {
		t.Fatalf("expected conversion rate 100, got %v", view.Stats.ConversionRate)
	}
	if len(view.VolumeData) != 1 || len(view.TimeSeriesData) != 1 {
		t.Fatalf("expected 1-bucket series, got %d/%d", len(view.VolumeData), len(view.TimeSeriesData))
	}
	if view.LastUpdated != now.Format(time.RFC3339) {
		t.Fatalf("unexpected lastUpdated: %q", view.LastUpdated)
	}
}

func TestDashboard_EmptyStoreIsNotAnError(t *testing.T) {
	svc := NewService(calls.NewMemoryRepo(), nil, 0)
	view, err := svc.Dashboard(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if view.Stats.TotalCalls != 0 {
		t.Fatalf("expected no calls, got %d", view.Stats.TotalCalls)
	}
	if len(view.VolumeData) != 7 {
		t.Fatalf("expected 7 zero buckets, got %d", len(view.VolumeData))
	}
	if len(view.RecentCalls) != 0 || len(view.TypeDistribution) != 0 {
		t.Fatalf("expected empty listings, got %+v", view)
	}
}

func TestDashboard_NegativeDaysClampedToZero(t *testing.T) {
	svc := NewService(calls.NewMemoryRepo(), nil, 0)
	view, err := svc.Dashboard(context.Background(), -3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(view.VolumeData) != 0 || len(view.TimeSeriesData) != 0 {
		t.Fatalf("expected empty series for clamped window, got %+v", view)
	}
}

func TestDashboard_ServesFromCacheWithinTTL(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &countingRepo{inner: calls.NewMemoryRepo()}
	cache := newMemoryCache()

	svc := NewService(repo, cache, 10*time.Second)
	svc.clock = func() time.Time { return now }

	if _, err := svc.Dashboard(context.Background(), 7); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Dashboard(context.Background(), 7); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lists != 1 {
		t.Fatalf("expected second request to hit the cache, repo queried %d times", repo.lists)
	}

	// A different window is a different cache entry.
	if _, err := svc.Dashboard(context.Background(), 30); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lists != 2 {
		t.Fatalf("expected distinct cache key per window, repo queried %d times", repo.lists)
	}
}
