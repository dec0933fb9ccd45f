package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"callcenter-analytics/internal/calls"
)

// DefaultWindowDays is the lookback applied when the client sends no usable
// days parameter.
const DefaultWindowDays = 7

// Repository is the read side of the call store needed for aggregation.
type Repository interface {
	ListByStartTimeRange(ctx context.Context, from, to time.Time) ([]calls.CallRecord, error)
}

// Cache holds serialized dashboard views for a short TTL, matching the 30s
// browser poll. A nil cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Service runs the windowed fetch and the aggregation engine.
// It is stateless per request; each Dashboard call computes in isolation
// over the records returned for that request.
type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration

	clock func() time.Time
	rnd   RandFunc
}

func NewService(repo Repository, cache Cache, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		clock:    time.Now,
		rnd:      rand.Float64,
	}
}

// Dashboard fetches the records in [now - days, now] (UTC, closed range on
// start_time) and computes all dashboard sections. Negative days are
// clamped to 0, which yields a window of the current instant only.
func (s *Service) Dashboard(ctx context.Context, days int) (DashboardView, error) {
	if s.repo == nil {
		return DashboardView{}, errors.New("analytics: repository not configured")
	}
	if days < 0 {
		days = 0
	}

	key := fmt.Sprintf("dashboard:days:%d", days)
	if s.cache != nil && s.cacheTTL > 0 {
		if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var v DashboardView
			if json.Unmarshal(b, &v) == nil {
				return v, nil
			}
		}
	}

	now := s.clock().UTC()
	recs, err := s.repo.ListByStartTimeRange(ctx, now.AddDate(0, 0, -days), now)
	if err != nil {
		return DashboardView{}, err
	}

	view := DashboardView{
		Stats:            Summary(recs),
		VolumeData:       VolumeSeries(recs, days, now),
		RecentCalls:      FormatRecent(recs),
		TypeDistribution: TypeDistribution(recs),
		CustomerData:     CustomerData(recs),
		SecurityData:     SecurityData(len(recs)),
		TimeSeriesData:   TimeSeries(recs, days, now, s.rnd),
		LastUpdated:      now.Format(time.RFC3339),
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if b, err := json.Marshal(view); err == nil {
			_ = s.cache.Set(ctx, key, b, s.cacheTTL)
		}
	}
	return view, nil
}
