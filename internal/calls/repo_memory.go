package calls

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory call store for tests and early development.
// It mirrors PostgresRepo semantics: store-assigned ids/timestamps,
// closed-range filtering on start_time, newest first.

type MemoryRepo struct {
	mu      sync.Mutex
	records []CallRecord

	// Clock is overridable so tests get stable created_at values.
	Clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{Clock: time.Now} }

func (r *MemoryRepo) Insert(ctx context.Context, rec CallRecord) (CallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = uuid.NewString()
	rec.CreatedAt = r.Clock().UTC()
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *MemoryRepo) ListByStartTimeRange(ctx context.Context, from, to time.Time) ([]CallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CallRecord, 0)
	for _, rec := range r.records {
		if rec.StartTime.Before(from) || rec.StartTime.After(to) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

// Len reports the number of stored records.
func (r *MemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
