package calls

import (
	"context"
	"time"
)

// Repository is the persistence contract for call records.
//
// Records are append-only: there are intentionally no Update/Delete methods.
// ListByStartTimeRange returns records whose start_time falls in the closed
// range [from, to], newest first. Ordering is the repository's
// responsibility; the aggregation layer never re-sorts.

type Repository interface {
	Insert(ctx context.Context, rec CallRecord) (CallRecord, error)
	ListByStartTimeRange(ctx context.Context, from, to time.Time) ([]CallRecord, error)
}
