package calls

import (
	"context"
	"database/sql"
	"time"
)

// PostgresRepo stores call records in the calls table.
//
// Assumed schema:
//
//	CREATE TABLE calls (
//	  id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	  call_id text NOT NULL,
//	  call_type text NOT NULL,
//	  from_number text NOT NULL,
//	  to_number text NOT NULL,
//	  duration int NOT NULL,
//	  rating double precision NOT NULL,
//	  appointment_booked boolean NOT NULL,
//	  summary text NOT NULL,
//	  start_time timestamptz NOT NULL,
//	  end_time timestamptz NOT NULL,
//	  sentiment text NOT NULL,
//	  created_at timestamptz NOT NULL DEFAULT now()
//	);
//
// id and created_at are store-assigned; Insert returns them via RETURNING.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Insert(ctx context.Context, rec CallRecord) (CallRecord, error) {
	const q = `
INSERT INTO calls (
  call_id, call_type, from_number, to_number, duration, rating,
  appointment_booked, summary, start_time, end_time, sentiment
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
)
RETURNING id, created_at
`
	err := r.db.QueryRowContext(ctx, q,
		rec.CallID,
		rec.CallType,
		rec.FromNumber,
		rec.ToNumber,
		rec.DurationSeconds,
		rec.Rating,
		rec.AppointmentBooked,
		rec.Summary,
		rec.StartTime,
		rec.EndTime,
		rec.Sentiment,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return CallRecord{}, err
	}
	return rec, nil
}

func (r *PostgresRepo) ListByStartTimeRange(ctx context.Context, from, to time.Time) ([]CallRecord, error) {
	const q = `
SELECT id, call_id, call_type, from_number, to_number, duration, rating,
       appointment_booked, summary, start_time, end_time, sentiment, created_at
FROM calls
WHERE start_time >= $1 AND start_time <= $2
ORDER BY start_time DESC
`
	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CallRecord, 0)
	for rows.Next() {
		var rec CallRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.CallID,
			&rec.CallType,
			&rec.FromNumber,
			&rec.ToNumber,
			&rec.DurationSeconds,
			&rec.Rating,
			&rec.AppointmentBooked,
			&rec.Summary,
			&rec.StartTime,
			&rec.EndTime,
			&rec.Sentiment,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
