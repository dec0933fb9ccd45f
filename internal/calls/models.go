package calls

import "time"

// CallRecord represents one completed AI-handled phone call.
//
// Records are immutable once stored: there is no update or delete path.
// JSON tags follow the webhook/dashboard wire contract (snake_case,
// "duration" carries the duration in seconds).
//
// NOTE: rating is conceptually in [0,5]. The ingestion layer clamps
// out-of-range values; readers may assume the invariant holds.

type CallRecord struct {
	// ID is assigned by the store on insert.
	ID string `json:"id" db:"id"`

	// CallID is the source-system identifier. It is caller-supplied and may
	// collide across webhook retries; no dedup is performed.
	CallID string `json:"call_id" db:"call_id"`

	CallType string `json:"call_type" db:"call_type"`

	FromNumber string `json:"from_number" db:"from_number"`
	ToNumber   string `json:"to_number" db:"to_number"`

	// DurationSeconds is the call duration in seconds.
	DurationSeconds int `json:"duration" db:"duration"`

	// Rating is the caller-reported score in [0,5]. A missing rating is
	// stored as 0; the source does not distinguish "no rating" from 0.
	Rating float64 `json:"rating" db:"rating"`

	AppointmentBooked bool `json:"appointment_booked" db:"appointment_booked"`

	Summary string `json:"summary" db:"summary"`

	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	// Sentiment is free text in practice; known values are below.
	// Unknown values are stored as-is, never normalized.
	Sentiment string `json:"sentiment" db:"sentiment"`

	// CreatedAt is assigned by the store on insert.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Defaults applied to absent webhook fields at ingestion.
const (
	DefaultCallType   = "unknown"
	DefaultFromNumber = "unknown"
	DefaultToNumber   = "unknown"
	DefaultSentiment  = SentimentNeutral
)
