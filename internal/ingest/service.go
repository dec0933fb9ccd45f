package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"callcenter-analytics/internal/calls"
)

var (
	ErrInvalidPayload = errors.New("ingest: invalid webhook payload")
	ErrStorageFailure = errors.New("ingest: call storage failed")
)

// WebhookEvent is the untrusted call-completed payload sent by the voice
// agent provider. Every field except CallID is optional; defaults are
// applied during normalization.
//
// Timestamps arrive as ISO-8601 strings.

type WebhookEvent struct {
	CallID            string  `json:"call_id"`
	CallType          string  `json:"call_type"`
	FromNumber        string  `json:"from_number"`
	ToNumber          string  `json:"to_number"`
	DurationSeconds   int     `json:"duration"`
	Rating            float64 `json:"rating"`
	AppointmentBooked bool    `json:"appointment_booked"`
	Summary           string  `json:"summary"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	Sentiment         string  `json:"sentiment"`
}

// Publisher receives a notification after a record is stored.
// Publishing is best-effort; failures never fail the ingestion.

type Publisher interface {
	CallInserted(ctx context.Context, rec calls.CallRecord) error
}

// Service normalizes webhook events and appends them to the call store.
//
// Replayed webhooks create duplicate records: there is no idempotency key
// and no dedup by call_id. The upstream sender owns retry semantics.

type Service struct {
	repo  calls.Repository
	pub   Publisher
	clock func() time.Time
}

func NewService(repo calls.Repository, pub Publisher) *Service {
	return &Service{repo: repo, pub: pub, clock: time.Now}
}

// Ingest validates and normalizes ev, stores exactly one record, and
// returns the stored record including its store-assigned id.
func (s *Service) Ingest(ctx context.Context, ev WebhookEvent) (calls.CallRecord, error) {
	log := slog.Default()

	if strings.TrimSpace(ev.CallID) == "" {
		return calls.CallRecord{}, fmt.Errorf("%w: call_id is required", ErrInvalidPayload)
	}
	if s.repo == nil {
		return calls.CallRecord{}, errors.New("ingest: repository not configured")
	}

	now := s.clock().UTC()
	rec := calls.CallRecord{
		CallID:            ev.CallID,
		CallType:          defaultString(ev.CallType, calls.DefaultCallType),
		FromNumber:        defaultString(ev.FromNumber, calls.DefaultFromNumber),
		ToNumber:          defaultString(ev.ToNumber, calls.DefaultToNumber),
		DurationSeconds:   ev.DurationSeconds,
		Rating:            ev.Rating,
		AppointmentBooked: ev.AppointmentBooked,
		Summary:           ev.Summary,
		Sentiment:         defaultString(ev.Sentiment, calls.DefaultSentiment),
	}

	if rec.DurationSeconds < 0 {
		log.Warn("negative duration clamped to 0", "call_id", ev.CallID, "duration", ev.DurationSeconds)
		rec.DurationSeconds = 0
	}
	if rec.Rating < 0 || rec.Rating > 5 {
		log.Warn("out-of-range rating clamped", "call_id", ev.CallID, "rating", ev.Rating)
		rec.Rating = clamp(rec.Rating, 0, 5)
	}

	rec.StartTime = parseTimestamp(ev.StartTime, now, "start_time", ev.CallID, log)
	rec.EndTime = parseTimestamp(ev.EndTime, now, "end_time", ev.CallID, log)

	stored, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return calls.CallRecord{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if stored.ID == "" {
		return calls.CallRecord{}, fmt.Errorf("%w: insert returned no record", ErrStorageFailure)
	}

	if s.pub != nil {
		if err := s.pub.CallInserted(ctx, stored); err != nil {
			log.Warn("live publish failed", "call_id", stored.CallID, "err", err)
		}
	}
	return stored, nil
}

// parseTimestamp falls back to the ingestion instant when the field is
// absent or malformed. This fabricates data for records lacking real
// timestamps; the warning log is the audit trail for it.
func parseTimestamp(v string, now time.Time, field, callID string, log *slog.Logger) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		log.Warn("timestamp missing; defaulting to ingestion time", "field", field, "call_id", callID)
		return now
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		log.Warn("timestamp unparsable; defaulting to ingestion time", "field", field, "call_id", callID, "value", v)
		return now
	}
	return t.UTC()
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
