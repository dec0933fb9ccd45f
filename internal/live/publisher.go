package live

import (
	"context"
	"encoding/json"

	"callcenter-analytics/internal/calls"

	"github.com/redis/go-redis/v9"
)

// Channel carries inserted call records from the ingestion path to every
// dashboard fan-out process. Payloads are JSON-encoded Events.
const Channel = "calls:inserted"

const EventCallInserted = "call.inserted"

// Event is the live-update message delivered to dashboard clients.
// Clients merge these with polled data idempotently, keyed by record id;
// the two paths are not coordinated server-side.
type Event struct {
	Type   string           `json:"type"`
	Record calls.CallRecord `json:"record"`
}

// RedisPublisher publishes inserted records on the live channel.
// It satisfies ingest.Publisher.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) CallInserted(ctx context.Context, rec calls.CallRecord) error {
	b, err := json.Marshal(Event{Type: EventCallInserted, Record: rec})
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel, b).Err()
}
