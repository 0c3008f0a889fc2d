// Package queue wraps Redis Streams as the message transport between
// pipeline stages. Messages are JSON payloads under a single "payload" field;
// consumer groups give at-least-once delivery.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const payloadField = "payload"

// Publisher appends messages to a stream.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// EnsureStream creates the stream and its consumer group if they do not
// exist yet. Safe to call repeatedly.
func (p *Publisher) EnsureStream(ctx context.Context, stream, group string) error {
	err := p.rdb.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("ensure stream %s: %w", stream, err)
	}
	return nil
}

// Publish appends one JSON-encoded message to the stream.
func (p *Publisher) Publish(ctx context.Context, stream string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	err = p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{payloadField: string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", stream, err)
	}
	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func payloadOf(values map[string]any) ([]byte, bool) {
	raw, ok := values[payloadField]
	if !ok {
		return nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return nil, false
	}
	return []byte(s), true
}
