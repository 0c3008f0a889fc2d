package queue

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNewConsumerDefaultsReclaimInterval(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// A zero interval would make the reclaim ticker unusable.
	c := NewConsumer(nil, ConsumerConfig{
		Stream:       "processing-queue",
		Group:        "ingest-workers",
		ConsumerName: "worker-1",
	}, nil, log)
	if c.minIdle != 5*time.Minute {
		t.Errorf("minIdle = %v, want default 5m", c.minIdle)
	}

	c = NewConsumer(nil, ConsumerConfig{
		Stream:         "processing-queue",
		Group:          "ingest-workers",
		ConsumerName:   "worker-1",
		ReclaimMinIdle: time.Minute,
	}, nil, log)
	if c.minIdle != time.Minute {
		t.Errorf("minIdle = %v, want configured 1m", c.minIdle)
	}
}

func TestPayloadOf(t *testing.T) {
	payload, ok := payloadOf(map[string]any{payloadField: `{"id":"x"}`})
	if !ok || string(payload) != `{"id":"x"}` {
		t.Errorf("payloadOf = %q, %v", payload, ok)
	}

	if _, ok := payloadOf(map[string]any{"other": "y"}); ok {
		t.Error("missing payload field should not decode")
	}
	if _, ok := payloadOf(map[string]any{payloadField: 42}); ok {
		t.Error("non-string payload should not decode")
	}
}
