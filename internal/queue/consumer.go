package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one message payload. A nil return acks the message; an
// error leaves it pending so the reclaim loop redelivers it later, possibly
// to another worker. Handlers must therefore tolerate re-execution.
type Handler func(ctx context.Context, payload []byte) error

// Consumer reads a stream through a consumer group with a pool of workers.
type Consumer struct {
	rdb     *redis.Client
	stream  string
	group   string
	name    string
	handler Handler
	log     *slog.Logger
	minIdle time.Duration
	wg      sync.WaitGroup
}

type ConsumerConfig struct {
	Stream         string
	Group          string
	ConsumerName   string
	ReclaimMinIdle time.Duration
}

func NewConsumer(rdb *redis.Client, cfg ConsumerConfig, handler Handler, log *slog.Logger) *Consumer {
	if cfg.ReclaimMinIdle <= 0 {
		cfg.ReclaimMinIdle = 5 * time.Minute
	}
	return &Consumer{
		rdb:     rdb,
		stream:  cfg.Stream,
		group:   cfg.Group,
		name:    cfg.ConsumerName,
		handler: handler,
		log:     log,
		minIdle: cfg.ReclaimMinIdle,
	}
}

// Start creates the consumer group and launches the worker pool plus one
// reclaim loop for messages stranded by dead workers.
func (c *Consumer) Start(ctx context.Context, workers int) error {
	err := c.rdb.XGroupCreateMkStream(ctx, c.stream, c.group, "$").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create consumer group: %w", err)
	}

	for i := range workers {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.readLoop(ctx, fmt.Sprintf("%s-%d", c.name, i))
		}()
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.reclaimLoop(ctx)
	}()

	return nil
}

// Wait blocks until all workers have exited.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

func (c *Consumer) readLoop(ctx context.Context, consumer string) {
	for {
		if ctx.Err() != nil {
			return
		}
		streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: consumer,
			Streams:  []string{c.stream, ">"},
			Count:    8,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			c.log.Warn("stream read failed", "stream", c.stream, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		for _, s := range streams {
			for _, msg := range s.Messages {
				c.handle(ctx, consumer, msg)
			}
		}
	}
}

// handle runs one message through the handler and acks only on success.
func (c *Consumer) handle(ctx context.Context, consumer string, msg redis.XMessage) {
	log := c.log.With("stream", c.stream, "message_id", msg.ID, "consumer", consumer)

	payload, ok := payloadOf(msg.Values)
	if !ok {
		// Nothing to process; acking avoids an eternal redelivery loop.
		log.Error("message has no payload field, discarding")
		c.ack(ctx, msg.ID)
		return
	}

	if err := c.handler(ctx, payload); err != nil {
		log.Error("message processing failed", "error", err)
		return
	}
	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.rdb.XAck(ctx, c.stream, c.group, id).Err(); err != nil {
		c.log.Warn("ack failed", "message_id", id, "error", err)
	}
}

// reclaimLoop takes over pending messages whose owning consumer went quiet,
// reprocessing them through the same handler path.
func (c *Consumer) reclaimLoop(ctx context.Context) {
	consumer := c.name + "-reclaim"
	ticker := time.NewTicker(c.minIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		msgs, _, err := c.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.stream,
			Group:    c.group,
			Consumer: consumer,
			MinIdle:  c.minIdle,
			Start:    "0-0",
			Count:    16,
		}).Result()
		if err != nil {
			if ctx.Err() == nil {
				c.log.Warn("reclaim failed", "error", err)
			}
			continue
		}
		for _, msg := range msgs {
			c.handle(ctx, consumer, msg)
		}
	}
}
