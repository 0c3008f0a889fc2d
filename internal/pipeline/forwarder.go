package pipeline

import (
	"context"
	"log/slog"

	"github.com/talentwire/ingest/internal/model"
	"github.com/talentwire/ingest/internal/queue"
)

// MatchingForwarder hands a completed record to the matching stage. The
// message carries only identifiers; the matching stage re-reads the record
// by id, so the payload never goes stale.
type MatchingForwarder struct {
	pub    *queue.Publisher
	stream string
	group  string
	log    *slog.Logger
}

func NewMatchingForwarder(pub *queue.Publisher, stream, group string, log *slog.Logger) *MatchingForwarder {
	return &MatchingForwarder{pub: pub, stream: stream, group: group, log: log}
}

func (f *MatchingForwarder) Forward(ctx context.Context, msg model.MatchRequest) error {
	if err := f.pub.EnsureStream(ctx, f.stream, f.group); err != nil {
		return err
	}
	if err := f.pub.Publish(ctx, f.stream, msg); err != nil {
		return err
	}
	f.log.Info("forwarded to matching stage", "file_id", msg.FileID, "type", msg.Type)
	return nil
}
