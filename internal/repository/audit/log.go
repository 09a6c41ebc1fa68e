package audit

import (
	"context"

	"go.uber.org/zap"

	domaudit "github.com/kailas-cloud/kinsearch/internal/domain/audit"
)

// LogSink writes events as structured log lines. Used when no durable
// trail is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("audit")}
}

// Emit never fails.
func (s *LogSink) Emit(_ context.Context, ev domaudit.Event) error {
	s.logger.Info("audit",
		zap.String("event_id", ev.ID),
		zap.String("action", ev.Action),
		zap.String("actor_role", string(ev.ActorRole)),
		zap.String("actor_id", ev.ActorID),
		zap.String("search_type", ev.SearchType),
		zap.String("query_excerpt", ev.QueryExcerpt),
		zap.Int("result_count", ev.ResultCount),
		zap.Time("timestamp", ev.Timestamp),
	)
	return nil
}
