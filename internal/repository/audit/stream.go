// Package audit writes search audit events to an external trail.
package audit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/kinsearch/internal/domain"
	domaudit "github.com/kailas-cloud/kinsearch/internal/domain/audit"
)

// DefaultStreamMaxLen caps the audit stream when no length is configured.
const DefaultStreamMaxLen = 100_000

// streamStore is the consumer interface for the audit stream (ISP).
type streamStore interface {
	XAdd(ctx context.Context, key string, maxLen int64, fields map[string]string) (string, error)
	Ping(ctx context.Context) error
}

// StreamSink appends events to a Redis/Valkey stream.
type StreamSink struct {
	store  streamStore
	key    string
	maxLen int64
}

// NewStreamSink creates a stream sink writing to key. maxLen <= 0 uses
// DefaultStreamMaxLen.
func NewStreamSink(s streamStore, key string, maxLen int64) *StreamSink {
	if maxLen <= 0 {
		maxLen = DefaultStreamMaxLen
	}
	return &StreamSink{store: s, key: key, maxLen: maxLen}
}

// Emit appends one entry per event.
func (s *StreamSink) Emit(ctx context.Context, ev domaudit.Event) error {
	if _, err := s.store.XAdd(ctx, s.key, s.maxLen, eventFields(ev)); err != nil {
		return fmt.Errorf("%w: xadd %s: %w", domain.ErrAuditEmission, s.key, err)
	}
	return nil
}

// Ping checks the stream backend.
func (s *StreamSink) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func eventFields(ev domaudit.Event) map[string]string {
	return map[string]string{
		"event_id":      ev.ID,
		"action":        ev.Action,
		"actor_role":    string(ev.ActorRole),
		"actor_id":      ev.ActorID,
		"search_type":   ev.SearchType,
		"query_excerpt": ev.QueryExcerpt,
		"result_count":  strconv.Itoa(ev.ResultCount),
		"timestamp":     ev.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}
