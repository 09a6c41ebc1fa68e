package search

import (
	"context"

	"github.com/kailas-cloud/kinsearch/internal/domain/audit"
	"github.com/kailas-cloud/kinsearch/internal/domain/record"
)

// RecordReader reads every stored record of one kind. Implementations may
// filter store-side, but must return the full candidate set for matching.
type RecordReader interface {
	List(ctx context.Context, kind record.Kind) ([]record.Record, error)
}

// AuditSink records audit events. Failures are recovered by the caller.
type AuditSink interface {
	Emit(ctx context.Context, ev audit.Event) error
}
