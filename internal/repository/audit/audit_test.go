package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/kinsearch/internal/domain"
	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	domaudit "github.com/kailas-cloud/kinsearch/internal/domain/audit"
)

type mockStream struct {
	key    string
	maxLen int64
	fields map[string]string
	err    error
}

func (m *mockStream) XAdd(_ context.Context, key string, maxLen int64, fields map[string]string) (string, error) {
	m.key, m.maxLen, m.fields = key, maxLen, fields
	if m.err != nil {
		return "", m.err
	}
	return "1-0", nil
}

func (m *mockStream) Ping(context.Context) error { return m.err }

func sampleEvent(t *testing.T) domaudit.Event {
	t.Helper()
	a, err := actor.New(actor.Police, "officer-7")
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	return domaudit.NewSearchPerformed(a, "red van", 4, at)
}

func TestStreamSink_Emit(t *testing.T) {
	m := &mockStream{}
	s := NewStreamSink(m, "ks:audit", 500)
	ev := sampleEvent(t)

	if err := s.Emit(context.Background(), ev); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if m.key != "ks:audit" || m.maxLen != 500 {
		t.Errorf("key=%q maxLen=%d", m.key, m.maxLen)
	}
	want := map[string]string{
		"event_id":      ev.ID,
		"action":        "search_performed",
		"actor_role":    "police",
		"actor_id":      "officer-7",
		"search_type":   "text",
		"query_excerpt": "red van",
		"result_count":  "4",
		"timestamp":     "2024-05-02T08:00:00Z",
	}
	for k, v := range want {
		if m.fields[k] != v {
			t.Errorf("%s = %q, want %q", k, m.fields[k], v)
		}
	}
}

func TestStreamSink_DefaultMaxLen(t *testing.T) {
	m := &mockStream{}
	_ = NewStreamSink(m, "a", 0).Emit(context.Background(), sampleEvent(t))
	if m.maxLen != DefaultStreamMaxLen {
		t.Errorf("maxLen = %d, want %d", m.maxLen, DefaultStreamMaxLen)
	}
}

func TestStreamSink_ErrorWrapped(t *testing.T) {
	boom := errors.New("READONLY")
	s := NewStreamSink(&mockStream{err: boom}, "a", 1)

	err := s.Emit(context.Background(), sampleEvent(t))
	if !errors.Is(err, domain.ErrAuditEmission) {
		t.Errorf("expected ErrAuditEmission, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected cause preserved, got %v", err)
	}
}

func TestLogSink_Emit(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSink(zap.New(core))

	if err := s.Emit(context.Background(), sampleEvent(t).WithSearchType("location")); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["actor_role"] != "police" || ctx["result_count"] != int64(4) || ctx["search_type"] != "location" {
		t.Errorf("unexpected fields: %v", ctx)
	}
}
