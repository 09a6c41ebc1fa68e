package audit

import (
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
)

func TestNewSearchPerformed(t *testing.T) {
	a, err := actor.New(actor.Police, "officer-1")
	if err != nil {
		t.Fatalf("actor.New: %v", err)
	}
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("EAT", 3*3600))

	ev := NewSearchPerformed(a, "jane doe", 3, at)

	if ev.ID == "" {
		t.Error("expected event id")
	}
	if ev.Action != ActionSearchPerformed {
		t.Errorf("Action = %q", ev.Action)
	}
	if ev.ActorRole != actor.Police || ev.ActorID != "officer-1" {
		t.Errorf("actor = %q/%q", ev.ActorRole, ev.ActorID)
	}
	if ev.SearchType != SearchTypeText {
		t.Errorf("SearchType = %q, want %q", ev.SearchType, SearchTypeText)
	}
	if ev.QueryExcerpt != "jane doe" || ev.ResultCount != 3 {
		t.Errorf("excerpt/count = %q/%d", ev.QueryExcerpt, ev.ResultCount)
	}
	if ev.Timestamp.Location() != time.UTC || !ev.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v in UTC", ev.Timestamp, at)
	}
}

func TestNewSearchPerformed_TruncatesExcerpt(t *testing.T) {
	ev := NewSearchPerformed(actor.PublicActor(), strings.Repeat("x", 120), 0, time.Now())
	if len(ev.QueryExcerpt) != MaxExcerptLength {
		t.Errorf("excerpt length = %d, want %d", len(ev.QueryExcerpt), MaxExcerptLength)
	}
	if ev.ActorRole != actor.Public {
		t.Errorf("role = %q, want public", ev.ActorRole)
	}
}

func TestNewSearchPerformed_UniqueIDs(t *testing.T) {
	a := NewSearchPerformed(actor.PublicActor(), "ab", 0, time.Now())
	b := NewSearchPerformed(actor.PublicActor(), "ab", 0, time.Now())
	if a.ID == b.ID {
		t.Error("expected distinct event ids")
	}
}

func TestEvent_WithSearchType(t *testing.T) {
	ev := NewSearchPerformed(actor.PublicActor(), "2024-03-14", 1, time.Now())

	tagged := ev.WithSearchType("date")
	if tagged.SearchType != "date" || tagged.ID != ev.ID {
		t.Errorf("tagged = %+v", tagged)
	}
	if ev.SearchType != SearchTypeText {
		t.Error("WithSearchType must not modify the receiver")
	}
	if got := ev.WithSearchType("").SearchType; got != SearchTypeText {
		t.Errorf("empty type: got %q", got)
	}
}
