// Package audit describes events emitted to the external audit collaborator.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
)

// ActionSearchPerformed is recorded once per non-trivial search.
const ActionSearchPerformed = "search_performed"

// SearchTypeText is the search type of a free-text search.
const SearchTypeText = "text"

// MaxExcerptLength bounds the query text stored in an audit event, in runes.
const MaxExcerptLength = 50

// Event is a single audit entry.
type Event struct {
	ID           string
	Action       string
	ActorRole    actor.Role
	ActorID      string
	SearchType   string
	QueryExcerpt string
	ResultCount  int
	Timestamp    time.Time
}

// NewSearchPerformed builds a search audit event. The excerpt is cut to
// MaxExcerptLength runes.
func NewSearchPerformed(a actor.Actor, excerpt string, resultCount int, at time.Time) Event {
	if r := []rune(excerpt); len(r) > MaxExcerptLength {
		excerpt = string(r[:MaxExcerptLength])
	}
	return Event{
		ID:           uuid.NewString(),
		Action:       ActionSearchPerformed,
		ActorRole:    a.Role(),
		ActorID:      a.ID(),
		SearchType:   SearchTypeText,
		QueryExcerpt: excerpt,
		ResultCount:  resultCount,
		Timestamp:    at.UTC(),
	}
}

// WithSearchType returns a copy of the event tagged with a fielded search type.
func (e Event) WithSearchType(t string) Event {
	if t != "" {
		e.SearchType = t
	}
	return e
}
