package search

import (
	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	"github.com/kailas-cloud/kinsearch/internal/domain/record"
)

// visibleTo reports whether the actor may see the record. Professional roles
// see everything; everyone else only sees public deceased records.
func visibleTo(a actor.Actor, rec record.Record) bool {
	if a.Role().Professional() {
		return true
	}
	switch r := rec.(type) {
	case *record.Deceased:
		return r.PublicViewable()
	default:
		return false
	}
}

// filterVisible drops entries the actor may not see, keeps relative order and
// stops at limit entries (limit <= 0 means no cap).
func filterVisible(a actor.Actor, items []ranked, limit int) []ranked {
	out := make([]ranked, 0, min(len(items), capHint(limit, len(items))))
	for _, it := range items {
		if limit > 0 && len(out) == limit {
			break
		}
		if visibleTo(a, it.rec) {
			out = append(out, it)
		}
	}
	return out
}

func capHint(limit, n int) int {
	if limit <= 0 {
		return n
	}
	return limit
}
