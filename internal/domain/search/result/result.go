package result

import (
	"time"

	"github.com/kailas-cloud/kinsearch/internal/domain/record"
)

// Result is a single search hit. Built fresh per query, never persisted.
type Result struct {
	kind        record.Kind
	id          string
	displayName string
	summary     string
	score       float64
	isPublic    bool
	createdAt   time.Time
}

// New creates a search result.
func New(
	kind record.Kind, id, displayName, summary string,
	score float64, isPublic bool, createdAt time.Time,
) Result {
	return Result{
		kind: kind, id: id, displayName: displayName, summary: summary,
		score: score, isPublic: isPublic, createdAt: createdAt,
	}
}

// Kind returns the record kind.
func (r *Result) Kind() record.Kind { return r.kind }

// ID returns the record identifier.
func (r *Result) ID() string { return r.id }

// DisplayName returns the name shown to the user.
func (r *Result) DisplayName() string { return r.displayName }

// Summary returns the display summary.
func (r *Result) Summary() string { return r.summary }

// Score returns the relevance score in [0,1].
func (r *Result) Score() float64 { return r.score }

// IsPublic reports whether the source record is publicly viewable.
func (r *Result) IsPublic() bool { return r.isPublic }

// CreatedAt returns the source record's creation time.
func (r *Result) CreatedAt() time.Time { return r.createdAt }

// Page is the response of one search call. The service does not paginate:
// Truncated only tells the caller that more matches may exist.
type Page struct {
	Results   []Result
	Truncated bool
}

// Len returns the number of results.
func (p Page) Len() int { return len(p.Results) }
