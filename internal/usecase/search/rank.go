package search

import (
	"math"
	"sort"

	"github.com/kailas-cloud/kinsearch/internal/domain/record"
)

// extraFieldBonus is added per matching field beyond the first.
const extraFieldBonus = 0.05

// ranked is a scored candidate ready for visibility filtering.
type ranked struct {
	rec      record.Record
	score    float64
	bestRank int                // lowest priority rank among matching fields
	matched  []record.FieldName // matching fields in priority order
}

// score collapses per-field matches into one value in [0,1] and returns the
// best (lowest) priority rank seen.
func score(matches []fieldMatch) (float64, int) {
	best := 0.0
	bestRank := math.MaxInt
	for _, m := range matches {
		best = max(best, m.strength)
		bestRank = min(bestRank, m.rank)
	}
	s := best + extraFieldBonus*float64(len(matches)-1)
	// Rounded so scores compare equal regardless of summation error.
	s = math.Round(min(s, 1.0)*1e4) / 1e4
	return s, bestRank
}

// rank scores candidates and sorts them: score desc, best priority rank asc,
// created desc, then kind and id asc so that the order is total.
func rank(cands []candidate) []ranked {
	out := make([]ranked, len(cands))
	for i, c := range cands {
		s, bestRank := score(c.matches)
		matched := make([]record.FieldName, len(c.matches))
		for j, m := range c.matches {
			matched[j] = m.field
		}
		out[i] = ranked{rec: c.rec, score: s, bestRank: bestRank, matched: matched}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.bestRank != b.bestRank {
			return a.bestRank < b.bestRank
		}
		if ca, cb := a.rec.CreatedAt(), b.rec.CreatedAt(); !ca.Equal(cb) {
			return ca.After(cb)
		}
		if a.rec.Kind() != b.rec.Kind() {
			return a.rec.Kind() < b.rec.Kind()
		}
		return a.rec.ID() < b.rec.ID()
	})

	return out
}
