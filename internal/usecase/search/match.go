package search

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/kinsearch/internal/domain/record"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/query"
)

// Field match strengths.
const (
	strengthExact     = 1.0
	strengthBoundary  = 0.7
	strengthSubstring = 0.4
)

// fieldMatch is one searchable field that contains the query.
type fieldMatch struct {
	field    record.FieldName
	strength float64
	rank     int // priority rank of the field within its kind
}

// candidate is a record with at least one matching field.
type candidate struct {
	rec     record.Record
	matches []fieldMatch
}

// match evaluates the query against every record and keeps those with at
// least one matching field. Input order is preserved.
func match(q query.Query, recs []record.Record) []candidate {
	needle := q.Text()
	if needle == "" {
		return nil
	}

	out := make([]candidate, 0, len(recs))
	for _, rec := range recs {
		var matches []fieldMatch
		for rank, f := range rec.SearchFields() {
			strength, ok := fieldStrength(needle, f.Value)
			if !ok {
				continue
			}
			matches = append(matches, fieldMatch{field: f.Name, strength: strength, rank: rank})
		}
		if len(matches) > 0 {
			out = append(out, candidate{rec: rec, matches: matches})
		}
	}
	return out
}

// fieldStrength scores one field against an already normalized needle.
// Every occurrence is inspected: a word-start hit later in the field beats a
// mid-word hit earlier in it.
func fieldStrength(needle, value string) (float64, bool) {
	hay := query.NormalizeField(value)
	if hay == "" {
		return 0, false
	}
	if hay == needle {
		return strengthExact, true
	}

	found := false
	for off := 0; off <= len(hay)-len(needle); {
		i := strings.Index(hay[off:], needle)
		if i < 0 {
			break
		}
		pos := off + i
		if atTokenBoundary(hay, pos) {
			return strengthBoundary, true
		}
		found = true
		_, size := utf8.DecodeRuneInString(hay[pos:])
		off = pos + size
	}

	if found {
		return strengthSubstring, true
	}
	return 0, false
}

// atTokenBoundary reports whether pos starts a word in s.
func atTokenBoundary(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:pos])
	return !query.IsWordRune(prev)
}
