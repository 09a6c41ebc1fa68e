package search

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/kinsearch/internal/domain"
	"github.com/kailas-cloud/kinsearch/internal/domain/audit"
	"github.com/kailas-cloud/kinsearch/internal/domain/record"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/query"
)

// fieldQuery is a parsed fielded search over deceased records.
type fieldQuery struct {
	field   query.Field
	name    record.FieldName // matched field reported in the summary, if any
	excerpt string           // audited query text
	match   func(d *record.Deceased) (float64, bool)
}

// parseFieldQuery prepares a name, location or date query. A nil match with
// a nil error means the text is below the minimum length.
func parseFieldQuery(field query.Field, raw string) (fieldQuery, error) {
	fq := fieldQuery{field: field}

	switch field {
	case query.FieldDate:
		day, err := query.ParseDate(raw)
		if err != nil {
			return fq, err
		}
		fq.excerpt = day.Format(query.DateLayout)
		fq.match = func(d *record.Deceased) (float64, bool) {
			return strengthExact, query.SameDay(d.DiedAt(), day)
		}
		return fq, nil

	case query.FieldName, query.FieldLocation:
		q := query.Normalize(raw)
		fq.excerpt = q.Excerpt(audit.MaxExcerptLength)
		if !q.Searchable() {
			return fq, nil
		}
		value := (*record.Deceased).FullName
		fq.name = record.FieldFullName
		if field == query.FieldLocation {
			value = (*record.Deceased).LocationFound
			fq.name = record.FieldLocationFound
		}
		needle := q.Text()
		fq.match = func(d *record.Deceased) (float64, bool) {
			return fieldStrength(needle, value(d))
		}
		return fq, nil

	default:
		return fq, fmt.Errorf("%w: %q", domain.ErrInvalidField, field)
	}
}

// matchField keeps deceased records matching fq, newest first. Ties on the
// creation time fall back to id so the order is total.
func matchField(fq fieldQuery, recs []record.Record) []ranked {
	var matched []record.FieldName
	if fq.name != "" {
		matched = []record.FieldName{fq.name}
	}

	var out []ranked
	for _, rec := range recs {
		d, ok := rec.(*record.Deceased)
		if !ok {
			continue
		}
		strength, ok := fq.match(d)
		if !ok {
			continue
		}
		out = append(out, ranked{rec: rec, score: strength, matched: matched})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].rec, out[j].rec
		if ca, cb := a.CreatedAt(), b.CreatedAt(); !ca.Equal(cb) {
			return ca.After(cb)
		}
		return a.ID() < b.ID()
	})
	return out
}
