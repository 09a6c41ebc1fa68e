package result

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/kinsearch/internal/domain/record"
)

// MaxSummaryLength caps the display summary, in runes.
const MaxSummaryLength = 240

const summarySep = " | "

// redactedForPublic lists fields never shown to public actors.
var redactedForPublic = map[record.FieldName]struct{}{
	record.FieldConditionOfBody: {},
}

var fieldLabels = map[record.FieldName]string{
	record.FieldDistinguishingMarks: "Marks",
	record.FieldClothing:            "Clothing",
	record.FieldPersonalEffects:     "Effects",
	record.FieldConditionOfBody:     "Condition",
	record.FieldCircumstances:       "Circumstances",
	record.FieldEvidence:            "Evidence",
	record.FieldOfficerNotes:        "Notes",
}

var statusLabels = map[record.IdentificationStatus]string{
	record.Unidentified:        "Unidentified",
	record.PendingConfirmation: "Pending confirmation",
	record.Identified:          "Identified",
}

// Summarize builds the display summary: descriptive fields of the kind,
// followed by the matched free-text fields. redact drops fields public
// actors may not read.
func Summarize(rec record.Record, matched []record.FieldName, redact bool) string {
	var parts []string
	var skip map[record.FieldName]struct{}

	switch r := rec.(type) {
	case *record.Deceased:
		if r.LocationFound() != "" {
			parts = append(parts, "Found at "+r.LocationFound())
		}
		if !r.FoundAt().IsZero() {
			parts = append(parts, "on "+r.FoundAt().UTC().Format("2006-01-02"))
		}
		parts = append(parts, statusLabels[r.Status()])
		skip = map[record.FieldName]struct{}{
			record.FieldFullName:      {},
			record.FieldLocationFound: {},
		}
	case *record.Report:
		if r.Jurisdiction() != "" {
			parts = append(parts, r.Jurisdiction())
		}
		if r.Status() != "" {
			parts = append(parts, "Status: "+r.Status())
		}
		skip = map[record.FieldName]struct{}{
			record.FieldJurisdiction: {},
		}
	}

	values := make(map[record.FieldName]string, len(matched))
	for _, f := range rec.SearchFields() {
		values[f.Name] = f.Value
	}
	for _, name := range matched {
		if _, ok := skip[name]; ok {
			continue
		}
		if _, ok := redactedForPublic[name]; ok && redact {
			continue
		}
		v := strings.TrimSpace(values[name])
		if v == "" {
			continue
		}
		parts = append(parts, fieldLabels[name]+": "+v)
	}

	return truncate(strings.Join(parts, summarySep), MaxSummaryLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
