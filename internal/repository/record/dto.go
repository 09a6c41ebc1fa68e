package record

import (
	"strings"
	"time"

	domrec "github.com/kailas-cloud/kinsearch/internal/domain/record"
)

// Hash field names shared by both record kinds.
const (
	fieldID        = "id"
	fieldCreatedAt = "created_at"
	fieldStatus    = "status"
)

// Deceased hash fields.
const (
	fieldFullName       = "full_name"
	fieldDiedAt         = "died_at"
	fieldFoundAt        = "found_at"
	fieldLocation       = "location_found"
	fieldCondition      = "condition_of_body"
	fieldClothing       = "clothing_description"
	fieldEffects        = "personal_effects"
	fieldMarks          = "distinguishing_marks"
	fieldIdentification = "identification_status"
	fieldPublic         = "is_public_viewable"
)

// Report hash fields.
const (
	fieldCaseID        = "case_id"
	fieldDeceasedID    = "deceased_record_id"
	fieldJurisdiction  = "jurisdiction"
	fieldCircumstances = "circumstances_of_discovery"
	fieldEvidence      = "evidence_collected"
	fieldOfficerNotes  = "officer_notes"
)

func deceasedHash(d *domrec.Deceased) map[string]string {
	f := d.Fields()
	return map[string]string{
		fieldID:             f.ID,
		fieldFullName:       f.FullName,
		fieldDiedAt:         formatTime(f.DiedAt),
		fieldFoundAt:        formatTime(f.FoundAt),
		fieldLocation:       f.LocationFound,
		fieldCondition:      f.ConditionOfBody,
		fieldClothing:       f.ClothingDescription,
		fieldEffects:        f.PersonalEffects,
		fieldMarks:          f.DistinguishingMarks,
		fieldIdentification: string(f.Status),
		fieldPublic:         formatBool(f.PublicViewable),
		fieldCreatedAt:      formatTime(f.CreatedAt),
	}
}

func reportHash(r *domrec.Report) map[string]string {
	f := r.Fields()
	return map[string]string{
		fieldID:            f.ID,
		fieldCaseID:        f.CaseID,
		fieldDeceasedID:    f.DeceasedID,
		fieldJurisdiction:  f.Jurisdiction,
		fieldCircumstances: f.Circumstances,
		fieldEvidence:      f.Evidence,
		fieldOfficerNotes:  f.OfficerNotes,
		fieldStatus:        f.Status,
		fieldCreatedAt:     formatTime(f.CreatedAt),
	}
}

// parseDeceased hydrates a Deceased from a hash. keyID is used when the
// hash carries no id field.
func parseDeceased(keyID string, m map[string]string) *domrec.Deceased {
	return domrec.ReconstructDeceased(domrec.DeceasedFields{
		ID:                  firstNonEmpty(m[fieldID], keyID),
		FullName:            m[fieldFullName],
		DiedAt:              parseTime(m[fieldDiedAt]),
		FoundAt:             parseTime(m[fieldFoundAt]),
		LocationFound:       m[fieldLocation],
		ConditionOfBody:     m[fieldCondition],
		ClothingDescription: m[fieldClothing],
		PersonalEffects:     m[fieldEffects],
		DistinguishingMarks: m[fieldMarks],
		Status:              domrec.IdentificationStatus(m[fieldIdentification]),
		PublicViewable:      parseBool(m[fieldPublic]),
		CreatedAt:           parseTime(m[fieldCreatedAt]),
	})
}

func parseReport(keyID string, m map[string]string) *domrec.Report {
	return domrec.ReconstructReport(domrec.ReportFields{
		ID:            firstNonEmpty(m[fieldID], keyID),
		CaseID:        m[fieldCaseID],
		DeceasedID:    m[fieldDeceasedID],
		Jurisdiction:  m[fieldJurisdiction],
		Circumstances: m[fieldCircumstances],
		Evidence:      m[fieldEvidence],
		OfficerNotes:  m[fieldOfficerNotes],
		Status:        m[fieldStatus],
		CreatedAt:     parseTime(m[fieldCreatedAt]),
	})
}

// parseTime accepts RFC 3339 with or without fractional seconds.
// Unparseable values hydrate as the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true
	default:
		return false
	}
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
