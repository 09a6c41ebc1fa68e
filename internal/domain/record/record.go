// Package record defines the searchable record kinds as a closed sum type.
package record

import "time"

// Kind is the discriminant of a searchable record.
type Kind string

// Record kinds.
const (
	KindDeceased Kind = "deceased"
	KindReport   Kind = "police_report"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == KindDeceased || k == KindReport
}

// FieldName names a searchable field.
type FieldName string

// Deceased record searchable fields.
const (
	FieldFullName            FieldName = "full_name"
	FieldLocationFound       FieldName = "location_found"
	FieldDistinguishingMarks FieldName = "distinguishing_marks"
	FieldClothing            FieldName = "clothing_description"
	FieldPersonalEffects     FieldName = "personal_effects"
	FieldConditionOfBody     FieldName = "condition_of_body"
)

// Investigation report searchable fields.
const (
	FieldJurisdiction  FieldName = "jurisdiction"
	FieldCircumstances FieldName = "circumstances_of_discovery"
	FieldEvidence      FieldName = "evidence_collected"
	FieldOfficerNotes  FieldName = "officer_notes"
)

// Field is a searchable field value. Its position in SearchFields is its
// priority rank.
type Field struct {
	Name  FieldName
	Value string
}

// Record is implemented by *Deceased and *Report only.
type Record interface {
	Kind() Kind
	ID() string
	CreatedAt() time.Time
	DisplayName() string
	// SearchFields returns every searchable field in priority order,
	// including empty ones, so that index == priority rank.
	SearchFields() []Field
	// PublicViewable reports whether unauthenticated actors may see the record.
	PublicViewable() bool
	Validate() error

	sealed()
}

// DeceasedFieldOrder is the fixed searchable field priority for deceased records.
var DeceasedFieldOrder = []FieldName{
	FieldFullName,
	FieldLocationFound,
	FieldDistinguishingMarks,
	FieldClothing,
	FieldPersonalEffects,
	FieldConditionOfBody,
}

// ReportFieldOrder is the fixed searchable field priority for investigation reports.
var ReportFieldOrder = []FieldName{
	FieldJurisdiction,
	FieldCircumstances,
	FieldEvidence,
	FieldOfficerNotes,
}
