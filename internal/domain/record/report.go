package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/kinsearch/internal/domain"
)

// ReportFields carries raw values used to hydrate a Report from storage.
type ReportFields struct {
	ID            string
	CaseID        string
	DeceasedID    string
	Jurisdiction  string
	Circumstances string
	Evidence      string
	OfficerNotes  string
	Status        string
	CreatedAt     time.Time
}

// Report is a police investigation report linked to a deceased record.
type Report struct {
	f ReportFields
}

var _ Record = (*Report)(nil)

// ReconstructReport creates a Report without validation (storage hydration).
func ReconstructReport(f ReportFields) *Report {
	return &Report{f: f}
}

func (*Report) sealed() {}

// Kind returns KindReport.
func (r *Report) Kind() Kind { return KindReport }

// ID returns the report identifier.
func (r *Report) ID() string { return r.f.ID }

// CreatedAt returns the creation timestamp.
func (r *Report) CreatedAt() time.Time { return r.f.CreatedAt }

// DisplayName returns a case label.
func (r *Report) DisplayName() string { return "Case " + r.f.CaseID }

// CaseID returns the case identifier.
func (r *Report) CaseID() string { return r.f.CaseID }

// DeceasedID returns the linked deceased record identifier.
func (r *Report) DeceasedID() string { return r.f.DeceasedID }

// Jurisdiction returns the investigating jurisdiction.
func (r *Report) Jurisdiction() string { return r.f.Jurisdiction }

// Status returns the report status.
func (r *Report) Status() string { return r.f.Status }

// PublicViewable is always false: reports are never shown to public actors.
func (r *Report) PublicViewable() bool { return false }

// Fields returns a copy of the raw values (storage serialization).
func (r *Report) Fields() ReportFields { return r.f }

// SearchFields returns the searchable fields in priority order.
func (r *Report) SearchFields() []Field {
	return []Field{
		{Name: FieldJurisdiction, Value: r.f.Jurisdiction},
		{Name: FieldCircumstances, Value: r.f.Circumstances},
		{Name: FieldEvidence, Value: r.f.Evidence},
		{Name: FieldOfficerNotes, Value: r.f.OfficerNotes},
	}
}

// Validate checks the fields required for matching and display.
func (r *Report) Validate() error {
	switch {
	case r.f.ID == "":
		return fmt.Errorf("%w: report without id", domain.ErrMalformedRecord)
	case strings.TrimSpace(r.f.CaseID) == "":
		return fmt.Errorf("%w: report %s has no case id", domain.ErrMalformedRecord, r.f.ID)
	case strings.TrimSpace(r.f.DeceasedID) == "":
		return fmt.Errorf("%w: report %s is not linked to a deceased record", domain.ErrMalformedRecord, r.f.ID)
	case r.f.CreatedAt.IsZero():
		return fmt.Errorf("%w: report %s has no creation time", domain.ErrMalformedRecord, r.f.ID)
	}
	return nil
}
