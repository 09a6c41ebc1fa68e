package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/kinsearch/internal/domain"
)

// IdentificationStatus tracks whether a deceased person has been identified.
type IdentificationStatus string

// Identification statuses.
const (
	Unidentified        IdentificationStatus = "unidentified"
	PendingConfirmation IdentificationStatus = "pending_confirmation"
	Identified          IdentificationStatus = "identified"
)

// IsValid checks if the status is one of the supported values.
func (s IdentificationStatus) IsValid() bool {
	return s == Unidentified || s == PendingConfirmation || s == Identified
}

// DeceasedFields carries raw values used to hydrate a Deceased from storage.
type DeceasedFields struct {
	ID                  string
	FullName            string
	DiedAt              time.Time
	FoundAt             time.Time
	LocationFound       string
	ConditionOfBody     string
	ClothingDescription string
	PersonalEffects     string
	DistinguishingMarks string
	Status              IdentificationStatus
	PublicViewable      bool
	CreatedAt           time.Time
}

// Deceased is a deceased-person record (immutable value object).
type Deceased struct {
	f DeceasedFields
}

var _ Record = (*Deceased)(nil)

// ReconstructDeceased creates a Deceased without validation (storage hydration).
// An unknown identification status is treated as unidentified.
func ReconstructDeceased(f DeceasedFields) *Deceased {
	if !f.Status.IsValid() {
		f.Status = Unidentified
	}
	return &Deceased{f: f}
}

func (*Deceased) sealed() {}

// Kind returns KindDeceased.
func (d *Deceased) Kind() Kind { return KindDeceased }

// ID returns the record identifier.
func (d *Deceased) ID() string { return d.f.ID }

// CreatedAt returns the creation timestamp.
func (d *Deceased) CreatedAt() time.Time { return d.f.CreatedAt }

// DisplayName returns the full name.
func (d *Deceased) DisplayName() string { return d.f.FullName }

// FullName returns the full name.
func (d *Deceased) FullName() string { return d.f.FullName }

// DiedAt returns the date/time of death.
func (d *Deceased) DiedAt() time.Time { return d.f.DiedAt }

// FoundAt returns the date/time the body was found.
func (d *Deceased) FoundAt() time.Time { return d.f.FoundAt }

// LocationFound returns where the body was found.
func (d *Deceased) LocationFound() string { return d.f.LocationFound }

// Status returns the identification status.
func (d *Deceased) Status() IdentificationStatus { return d.f.Status }

// PublicViewable reports the is_public_viewable flag.
func (d *Deceased) PublicViewable() bool { return d.f.PublicViewable }

// Fields returns a copy of the raw values (storage serialization).
func (d *Deceased) Fields() DeceasedFields { return d.f }

// SearchFields returns the searchable fields in priority order.
func (d *Deceased) SearchFields() []Field {
	return []Field{
		{Name: FieldFullName, Value: d.f.FullName},
		{Name: FieldLocationFound, Value: d.f.LocationFound},
		{Name: FieldDistinguishingMarks, Value: d.f.DistinguishingMarks},
		{Name: FieldClothing, Value: d.f.ClothingDescription},
		{Name: FieldPersonalEffects, Value: d.f.PersonalEffects},
		{Name: FieldConditionOfBody, Value: d.f.ConditionOfBody},
	}
}

// Validate checks the fields required for matching and display.
func (d *Deceased) Validate() error {
	switch {
	case d.f.ID == "":
		return fmt.Errorf("%w: deceased record without id", domain.ErrMalformedRecord)
	case strings.TrimSpace(d.f.FullName) == "":
		return fmt.Errorf("%w: deceased record %s has no name", domain.ErrMalformedRecord, d.f.ID)
	case d.f.CreatedAt.IsZero():
		return fmt.Errorf("%w: deceased record %s has no creation time", domain.ErrMalformedRecord, d.f.ID)
	}
	return nil
}
