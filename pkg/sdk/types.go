package kinsearch

import (
	"time"

	"github.com/kailas-cloud/kinsearch/internal/domain/search/result"
)

// Role is the effective role of the searching actor.
type Role string

// Roles. The zero Role is treated as RolePublic.
const (
	RolePublic        Role = "public"
	RoleMortuaryStaff Role = "mortuary_staff"
	RolePolice        Role = "police"
	RoleAdmin         Role = "admin"
)

// Actor identifies who is searching. Role must already reflect the
// account's approval state: unapproved accounts search as RolePublic.
type Actor struct {
	Role Role
	ID   string
}

// Field selects what SearchField looks at.
type Field string

// Search fields. FieldName, FieldLocation and FieldDate look at deceased
// records only and return the newest records first. FieldDate takes a
// YYYY-MM-DD date of death.
const (
	FieldText     Field = "text"
	FieldName     Field = "name"
	FieldLocation Field = "location"
	FieldDate     Field = "date"
)

// Record kinds in search results.
const (
	KindDeceased = "deceased"
	KindReport   = "police_report"
)

// SearchResult is one ranked, visible record.
type SearchResult struct {
	Kind        string
	ID          string
	DisplayName string
	Summary     string
	Score       float64
	IsPublic    bool
	CreatedAt   time.Time
}

// SearchPage is the outcome of one search.
type SearchPage struct {
	Results []SearchResult
	// Truncated reports that the result cap was reached.
	Truncated bool
}

// Identification statuses of a deceased record.
const (
	StatusUnidentified        = "unidentified"
	StatusPendingConfirmation = "pending_confirmation"
	StatusIdentified          = "identified"
)

// Deceased is a deceased-person record as written by PutDeceased.
type Deceased struct {
	ID                   string
	FullName             string
	DiedAt               time.Time
	FoundAt              time.Time
	LocationFound        string
	ConditionOfBody      string
	ClothingDescription  string
	PersonalEffects      string
	DistinguishingMarks  string
	IdentificationStatus string
	PublicViewable       bool
	CreatedAt            time.Time
}

// Report is an investigation report as written by PutReport.
type Report struct {
	ID                       string
	CaseID                   string
	DeceasedRecordID         string
	Jurisdiction             string
	CircumstancesOfDiscovery string
	EvidenceCollected        string
	OfficerNotes             string
	Status                   string
	CreatedAt                time.Time
}

func pageFromDomain(p result.Page) SearchPage {
	out := SearchPage{
		Results:   make([]SearchResult, len(p.Results)),
		Truncated: p.Truncated,
	}
	for i := range p.Results {
		r := &p.Results[i]
		out.Results[i] = SearchResult{
			Kind:        string(r.Kind()),
			ID:          r.ID(),
			DisplayName: r.DisplayName(),
			Summary:     r.Summary(),
			Score:       r.Score(),
			IsPublic:    r.IsPublic(),
			CreatedAt:   r.CreatedAt(),
		}
	}
	return out
}
