package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	kinsearch "github.com/kailas-cloud/kinsearch/pkg/sdk"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Deceased []seedDeceased `yaml:"deceased"`
	Reports  []seedReport   `yaml:"reports"`
}

type seedDeceased struct {
	ID                   string    `yaml:"id"`
	FullName             string    `yaml:"full_name"`
	DiedAt               time.Time `yaml:"died_at"`
	FoundAt              time.Time `yaml:"found_at"`
	LocationFound        string    `yaml:"location_found"`
	ConditionOfBody      string    `yaml:"condition_of_body"`
	ClothingDescription  string    `yaml:"clothing_description"`
	PersonalEffects      string    `yaml:"personal_effects"`
	DistinguishingMarks  string    `yaml:"distinguishing_marks"`
	IdentificationStatus string    `yaml:"identification_status"`
	PublicViewable       bool      `yaml:"is_public_viewable"`
	CreatedAt            time.Time `yaml:"created_at"`
}

type seedReport struct {
	ID                       string    `yaml:"id"`
	CaseID                   string    `yaml:"case_id"`
	DeceasedRecordID         string    `yaml:"deceased_record_id"`
	Jurisdiction             string    `yaml:"jurisdiction"`
	CircumstancesOfDiscovery string    `yaml:"circumstances_of_discovery"`
	EvidenceCollected        string    `yaml:"evidence_collected"`
	OfficerNotes             string    `yaml:"officer_notes"`
	Status                   string    `yaml:"status"`
	CreatedAt                time.Time `yaml:"created_at"`
}

func newSeedCmd(sf *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Insert or replace records from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readSeedFile(args[0])
			if err != nil {
				return err
			}

			client, err := sf.open(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			now := time.Now().UTC()
			for _, d := range seed.Deceased {
				if err := client.PutDeceased(cmd.Context(), d.toSDK(now)); err != nil {
					return err
				}
			}
			for _, r := range seed.Reports {
				if err := client.PutReport(cmd.Context(), r.toSDK(now)); err != nil {
					return err
				}
			}

			if sf.output == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]int{
					"deceased": len(seed.Deceased),
					"reports":  len(seed.Reports),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d deceased records, %d reports\n",
				len(seed.Deceased), len(seed.Reports))
			return nil
		},
	}
}

func readSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &seed, nil
}

func (d seedDeceased) toSDK(now time.Time) kinsearch.Deceased {
	created := d.CreatedAt
	if created.IsZero() {
		created = now
	}
	status := d.IdentificationStatus
	if status == "" {
		status = kinsearch.StatusUnidentified
	}
	return kinsearch.Deceased{
		ID:                   d.ID,
		FullName:             d.FullName,
		DiedAt:               d.DiedAt,
		FoundAt:              d.FoundAt,
		LocationFound:        d.LocationFound,
		ConditionOfBody:      d.ConditionOfBody,
		ClothingDescription:  d.ClothingDescription,
		PersonalEffects:      d.PersonalEffects,
		DistinguishingMarks:  d.DistinguishingMarks,
		IdentificationStatus: status,
		PublicViewable:       d.PublicViewable,
		CreatedAt:            created,
	}
}

func (r seedReport) toSDK(now time.Time) kinsearch.Report {
	created := r.CreatedAt
	if created.IsZero() {
		created = now
	}
	return kinsearch.Report{
		ID:                       r.ID,
		CaseID:                   r.CaseID,
		DeceasedRecordID:         r.DeceasedRecordID,
		Jurisdiction:             r.Jurisdiction,
		CircumstancesOfDiscovery: r.CircumstancesOfDiscovery,
		EvidenceCollected:        r.EvidenceCollected,
		OfficerNotes:             r.OfficerNotes,
		Status:                   r.Status,
		CreatedAt:                created,
	}
}
