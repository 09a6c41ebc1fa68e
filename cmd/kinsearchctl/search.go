package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	kinsearch "github.com/kailas-cloud/kinsearch/pkg/sdk"
)

type searchItem struct {
	Kind        string    `json:"record_type"`
	ID          string    `json:"record_id"`
	DisplayName string    `json:"display_name"`
	Summary     string    `json:"display_details"`
	Score       float64   `json:"relevance_score"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

type searchOutput struct {
	Items     []searchItem `json:"items"`
	Total     int          `json:"total"`
	Truncated bool         `json:"truncated"`
}

func newSearchCmd(sf *storeFlags) *cobra.Command {
	var (
		role    string
		actorID string
		field   string
		limit   int
		audit   bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search records as the given actor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []kinsearch.Option
			if limit > 0 {
				extra = append(extra, kinsearch.WithMaxResults(limit))
			}
			if audit {
				if sf.sqlite != "" {
					extra = append(extra, kinsearch.WithAuditTable())
				} else {
					extra = append(extra, kinsearch.WithAuditStream("", 0))
				}
			}

			client, err := sf.open(cmd.Context(), extra...)
			if err != nil {
				return err
			}
			defer client.Close()

			page, err := client.SearchField(cmd.Context(), kinsearch.Field(field), strings.Join(args, " "),
				kinsearch.Actor{Role: kinsearch.Role(role), ID: actorID})
			if err != nil {
				return err
			}

			if sf.output == "json" {
				return printJSON(cmd.OutOrStdout(), toSearchOutput(page))
			}
			printPage(cmd.OutOrStdout(), page)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&role, "role", string(kinsearch.RolePublic), "actor role: public, mortuary_staff, police or admin")
	f.StringVar(&actorID, "actor", "", "actor id recorded in the audit trail")
	f.StringVar(&field, "field", string(kinsearch.FieldText), "search field: text, name, location or date (YYYY-MM-DD)")
	f.IntVar(&limit, "limit", 0, "result cap (default 100)")
	f.BoolVar(&audit, "audit", false, "record an audit event for the search")
	return cmd
}

func toSearchOutput(page kinsearch.SearchPage) searchOutput {
	out := searchOutput{
		Items:     make([]searchItem, len(page.Results)),
		Total:     len(page.Results),
		Truncated: page.Truncated,
	}
	for i, r := range page.Results {
		out.Items[i] = searchItem(r)
	}
	return out
}

func printPage(w io.Writer, page kinsearch.SearchPage) {
	if len(page.Results) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	for i, r := range page.Results {
		fmt.Fprintf(w, "%d. %-14s %-10s %s (score: %.2f)\n", i+1, r.Kind, r.ID, r.DisplayName, r.Score)
		if r.Summary != "" {
			fmt.Fprintf(w, "   %s\n", r.Summary)
		}
	}
	if page.Truncated {
		fmt.Fprintf(w, "(showing first %d results, refine the query to see more)\n", len(page.Results))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
