// Package kinsearch embeds the kinsearch record search in Go programs.
//
// The client talks to the record store directly (Valkey, Redis or SQLite)
// and runs the same search pipeline as the HTTP server: normalization,
// multi-entity matching, relevance ranking and role-based visibility.
//
//	client, _ := kinsearch.New(ctx, kinsearch.WithSQLite("kinsearch.db"))
//	defer client.Close()
//
//	page, err := client.Search(ctx, "rose tattoo", kinsearch.Actor{
//	    Role: kinsearch.RoleMortuaryStaff,
//	    ID:   "staff-17",
//	})
//	if errors.Is(err, kinsearch.ErrStoreUnavailable) {
//	    // retry later
//	}
//
// Search has no debounce; callers that search as the user types should
// debounce on their side.
package kinsearch
