package search

import (
	"testing"
	"time"

	"github.com/kailas-cloud/kinsearch/internal/domain/record"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		matches  []fieldMatch
		want     float64
		wantRank int
	}{
		{
			name:     "single substring",
			matches:  []fieldMatch{{strength: strengthSubstring, rank: 3}},
			want:     0.4,
			wantRank: 3,
		},
		{
			name: "max plus bonus",
			matches: []fieldMatch{
				{strength: strengthSubstring, rank: 0},
				{strength: strengthBoundary, rank: 2},
			},
			want:     0.75,
			wantRank: 0,
		},
		{
			name: "three fields",
			matches: []fieldMatch{
				{strength: strengthBoundary, rank: 1},
				{strength: strengthBoundary, rank: 2},
				{strength: strengthSubstring, rank: 4},
			},
			want:     0.8,
			wantRank: 1,
		},
		{
			name: "capped at one",
			matches: []fieldMatch{
				{strength: strengthExact, rank: 0},
				{strength: strengthBoundary, rank: 1},
				{strength: strengthBoundary, rank: 2},
			},
			want:     1.0,
			wantRank: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, gotRank := score(tc.matches)
			if got != tc.want {
				t.Errorf("score = %v, want %v", got, tc.want)
			}
			if gotRank != tc.wantRank {
				t.Errorf("best rank = %d, want %d", gotRank, tc.wantRank)
			}
		})
	}
}

func TestRank_ScoreDescending(t *testing.T) {
	cands := []candidate{
		{rec: deceased("low", "x", true, t0), matches: []fieldMatch{{strength: strengthSubstring}}},
		{rec: deceased("high", "x", true, t0), matches: []fieldMatch{{strength: strengthExact}}},
		{rec: deceased("mid", "x", true, t0), matches: []fieldMatch{{strength: strengthBoundary}}},
	}
	assertOrder(t, rank(cands), "high", "mid", "low")
}

func TestRank_TieBreakByPriorityRank(t *testing.T) {
	cands := []candidate{
		{rec: deceased("marks", "x", true, t0), matches: []fieldMatch{{strength: strengthBoundary, rank: 2}}},
		{rec: deceased("name", "x", true, t0), matches: []fieldMatch{{strength: strengthBoundary, rank: 0}}},
	}
	assertOrder(t, rank(cands), "name", "marks")
}

func TestRank_TieBreakByNewest(t *testing.T) {
	older := t0.Add(-48 * time.Hour)
	cands := []candidate{
		{rec: deceased("old", "x", true, older), matches: []fieldMatch{{strength: strengthBoundary}}},
		{rec: deceased("new", "x", true, t0), matches: []fieldMatch{{strength: strengthBoundary}}},
	}
	assertOrder(t, rank(cands), "new", "old")
}

func TestRank_TotalOrderOnFullTie(t *testing.T) {
	m := []fieldMatch{{strength: strengthBoundary}}
	cands := []candidate{
		{rec: report("b", "C-2", "x", t0), matches: m},
		{rec: deceased("b", "x", true, t0), matches: m},
		{rec: deceased("a", "x", true, t0), matches: m},
	}
	got := rank(cands)
	if got[0].rec.ID() != "a" || got[1].rec.Kind() != record.KindDeceased || got[2].rec.Kind() != record.KindReport {
		t.Errorf("unexpected order: %s/%s, %s/%s, %s/%s",
			got[0].rec.Kind(), got[0].rec.ID(),
			got[1].rec.Kind(), got[1].rec.ID(),
			got[2].rec.Kind(), got[2].rec.ID())
	}
}

func TestRank_MatchedFieldsInPriorityOrder(t *testing.T) {
	cands := []candidate{{
		rec: deceased("d1", "x", true, t0),
		matches: []fieldMatch{
			{field: record.FieldFullName, strength: strengthBoundary, rank: 0},
			{field: record.FieldClothing, strength: strengthSubstring, rank: 3},
		},
	}}
	got := rank(cands)[0].matched
	if len(got) != 2 || got[0] != record.FieldFullName || got[1] != record.FieldClothing {
		t.Errorf("matched = %v", got)
	}
}

func assertOrder(t *testing.T, got []ranked, ids ...string) {
	t.Helper()
	if len(got) != len(ids) {
		t.Fatalf("expected %d items, got %d", len(ids), len(got))
	}
	for i, id := range ids {
		if got[i].rec.ID() != id {
			t.Errorf("position %d = %s, want %s", i, got[i].rec.ID(), id)
		}
	}
}
