package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/kinsearch/internal/db/sqlite"
	"github.com/kailas-cloud/kinsearch/internal/domain"
	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	domaudit "github.com/kailas-cloud/kinsearch/internal/domain/audit"
	domrec "github.com/kailas-cloud/kinsearch/internal/domain/record"
	searchuc "github.com/kailas-cloud/kinsearch/internal/usecase/search"
)

var created = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	s, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return New(s.DB())
}

func TestDeceased_RoundTrip(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	in := domrec.ReconstructDeceased(domrec.DeceasedFields{
		ID:                  "d1",
		FullName:            "Maria Lopez",
		FoundAt:             created.Add(-48 * time.Hour),
		LocationFound:       "North Quay",
		ConditionOfBody:     "intact",
		DistinguishingMarks: "rose tattoo",
		Status:              domrec.Identified,
		PublicViewable:      true,
		CreatedAt:           created,
	})
	if err := r.PutDeceased(ctx, in); err != nil {
		t.Fatalf("PutDeceased: %v", err)
	}

	recs, err := r.List(ctx, domrec.KindDeceased)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	got, want := recs[0].(*domrec.Deceased).Fields(), in.Fields()
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.FoundAt.Equal(want.FoundAt) || !got.DiedAt.IsZero() {
		t.Errorf("timestamps: got %+v", got)
	}
	got.CreatedAt, got.FoundAt = want.CreatedAt, want.FoundAt
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func putDeceased(t *testing.T, r *Repo, id, name string) {
	t.Helper()
	d := domrec.ReconstructDeceased(domrec.DeceasedFields{ID: id, FullName: name, CreatedAt: created})
	if err := r.PutDeceased(context.Background(), d); err != nil {
		t.Fatalf("PutDeceased %s: %v", id, err)
	}
}

func TestReport_RoundTrip(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	putDeceased(t, r, "d1", "Maria Lopez")

	in := domrec.ReconstructReport(domrec.ReportFields{
		ID:            "r1",
		CaseID:        "C-42",
		DeceasedID:    "d1",
		Jurisdiction:  "Eastern Precinct",
		Circumstances: "found by jogger",
		Status:        "open",
		CreatedAt:     created,
	})
	if err := r.PutReport(ctx, in); err != nil {
		t.Fatalf("PutReport: %v", err)
	}
	// replace keeps one row
	if err := r.PutReport(ctx, in); err != nil {
		t.Fatalf("PutReport again: %v", err)
	}

	recs, err := r.List(ctx, domrec.KindReport)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	got, want := recs[0].(*domrec.Report).Fields(), in.Fields()
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("created at = %v", got.CreatedAt)
	}
	got.CreatedAt = want.CreatedAt
	if got != want {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestList_MissingCreatedAtIsMalformed(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO deceased_records (id, full_name) VALUES ('bad', 'No Date')`); err != nil {
		t.Fatal(err)
	}

	recs, err := r.List(ctx, domrec.KindDeceased)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if !errors.Is(recs[0].Validate(), domain.ErrMalformedRecord) {
		t.Error("expected malformed record")
	}
}

func TestList_OrderedByID(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	for _, id := range []string{"b", "c", "a"} {
		d := domrec.ReconstructDeceased(domrec.DeceasedFields{ID: id, FullName: "X", CreatedAt: created})
		if err := r.PutDeceased(ctx, d); err != nil {
			t.Fatal(err)
		}
	}
	recs, _ := r.List(ctx, domrec.KindDeceased)
	if len(recs) != 3 || recs[0].ID() != "a" || recs[2].ID() != "c" {
		t.Errorf("unexpected order")
	}
}

func TestList_ClosedDB(t *testing.T) {
	s, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	r := New(s.DB())
	s.Close()

	if _, err := r.List(context.Background(), domrec.KindDeceased); err == nil {
		t.Fatal("expected error from closed database")
	}
	if err := r.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error from closed database")
	}
}

func TestEmit_AndRead(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	a, _ := actor.New(actor.MortuaryStaff, "staff-1")

	first := domaudit.NewSearchPerformed(a, "tattoo", 2, created)
	second := domaudit.NewSearchPerformed(actor.PublicActor(), "maria", 1, created.Add(time.Minute)).
		WithSearchType("name")
	for _, ev := range []domaudit.Event{first, second} {
		if err := r.Emit(ctx, ev); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	events, err := r.AuditEvents(ctx, 10)
	if err != nil {
		t.Fatalf("AuditEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for i, want := range []domaudit.Event{second, first} {
		got := events[i]
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("event %d timestamp = %v, want %v", i, got.Timestamp, want.Timestamp)
		}
		got.Timestamp = want.Timestamp
		if got != want {
			t.Errorf("event %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestEmit_DuplicateIDWrapped(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	ev := domaudit.NewSearchPerformed(actor.PublicActor(), "x1", 0, created)
	if err := r.Emit(ctx, ev); err != nil {
		t.Fatal(err)
	}
	if err := r.Emit(ctx, ev); !errors.Is(err, domain.ErrAuditEmission) {
		t.Fatalf("expected ErrAuditEmission, got %v", err)
	}
}

func TestList_BadRowDoesNotFailRead(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	putDeceased(t, r, "d1", "Jane Doe")
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO deceased_records (id, full_name, identification_status, is_public_viewable, created_at)
		VALUES ('d2', 'Bad Row', 'bogus', 'yes', '2024-06-10T12:00:00Z'),
		       ('d3', 42, 'identified', 'TRUE', 'not a time')`); err != nil {
		t.Fatal(err)
	}

	recs, err := r.List(ctx, domrec.KindDeceased)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	bad := recs[1].(*domrec.Deceased)
	if bad.PublicViewable() || bad.Status() != domrec.Unidentified {
		t.Errorf("lenient hydration: public=%v status=%q", bad.PublicViewable(), bad.Status())
	}
	if err := bad.Validate(); err != nil {
		t.Errorf("d2 should still be usable: %v", err)
	}

	odd := recs[2].(*domrec.Deceased)
	if odd.FullName() != "42" || !odd.PublicViewable() {
		t.Errorf("unexpected d3: %+v", odd.Fields())
	}
	if !errors.Is(odd.Validate(), domain.ErrMalformedRecord) {
		t.Error("d3 without a parseable creation time should be malformed")
	}

	a, _ := actor.New(actor.Police, "p1")
	page, err := searchuc.New(r, nil, nil).Search(ctx, "jane", a)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Len() != 1 || page.Results[0].ID() != "d1" {
		t.Errorf("expected only d1, got %+v", page.Results)
	}
}

func TestPutReport_RequiresLinkedDeceased(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	rep := func(deceasedID string) *domrec.Report {
		return domrec.ReconstructReport(domrec.ReportFields{
			ID: "r1", CaseID: "C-42", DeceasedID: deceasedID, CreatedAt: created,
		})
	}

	if err := r.PutReport(ctx, rep("does-not-exist")); !errors.Is(err, domain.ErrDeceasedNotFound) {
		t.Fatalf("expected ErrDeceasedNotFound, got %v", err)
	}
	if err := r.PutReport(ctx, rep("")); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord for empty link, got %v", err)
	}
	recs, _ := r.List(ctx, domrec.KindReport)
	if len(recs) != 0 {
		t.Fatalf("expected no reports written, got %d", len(recs))
	}

	putDeceased(t, r, "d1", "Maria Lopez")
	if err := r.PutReport(ctx, rep("d1")); err != nil {
		t.Fatalf("PutReport: %v", err)
	}
}

func TestPutDeceased_UpdateKeepsLinkedReports(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	putDeceased(t, r, "d1", "Maria Lopez")
	rep := domrec.ReconstructReport(domrec.ReportFields{
		ID: "r1", CaseID: "C-42", DeceasedID: "d1", CreatedAt: created,
	})
	if err := r.PutReport(ctx, rep); err != nil {
		t.Fatalf("PutReport: %v", err)
	}

	putDeceased(t, r, "d1", "Maria Lopez Garcia")

	recs, err := r.List(ctx, domrec.KindDeceased)
	if err != nil || len(recs) != 1 || recs[0].(*domrec.Deceased).FullName() != "Maria Lopez Garcia" {
		t.Fatalf("update not applied: %v %v", recs, err)
	}
	reports, err := r.List(ctx, domrec.KindReport)
	if err != nil || len(reports) != 1 {
		t.Fatalf("linked report lost: %v %v", reports, err)
	}
}

func TestAuditEvents_ChronologicalAcrossFractions(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	whole := domaudit.NewSearchPerformed(actor.PublicActor(), "first", 0, created)
	half := domaudit.NewSearchPerformed(actor.PublicActor(), "second", 0, created.Add(500*time.Millisecond))
	later := domaudit.NewSearchPerformed(actor.PublicActor(), "third", 0, created.Add(time.Second))
	for _, ev := range []domaudit.Event{whole, later, half} {
		if err := r.Emit(ctx, ev); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	events, err := r.AuditEvents(ctx, 10)
	if err != nil {
		t.Fatalf("AuditEvents: %v", err)
	}
	var got []string
	for _, ev := range events {
		got = append(got, ev.QueryExcerpt)
	}
	if len(got) != 3 || got[0] != "third" || got[1] != "second" || got[2] != "first" {
		t.Errorf("order = %v, want [third second first]", got)
	}
	if !events[1].Timestamp.Equal(half.Timestamp) {
		t.Errorf("timestamp = %v, want %v", events[1].Timestamp, half.Timestamp)
	}
}
