package kinsearch

import (
	"context"

	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	domrec "github.com/kailas-cloud/kinsearch/internal/domain/record"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/query"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/kinsearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn  func(ctx context.Context, raw string, a actor.Actor) (result.Page, error)
	lastField query.Field
}

func (m *mockSearchUC) Search(ctx context.Context, raw string, a actor.Actor) (result.Page, error) {
	return m.searchFn(ctx, raw, a)
}

func (m *mockSearchUC) SearchField(ctx context.Context, f query.Field, raw string, a actor.Actor) (result.Page, error) {
	m.lastField = f
	return m.searchFn(ctx, raw, a)
}

// --- recordWriter mock ---

type mockWriter struct {
	deceased []*domrec.Deceased
	reports  []*domrec.Report
	err      error
}

func (m *mockWriter) PutDeceased(_ context.Context, d *domrec.Deceased) error {
	if m.err != nil {
		return m.err
	}
	m.deceased = append(m.deceased, d)
	return nil
}

func (m *mockWriter) PutReport(_ context.Context, r *domrec.Report) error {
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, r)
	return nil
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(searchSvc searchUseCase, records recordWriter, health healthUseCase) *Client {
	return &Client{
		searchSvc: searchSvc,
		records:   records,
		healthSvc: health,
	}
}
