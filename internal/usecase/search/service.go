package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kinsearch/internal/domain"
	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	"github.com/kailas-cloud/kinsearch/internal/domain/audit"
	"github.com/kailas-cloud/kinsearch/internal/domain/record"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/query"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/kinsearch/internal/logger"
	"github.com/kailas-cloud/kinsearch/internal/metrics"
)

// DefaultMaxResults caps a single search response.
const DefaultMaxResults = 100

// searchKinds is the fixed set of record kinds a search scans.
var searchKinds = []record.Kind{record.KindDeceased, record.KindReport}

// Service is the search orchestrator. It holds no per-call state and is safe
// for concurrent use.
type Service struct {
	records      RecordReader
	audit        AuditSink
	logger       *zap.Logger
	maxResults   int
	storeTimeout time.Duration
	auditTimeout time.Duration
	now          func() time.Time
}

// New creates a search service. audit may be nil (no audit trail).
func New(records RecordReader, sink AuditSink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records:    records,
		audit:      sink,
		logger:     logger,
		maxResults: DefaultMaxResults,
		now:        time.Now,
	}
}

// WithMaxResults overrides the result cap.
func (s *Service) WithMaxResults(n int) *Service {
	if n > 0 {
		s.maxResults = n
	}
	return s
}

// WithStoreTimeout bounds each record store read. Zero keeps the caller's deadline only.
func (s *Service) WithStoreTimeout(d time.Duration) *Service {
	s.storeTimeout = d
	return s
}

// WithAuditTimeout bounds audit emission.
func (s *Service) WithAuditTimeout(d time.Duration) *Service {
	s.auditTimeout = d
	return s
}

// WithClock replaces the audit timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// MaxResults returns the configured result cap.
func (s *Service) MaxResults() int { return s.maxResults }

// Search normalizes the query, matches it against every record kind, ranks,
// filters by the actor's visibility and returns at most MaxResults results.
// Queries below the minimum length return an empty page without reading the
// store. Store failures are reported as domain.ErrStoreUnavailable.
func (s *Service) Search(ctx context.Context, raw string, a actor.Actor) (result.Page, error) {
	start := time.Now()
	role := string(a.Role())

	q := query.Normalize(raw)
	if !q.Searchable() {
		metrics.SearchRequestsTotal.WithLabelValues(role, "skipped").Inc()
		return result.Page{}, nil
	}

	recs, err := s.load(ctx, searchKinds...)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(role, "error").Inc()
		return result.Page{}, err
	}

	visible := filterVisible(a, rank(match(q, recs)), s.maxResults)
	page := s.page(a, visible)

	s.emitAudit(ctx, a, q.Excerpt(audit.MaxExcerptLength), audit.SearchTypeText, len(page.Results))
	s.observe(role, start, page)
	return page, nil
}

// SearchField restricts the search to one attribute of deceased records.
// Name and location match any part of the folded field; date matches the
// calendar day of death given as YYYY-MM-DD. Results are newest record first
// and filtered and capped like Search. FieldText is the same as Search.
// An unknown field or a malformed date returns domain.ErrInvalidField.
func (s *Service) SearchField(ctx context.Context, field query.Field, raw string, a actor.Actor) (result.Page, error) {
	if field == "" || field == query.FieldText {
		return s.Search(ctx, raw, a)
	}
	start := time.Now()
	role := string(a.Role())

	fq, err := parseFieldQuery(field, raw)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(role, "invalid").Inc()
		return result.Page{}, err
	}
	if fq.match == nil {
		metrics.SearchRequestsTotal.WithLabelValues(role, "skipped").Inc()
		return result.Page{}, nil
	}

	recs, err := s.load(ctx, record.KindDeceased)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(role, "error").Inc()
		return result.Page{}, err
	}

	page := s.page(a, filterVisible(a, matchField(fq, recs), s.maxResults))

	s.emitAudit(ctx, a, fq.excerpt, string(field), len(page.Results))
	s.observe(role, start, page)
	return page, nil
}

// page converts visible entries to results, redacting for non-professionals.
func (s *Service) page(a actor.Actor, visible []ranked) result.Page {
	redact := !a.Role().Professional()
	results := make([]result.Result, len(visible))
	for i, v := range visible {
		results[i] = result.New(
			v.rec.Kind(), v.rec.ID(), v.rec.DisplayName(),
			result.Summarize(v.rec, v.matched, redact),
			v.score, v.rec.PublicViewable(), v.rec.CreatedAt(),
		)
	}
	return result.Page{
		Results:   results,
		Truncated: len(results) == s.maxResults,
	}
}

func (s *Service) observe(role string, start time.Time, page result.Page) {
	metrics.SearchRequestsTotal.WithLabelValues(role, "ok").Inc()
	metrics.SearchDuration.WithLabelValues(role).Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(len(page.Results)))
	if page.Truncated {
		metrics.SearchTruncatedTotal.Inc()
	}
}

// load reads the given record kinds and drops malformed records.
func (s *Service) load(ctx context.Context, kinds ...record.Kind) ([]record.Record, error) {
	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	log := logpkg.FromContextOr(ctx, s.logger)

	var all []record.Record
	for _, kind := range kinds {
		recs, err := s.records.List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %w", domain.ErrStoreUnavailable, kind, err)
		}

		for _, rec := range recs {
			if err := rec.Validate(); err != nil {
				metrics.MalformedRecordsTotal.WithLabelValues(string(kind)).Inc()
				log.Warn("skipping malformed record",
					zap.String("kind", string(kind)),
					zap.String("id", rec.ID()),
					zap.Error(err),
				)
				continue
			}
			all = append(all, rec)
		}
	}
	return all, nil
}

// emitAudit records the search. It never fails the search: the event is sent
// on a context detached from request cancellation and errors are only logged.
func (s *Service) emitAudit(ctx context.Context, a actor.Actor, excerpt, searchType string, count int) {
	if s.audit == nil {
		return
	}

	ev := audit.NewSearchPerformed(a, excerpt, count, s.now()).WithSearchType(searchType)

	actx := context.WithoutCancel(ctx)
	if s.auditTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(actx, s.auditTimeout)
		defer cancel()
	}

	if err := s.audit.Emit(actx, ev); err != nil {
		metrics.AuditFailuresTotal.Inc()
		logpkg.FromContextOr(ctx, s.logger).Warn("audit emission failed",
			zap.String("event_id", ev.ID),
			zap.String("actor_role", string(ev.ActorRole)),
			zap.Error(err),
		)
	}
}
