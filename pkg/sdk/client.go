package kinsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/kinsearch/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/kinsearch/internal/db/sqlite"
	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	domrec "github.com/kailas-cloud/kinsearch/internal/domain/record"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/query"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/result"
	auditrepo "github.com/kailas-cloud/kinsearch/internal/repository/audit"
	recordrepo "github.com/kailas-cloud/kinsearch/internal/repository/record"
	"github.com/kailas-cloud/kinsearch/internal/repository/sqlstore"
	healthuc "github.com/kailas-cloud/kinsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kinsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultStoreTimeout     = 3 * time.Second
	defaultKeyPrefix        = "kinsearch:"
	defaultAuditStreamKey   = "audit"
)

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Search(ctx context.Context, raw string, a actor.Actor) (result.Page, error)
	SearchField(ctx context.Context, field query.Field, raw string, a actor.Actor) (result.Page, error)
}

type recordWriter interface {
	PutDeceased(ctx context.Context, d *domrec.Deceased) error
	PutReport(ctx context.Context, r *domrec.Report) error
}

// Client is the kinsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	close     func()
	searchSvc searchUseCase
	records   recordWriter
	healthSvc healthUseCase
	obs       *observer
}

// backend is a connected store with its readers and sinks.
type backend struct {
	reader      searchuc.RecordReader
	writer      recordWriter
	audit       searchuc.AuditSink
	dbPinger    healthuc.Pinger
	auditPinger healthuc.Pinger
	close       func()
}

// New creates a Client and connects to the record store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:    defaultKeyPrefix,
		storeTimeout: defaultStoreTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("kinsearch: record store required (use WithValkey, WithRedis or WithSQLite)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return wireClient(be, cfg, obs), nil
}

func openBackend(ctx context.Context, cfg *clientConfig) (*backend, error) {
	switch cfg.driver {
	case driverValkey, driverRedis:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, fmt.Errorf("kinsearch: %s address required", cfg.driver)
		}
		if cfg.auditTable {
			return nil, errors.New("kinsearch: WithAuditTable requires WithSQLite")
		}
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("kinsearch: create %s store: %w", cfg.driver, err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("kinsearch: database not ready: %w", err)
		}

		repo := recordrepo.New(store, cfg.keyPrefix)
		be := &backend{reader: repo, writer: repo, dbPinger: store, close: store.Close}
		if cfg.auditStream {
			key := cfg.auditStreamKey
			if key == "" {
				key = defaultAuditStreamKey
			}
			sink := auditrepo.NewStreamSink(store, cfg.keyPrefix+key, cfg.auditMaxLen)
			be.audit, be.auditPinger = sink, sink
		}
		return be, nil

	case driverSQLite:
		if cfg.auditStream {
			return nil, errors.New("kinsearch: WithAuditStream requires WithValkey or WithRedis")
		}
		store, err := dbSQLite.Open(cfg.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("kinsearch: %w", err)
		}
		if err := store.Init(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("kinsearch: %w", err)
		}

		repo := sqlstore.New(store.DB())
		be := &backend{
			reader:   repo,
			writer:   repo,
			dbPinger: store,
			close:    func() { _ = store.Close() },
		}
		if cfg.auditTable {
			be.audit = repo
		}
		return be, nil

	default:
		return nil, fmt.Errorf("kinsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(be *backend, cfg *clientConfig, obs *observer) *Client {
	svc := searchuc.New(be.reader, be.audit, zapLogger(cfg.logger)).
		WithStoreTimeout(cfg.storeTimeout)
	if cfg.maxResults > 0 {
		svc = svc.WithMaxResults(cfg.maxResults)
	}

	return &Client{
		close:     be.close,
		searchSvc: svc,
		records:   be.writer,
		healthSvc: healthuc.New(be.dbPinger, be.auditPinger),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

// Search returns records matching q that a may see, best match first.
// Queries shorter than two characters after normalization return an empty
// page without touching the store. A failed or timed-out store read returns
// ErrStoreUnavailable, never a partial or empty page.
func (c *Client) Search(ctx context.Context, q string, a Actor) (page SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	act, err := toDomainActor(a)
	if err != nil {
		return SearchPage{}, err
	}

	p, err := c.searchSvc.Search(ctx, q, act)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}
	c.obs.observeResults(len(p.Results), p.Truncated)
	return pageFromDomain(p), nil
}

// SearchField searches one attribute of deceased records: name and location
// match any part of the field, date matches the day of death (YYYY-MM-DD).
// Results are newest record first. An unknown field or malformed date
// returns ErrInvalidField. FieldText behaves like Search.
func (c *Client) SearchField(ctx context.Context, field Field, q string, a Actor) (page SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_field", start, err) }()

	act, err := toDomainActor(a)
	if err != nil {
		return SearchPage{}, err
	}
	f, err := query.ParseField(string(field))
	if err != nil {
		return SearchPage{}, fmt.Errorf("kinsearch: %w", err)
	}

	p, err := c.searchSvc.SearchField(ctx, f, q, act)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search %s: %w", f, err)
	}
	c.obs.observeResults(len(p.Results), p.Truncated)
	return pageFromDomain(p), nil
}

// PutDeceased inserts or replaces a deceased record.
func (c *Client) PutDeceased(ctx context.Context, d Deceased) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put_deceased", start, err) }()

	rec := domrec.ReconstructDeceased(domrec.DeceasedFields{
		ID:                  d.ID,
		FullName:            d.FullName,
		DiedAt:              d.DiedAt,
		FoundAt:             d.FoundAt,
		LocationFound:       d.LocationFound,
		ConditionOfBody:     d.ConditionOfBody,
		ClothingDescription: d.ClothingDescription,
		PersonalEffects:     d.PersonalEffects,
		DistinguishingMarks: d.DistinguishingMarks,
		Status:              domrec.IdentificationStatus(d.IdentificationStatus),
		PublicViewable:      d.PublicViewable,
		CreatedAt:           d.CreatedAt,
	})
	if err = c.records.PutDeceased(ctx, rec); err != nil {
		return fmt.Errorf("put deceased %s: %w", d.ID, err)
	}
	return nil
}

// PutReport inserts or replaces an investigation report. The linked deceased
// record must exist, otherwise ErrDeceasedNotFound is returned.
func (c *Client) PutReport(ctx context.Context, r Report) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put_report", start, err) }()

	rec := domrec.ReconstructReport(domrec.ReportFields{
		ID:            r.ID,
		CaseID:        r.CaseID,
		DeceasedID:    r.DeceasedRecordID,
		Jurisdiction:  r.Jurisdiction,
		Circumstances: r.CircumstancesOfDiscovery,
		Evidence:      r.EvidenceCollected,
		OfficerNotes:  r.OfficerNotes,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
	})
	if err = c.records.PutReport(ctx, rec); err != nil {
		return fmt.Errorf("put report %s: %w", r.ID, err)
	}
	return nil
}

func toDomainActor(a Actor) (actor.Actor, error) {
	role, err := actor.ParseRole(string(a.Role))
	if err != nil {
		return actor.Actor{}, fmt.Errorf("kinsearch: %w", err)
	}
	return actor.New(role, a.ID)
}
