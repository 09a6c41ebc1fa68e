// Package sqlstore reads records from and writes audit events to the
// embedded SQLite database.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/kailas-cloud/kinsearch/internal/domain"
	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	domaudit "github.com/kailas-cloud/kinsearch/internal/domain/audit"
	domrec "github.com/kailas-cloud/kinsearch/internal/domain/record"
)

// Repo implements usecase/search.RecordReader and usecase/search.AuditSink.
type Repo struct {
	db *sql.DB
}

// New creates a repository over an initialized database.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// timeLayout is fixed width so that TEXT ordering is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const deceasedColumns = `id, full_name, died_at, found_at, location_found, condition_of_body,
	clothing_description, personal_effects, distinguishing_marks, identification_status,
	is_public_viewable, created_at`

const reportColumns = `id, case_id, deceased_record_id, jurisdiction, circumstances_of_discovery,
	evidence_collected, officer_notes, status, created_at`

// upsert builds an INSERT that updates every non-key column on conflict.
// Rows are never deleted and re-inserted, so linked reports stay valid.
func upsert(table, columns string) string {
	cols := strings.Split(columns, ",")
	set := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		c = strings.TrimSpace(c)
		set = append(set, c+" = excluded."+c)
	}
	return `INSERT INTO ` + table + ` (` + columns + `) VALUES (?` + strings.Repeat(", ?", len(cols)-1) +
		`) ON CONFLICT(id) DO UPDATE SET ` + strings.Join(set, ", ")
}

var (
	upsertDeceased = upsert("deceased_records", deceasedColumns)
	upsertReport   = upsert("investigation_reports", reportColumns)
)

// List returns every record of the given kind ordered by id. Rows that do
// not scan come back as records that fail Validate, so one bad row never
// fails the read.
func (r *Repo) List(ctx context.Context, kind domrec.Kind) ([]domrec.Record, error) {
	var q string
	var scan func(scanner) domrec.Record
	switch kind {
	case domrec.KindDeceased:
		q = `SELECT ` + deceasedColumns + ` FROM deceased_records ORDER BY id`
		scan = scanDeceased
	case domrec.KindReport:
		q = `SELECT ` + reportColumns + ` FROM investigation_reports ORDER BY id`
		scan = scanReport
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	var out []domrec.Record
	for rows.Next() {
		out = append(out, scan(rows))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", kind, err)
	}
	return out, nil
}

// PutDeceased inserts or updates a deceased record.
func (r *Repo) PutDeceased(ctx context.Context, d *domrec.Deceased) error {
	if err := d.Validate(); err != nil {
		return err
	}
	f := d.Fields()
	_, err := r.db.ExecContext(ctx, upsertDeceased,
		f.ID, f.FullName, nullTime(f.DiedAt), nullTime(f.FoundAt), f.LocationFound,
		f.ConditionOfBody, f.ClothingDescription, f.PersonalEffects, f.DistinguishingMarks,
		string(f.Status), f.PublicViewable, nullTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert deceased %s: %w", f.ID, err)
	}
	return nil
}

// PutReport inserts or updates an investigation report. The linked deceased
// record must already exist.
func (r *Repo) PutReport(ctx context.Context, rep *domrec.Report) error {
	if err := rep.Validate(); err != nil {
		return err
	}
	f := rep.Fields()
	_, err := r.db.ExecContext(ctx, upsertReport,
		f.ID, f.CaseID, f.DeceasedID, f.Jurisdiction, f.Circumstances,
		f.Evidence, f.OfficerNotes, f.Status, nullTime(f.CreatedAt),
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: report %s links %s", domain.ErrDeceasedNotFound, f.ID, f.DeceasedID)
	}
	if err != nil {
		return fmt.Errorf("insert report %s: %w", f.ID, err)
	}
	return nil
}

// Emit appends an audit row.
func (r *Repo) Emit(ctx context.Context, ev domaudit.Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, action, actor_role, actor_id, search_type, query_excerpt, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Action, string(ev.ActorRole), ev.ActorID, ev.SearchType, ev.QueryExcerpt, ev.ResultCount,
		ev.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("%w: insert audit log: %w", domain.ErrAuditEmission, err)
	}
	return nil
}

// AuditEvents returns the most recent audit events, newest first.
func (r *Repo) AuditEvents(ctx context.Context, limit int) ([]domaudit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, actor_role, actor_id, search_type, query_excerpt, result_count, created_at
		FROM audit_logs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var out []domaudit.Event
	for rows.Next() {
		var ev domaudit.Event
		var role, ts string
		if err := rows.Scan(&ev.ID, &ev.Action, &role, &ev.ActorID, &ev.SearchType, &ev.QueryExcerpt, &ev.ResultCount, &ts); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		ev.ActorRole = actor.Role(role)
		ev.Timestamp = parseTime(sql.NullString{String: ts, Valid: true})
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Ping checks the database.
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanDeceased(sc scanner) domrec.Record {
	var c [12]sql.NullString
	if err := sc.Scan(&c[0], &c[1], &c[2], &c[3], &c[4], &c[5],
		&c[6], &c[7], &c[8], &c[9], &c[10], &c[11]); err != nil {
		return domrec.ReconstructDeceased(domrec.DeceasedFields{})
	}
	return domrec.ReconstructDeceased(domrec.DeceasedFields{
		ID:                  c[0].String,
		FullName:            c[1].String,
		DiedAt:              parseTime(c[2]),
		FoundAt:             parseTime(c[3]),
		LocationFound:       c[4].String,
		ConditionOfBody:     c[5].String,
		ClothingDescription: c[6].String,
		PersonalEffects:     c[7].String,
		DistinguishingMarks: c[8].String,
		Status:              parseStatus(c[9]),
		PublicViewable:      parseBool(c[10]),
		CreatedAt:           parseTime(c[11]),
	})
}

func scanReport(sc scanner) domrec.Record {
	var c [9]sql.NullString
	if err := sc.Scan(&c[0], &c[1], &c[2], &c[3], &c[4],
		&c[5], &c[6], &c[7], &c[8]); err != nil {
		return domrec.ReconstructReport(domrec.ReportFields{})
	}
	return domrec.ReconstructReport(domrec.ReportFields{
		ID:            c[0].String,
		CaseID:        c[1].String,
		DeceasedID:    c[2].String,
		Jurisdiction:  c[3].String,
		Circumstances: c[4].String,
		Evidence:      c[5].String,
		OfficerNotes:  c[6].String,
		Status:        c[7].String,
		CreatedAt:     parseTime(c[8]),
	})
}

func isForeignKeyViolation(err error) bool {
	var se *sqlitedrv.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// parseBool accepts "1" and "true" in any case. Anything else is false.
func parseBool(s sql.NullString) bool {
	v := strings.TrimSpace(s.String)
	return v == "1" || strings.EqualFold(v, "true")
}

func parseStatus(s sql.NullString) domrec.IdentificationStatus {
	st := domrec.IdentificationStatus(strings.TrimSpace(s.String))
	if !st.IsValid() {
		return domrec.Unidentified
	}
	return st
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}

// parseTime hydrates unparseable or NULL timestamps as the zero time.
func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
