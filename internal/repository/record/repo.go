// Package record stores deceased records and investigation reports as
// Redis/Valkey hashes and reads them back for search.
package record

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/kinsearch/internal/domain"
	domrec "github.com/kailas-cloud/kinsearch/internal/domain/record"
)

// store is the consumer interface for record hashes (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/search.RecordReader over hashes.
type Repo struct {
	store  store
	prefix string
}

// New creates a record repository. prefix is prepended to every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// List returns every stored record of the given kind, ordered by key.
// Hashes that vanish between SCAN and HGETALL are skipped. Records are
// returned unvalidated; callers decide what to do with malformed ones.
func (r *Repo) List(ctx context.Context, kind domrec.Kind) ([]domrec.Record, error) {
	seg, err := segment(kind)
	if err != nil {
		return nil, err
	}

	pattern := r.prefix + seg + ":*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch %s records: %w", kind, err)
	}

	out := make([]domrec.Record, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		id := strings.TrimPrefix(keys[i], r.prefix+seg+":")
		switch kind {
		case domrec.KindDeceased:
			out = append(out, parseDeceased(id, m))
		case domrec.KindReport:
			out = append(out, parseReport(id, m))
		}
	}
	return out, nil
}

// PutDeceased writes a deceased record hash.
func (r *Repo) PutDeceased(ctx context.Context, d *domrec.Deceased) error {
	if err := d.Validate(); err != nil {
		return err
	}
	key := r.key(domrec.KindDeceased, d.ID())
	if err := r.store.HSet(ctx, key, deceasedHash(d)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// PutReport writes an investigation report hash. The linked deceased record
// must already exist.
func (r *Repo) PutReport(ctx context.Context, rep *domrec.Report) error {
	if err := rep.Validate(); err != nil {
		return err
	}
	linked := r.key(domrec.KindDeceased, rep.DeceasedID())
	ok, err := r.store.Exists(ctx, linked)
	if err != nil {
		return fmt.Errorf("exists %s: %w", linked, err)
	}
	if !ok {
		return fmt.Errorf("%w: report %s links %s", domain.ErrDeceasedNotFound, rep.ID(), rep.DeceasedID())
	}
	key := r.key(domrec.KindReport, rep.ID())
	if err := r.store.HSet(ctx, key, reportHash(rep)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Delete removes a record of the given kind.
func (r *Repo) Delete(ctx context.Context, kind domrec.Kind, id string) error {
	if _, err := segment(kind); err != nil {
		return err
	}
	key := r.key(kind, id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(kind domrec.Kind, id string) string {
	seg, _ := segment(kind)
	return r.prefix + seg + ":" + id
}

func segment(kind domrec.Kind) (string, error) {
	switch kind {
	case domrec.KindDeceased:
		return "deceased", nil
	case domrec.KindReport:
		return "report", nil
	default:
		return "", fmt.Errorf("unknown record kind %q", kind)
	}
}
