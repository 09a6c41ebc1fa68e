package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/kinsearch/internal/db"
)

// XAdd appends an entry to a stream with a server-generated id.
// Fields are written in key order so entries are reproducible.
func (s *Store) XAdd(ctx context.Context, key string, maxLen int64, fields map[string]string) (string, error) {
	if len(fields) == 0 {
		return "", &db.Error{Op: db.OpXAdd, Err: fmt.Errorf("no fields for %s", key)}
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	var cmd rueidis.Completed
	if maxLen > 0 {
		fv := s.b().Xadd().Key(key).
			Maxlen().Almost().Threshold(strconv.FormatInt(maxLen, 10)).
			Id("*").FieldValue()
		for _, k := range names {
			fv = fv.FieldValue(k, fields[k])
		}
		cmd = fv.Build()
	} else {
		fv := s.b().Xadd().Key(key).Id("*").FieldValue()
		for _, k := range names {
			fv = fv.FieldValue(k, fields[k])
		}
		cmd = fv.Build()
	}

	id, err := s.do(ctx, cmd).ToString()
	if err != nil {
		return "", &db.Error{Op: db.OpXAdd, Err: err}
	}
	return id, nil
}
