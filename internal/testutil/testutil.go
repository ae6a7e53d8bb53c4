package testutil

import (
	"context"
	"sync/atomic"
)

// Counter counts fetches issued by a wrapped fetch function.
type Counter struct {
	n atomic.Int64
}

// Count returns the number of fetches issued so far.
func (c *Counter) Count() int {
	return int(c.n.Load())
}

// CannedFetch returns a fetch function over string entity ids that
// serves canned records or errors per id, plus a counter of issued
// requests. Ids absent from both maps succeed with zero records.
func CannedFetch[R any](records map[string][]R, errs map[string]error) (func(ctx context.Context, id string) ([]R, error), *Counter) {
	counter := &Counter{}
	fetch := func(ctx context.Context, id string) ([]R, error) {
		counter.n.Add(1)
		if err, ok := errs[id]; ok {
			return nil, err
		}
		return records[id], nil
	}
	return fetch, counter
}

// Identity is the key function for string entities.
func Identity(id string) string {
	return id
}
