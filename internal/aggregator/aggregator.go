package aggregator

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/xavierdc9/sports-betting-analyzer/internal/fetcher"
)

// FetchFunc retrieves the sub-records of a single entity. Each
// invocation is independent: a failure for one entity never affects
// another's fetch.
type FetchFunc[E, R any] func(ctx context.Context, entity E) ([]R, error)

// Outcome is one entity's settled fetch: either Records or Err is
// meaningful, never both. It is the unit carried from fan-out to the
// single fan-in point.
type Outcome[R any] struct {
	EntityID string
	Records  []R
	Err      error
}

// Result is the published output of one aggregation pass.
//
// RecordsByEntity holds an entry for every entity in the capped input,
// failed ones included (with an empty slice). ErrorByEntity holds
// entries only for entities whose fetch failed. An entity is therefore
// either successful (possibly with zero records) or failed, never
// both, and the two maps together cover exactly the capped input ids.
type Result[R any] struct {
	RecordsByEntity map[string][]R
	ErrorByEntity   map[string]string

	// GlobalErr is set to the first (input-order) failure message when
	// every entity in the pass failed, so a caller can render a single
	// retryable error view instead of N failure rows. It stays empty as
	// long as at least one entity succeeded.
	GlobalErr string
}

// Aggregator fans out one fetch per entity and joins on all-settled.
// Re-invoking Run supersedes any in-flight pass: a superseded pass
// still returns its result to its own caller but is never published as
// Latest.
type Aggregator[E, R any] struct {
	key   func(E) string
	fetch FetchFunc[E, R]

	mu     sync.Mutex
	gen    uint64
	latest *Result[R]
}

// New creates an aggregator. key extracts an entity's id; fetch
// retrieves one entity's sub-records.
func New[E, R any](key func(E) string, fetch FetchFunc[E, R]) *Aggregator[E, R] {
	return &Aggregator[E, R]{
		key:   key,
		fetch: fetch,
	}
}

// Run executes one aggregation pass over the first limit entities of
// the input, preserving input order and skipping duplicate ids. It
// blocks until every issued fetch has settled, then returns the
// assembled result and whether it was published as the latest pass.
// A pass that was superseded by a newer Run before completing reports
// published=false and leaves Latest untouched.
func (a *Aggregator[E, R]) Run(ctx context.Context, entities []E, limit int) (*Result[R], bool) {
	token := a.begin()

	if limit < 0 {
		limit = 0
	}
	if limit < len(entities) {
		entities = entities[:limit]
	}

	type slot struct {
		id     string
		entity E
	}
	seen := make(map[string]struct{}, len(entities))
	slots := make([]slot, 0, len(entities))
	for _, e := range entities {
		id := a.key(e)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		slots = append(slots, slot{id: id, entity: e})
	}

	// Fan-out: each goroutine owns exactly one slot of the outcome
	// slice, so no synchronization is needed until the join.
	outcomes := make([]Outcome[R], len(slots))
	var wg conc.WaitGroup
	for i, s := range slots {
		i, s := i, s // per-iteration copies: go directive < 1.22 shares loop vars
		wg.Go(func() {
			records, err := a.fetch(ctx, s.entity)
			outcomes[i] = Outcome[R]{EntityID: s.id, Records: records, Err: err}
		})
	}
	wg.Wait()

	result := &Result[R]{
		RecordsByEntity: make(map[string][]R, len(slots)),
		ErrorByEntity:   make(map[string]string),
	}
	for _, o := range outcomes {
		if o.Err != nil {
			result.RecordsByEntity[o.EntityID] = []R{}
			result.ErrorByEntity[o.EntityID] = fetcher.Message(o.Err)
			continue
		}
		records := o.Records
		if records == nil {
			records = []R{}
		}
		result.RecordsByEntity[o.EntityID] = records
	}
	if len(slots) > 0 && len(result.ErrorByEntity) == len(slots) {
		result.GlobalErr = result.ErrorByEntity[slots[0].id]
	}

	return result, a.publish(token, result)
}

// Latest returns the result of the most recent pass that completed
// while still being the latest-issued one, or nil before any pass has
// published.
func (a *Aggregator[E, R]) Latest() *Result[R] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}

func (a *Aggregator[E, R]) begin() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	return a.gen
}

// publish stores result as Latest only if no newer pass began while
// this one was in flight.
func (a *Aggregator[E, R]) publish(token uint64, result *Result[R]) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != token {
		return false
	}
	a.latest = result
	return true
}
