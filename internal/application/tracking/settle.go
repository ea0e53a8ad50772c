// Package tracking is the application layer of the SLA engine: it owns the
// current record set, drives refreshes and the classification tick, and
// coordinates selections and bulk mutations against the upstream API.
package tracking

import (
	"context"
	"sync"
)

// ItemOutcome is the settled result of one item of a bulk operation.
type ItemOutcome[T any] struct {
	Item T
	Err  error
}

// SettleAll runs fn once per item with at most limit concurrent workers and
// waits for every outcome.  No item's failure short-circuits the others; the
// returned slice is index-aligned with items and contains one settled outcome
// each.  The context is passed through to fn so transport-level timeouts
// still apply, but SettleAll itself never abandons an in-flight item.
func SettleAll[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) []ItemOutcome[T] {
	if limit < 1 {
		limit = 1
	}

	outcomes := make([]ItemOutcome[T], len(items))
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = ItemOutcome[T]{Item: item, Err: fn(ctx, item)}
		}(i, item)
	}
	wg.Wait()

	return outcomes
}

// CountOutcomes reduces settled outcomes to aggregate success/failure counts.
func CountOutcomes[T any](outcomes []ItemOutcome[T]) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}
