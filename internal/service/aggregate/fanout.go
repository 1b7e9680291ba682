package aggregate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"inventory-hub/internal/domain"
)

// task is one enrichment call. A nil payload with a nil error means the
// upstream answered but had nothing to return.
type task[T any] struct {
	source domain.Source
	fetch  func(context.Context) (*T, error)
}

// capture runs one task and turns its outcome into a PartialResult. It never
// returns an error.
func capture[T any](ctx context.Context, t task[T]) domain.PartialResult[T] {
	v, err := t.fetch(ctx)
	if err != nil {
		return domain.Failed[T](t.source, err)
	}
	return domain.Succeeded(t.source, v)
}

// gather runs every task with at most limit in flight and returns their
// results in task order. A failing task never stops its siblings.
func gather[T any](ctx context.Context, limit int, tasks []task[T]) []domain.PartialResult[T] {
	results := make([]domain.PartialResult[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range tasks {
		t := tasks[i]
		g.Go(func() error {
			results[i] = capture(gctx, t)
			return nil // failures are recorded in the slot, not propagated
		})
	}
	_ = g.Wait()
	return results
}
