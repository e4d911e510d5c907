package businessflow

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CommitItem is one entity's partial update payload
type CommitItem struct {
	EntityID uint
	Fields   map[string]any
}

// UpdateFunc applies one entity's partial update against the store
type UpdateFunc func(ctx context.Context, entityID uint, fields map[string]any) error

// BatchCommitDispatcher fans a batch of per-entity partial updates out to the
// store concurrently. There is no ordering or atomicity across entities: each
// update is independent and final once it succeeds. On any failure the whole
// batch is reported as failed without per-entity attribution; the caller keeps
// its local pending state and the operator retries the batch (re-submitting an
// already-applied item is a harmless same-value write).
type BatchCommitDispatcher struct {
	concurrency int
}

// DefaultCommitConcurrency bounds in-flight updates so a large batch does not
// drain the database connection pool.
const DefaultCommitConcurrency = 8

// NewBatchCommitDispatcher creates a dispatcher with the given concurrency
// bound; values < 1 fall back to the default.
func NewBatchCommitDispatcher(concurrency int) *BatchCommitDispatcher {
	if concurrency < 1 {
		concurrency = DefaultCommitConcurrency
	}
	return &BatchCommitDispatcher{concurrency: concurrency}
}

// Dispatch issues one update per item concurrently and awaits them all.
// Returns the number of affected entities when every update succeeded.
func (d *BatchCommitDispatcher) Dispatch(ctx context.Context, items []CommitItem, update UpdateFunc) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	// Every update runs to completion even when a sibling fails: the batch
	// result is all-or-nothing for the caller, but individual writes that
	// succeed are final and must not be aborted midway.
	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for _, item := range items {
		g.Go(func() error {
			return update(ctx, item.EntityID, item.Fields)
		})
	}

	if err := g.Wait(); err != nil {
		return 0, NewBusinessError("BATCH_COMMIT_FAILED", "One or more updates failed", ErrBatchCommitFailed)
	}
	return len(items), nil
}
