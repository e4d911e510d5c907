package businessflow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommitDispatcher(t *testing.T) {
	t.Run("AllUpdatesSucceed", func(t *testing.T) {
		dispatcher := NewBatchCommitDispatcher(4)
		items := []CommitItem{
			{EntityID: 1, Fields: map[string]any{"notes": "a"}},
			{EntityID: 2, Fields: map[string]any{"notes": "b"}},
			{EntityID: 3, Fields: map[string]any{"notes": nil}},
		}

		var calls int32
		count, err := dispatcher.Dispatch(context.Background(), items, func(_ context.Context, _ uint, _ map[string]any) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("SingleFailureFailsWholeBatch", func(t *testing.T) {
		dispatcher := NewBatchCommitDispatcher(4)
		items := []CommitItem{
			{EntityID: 1, Fields: map[string]any{"notes": "a"}},
			{EntityID: 2, Fields: map[string]any{"notes": "b"}},
			{EntityID: 3, Fields: map[string]any{"notes": "c"}},
		}

		count, err := dispatcher.Dispatch(context.Background(), items, func(_ context.Context, id uint, _ map[string]any) error {
			if id == 2 {
				return assert.AnError
			}
			return nil
		})
		require.Error(t, err)
		assert.True(t, IsBatchCommitFailed(err))
		assert.Equal(t, 0, count)
	})

	t.Run("SiblingsRunToCompletionOnFailure", func(t *testing.T) {
		dispatcher := NewBatchCommitDispatcher(1)
		items := []CommitItem{
			{EntityID: 1, Fields: map[string]any{"notes": "a"}},
			{EntityID: 2, Fields: map[string]any{"notes": "b"}},
			{EntityID: 3, Fields: map[string]any{"notes": "c"}},
		}

		// With concurrency 1 the failing first item must not stop the rest:
		// writes that succeed are final, the failure only affects reporting.
		var mu sync.Mutex
		seen := make(map[uint]bool)

		_, err := dispatcher.Dispatch(context.Background(), items, func(_ context.Context, id uint, _ map[string]any) error {
			mu.Lock()
			seen[id] = true
			mu.Unlock()
			if id == 1 {
				return assert.AnError
			}
			return nil
		})
		require.Error(t, err)
		assert.Len(t, seen, 3)
	})

	t.Run("EmptyBatchIsNoop", func(t *testing.T) {
		dispatcher := NewBatchCommitDispatcher(4)
		count, err := dispatcher.Dispatch(context.Background(), nil, func(_ context.Context, _ uint, _ map[string]any) error {
			t.Fatal("update must not be called for an empty batch")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("ConcurrencyBoundIsHonored", func(t *testing.T) {
		const limit = 2
		dispatcher := NewBatchCommitDispatcher(limit)

		items := make([]CommitItem, 16)
		for i := range items {
			items[i] = CommitItem{EntityID: uint(i + 1), Fields: map[string]any{"notes": "x"}}
		}

		var inFlight, peak int32
		count, err := dispatcher.Dispatch(context.Background(), items, func(_ context.Context, _ uint, _ map[string]any) error {
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			atomic.AddInt32(&inFlight, -1)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, len(items), count)
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(limit))
	})
}
