package businessflow

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditOverlay(t *testing.T) {
	t.Run("EffectivePrefersPendingValue", func(t *testing.T) {
		overlay := NewEditOverlay()
		overlay.SetField(1, "phone_number", "09012345678")

		assert.Equal(t, "09012345678", overlay.Effective(1, "phone_number", "08000000000"))
		assert.Equal(t, "08000000000", overlay.Effective(2, "phone_number", "08000000000"))
		assert.Equal(t, "unchanged", overlay.Effective(1, "notes", "unchanged"))
	})

	t.Run("ExplicitNilClearIsDistinguishable", func(t *testing.T) {
		overlay := NewEditOverlay()
		overlay.SetField(1, "shipment_date", nil)

		assert.True(t, overlay.Has(1, "shipment_date"))
		assert.Nil(t, overlay.Effective(1, "shipment_date", "2024-01-01"))

		// An untouched field falls through to the authoritative value
		assert.False(t, overlay.Has(1, "return_date"))
		assert.Equal(t, "2024-01-01", overlay.Effective(1, "return_date", "2024-01-01"))
	})

	t.Run("LastWriteWinsPerField", func(t *testing.T) {
		overlay := NewEditOverlay()
		overlay.SetField(7, "iccid", "8981100000000000001")
		overlay.SetField(7, "iccid", "8981100000000000002")

		assert.Equal(t, "8981100000000000002", overlay.Effective(7, "iccid", nil))

		changes := overlay.Changes()
		require.Len(t, changes[7], 1)
	})

	t.Run("EntitiesSortedAndDirtyTracking", func(t *testing.T) {
		overlay := NewEditOverlay()
		overlay.SetField(9, "notes", "b")
		overlay.SetField(3, "notes", "a")
		overlay.SetField(12, "notes", nil)

		assert.Equal(t, []uint{3, 9, 12}, overlay.Entities())
		assert.True(t, overlay.IsDirty(3))
		assert.False(t, overlay.IsDirty(4))
		assert.Equal(t, 3, overlay.Len())
	})

	t.Run("DiscardAllClearsEverything", func(t *testing.T) {
		overlay := NewEditOverlay()
		overlay.SetField(1, "notes", "pending")
		overlay.DiscardAll()

		assert.Equal(t, 0, overlay.Len())
		assert.False(t, overlay.Has(1, "notes"))
	})
}

func TestEditOverlayCommitAll(t *testing.T) {
	dispatcher := NewBatchCommitDispatcher(4)

	t.Run("SuccessfulCommitClearsOverlay", func(t *testing.T) {
		overlay := NewEditOverlay()
		overlay.SetField(1, "phone_number", "09011112222")
		overlay.SetField(2, "shipment_date", nil)

		var mu sync.Mutex
		applied := make(map[uint]map[string]any)

		count, err := overlay.CommitAll(context.Background(), dispatcher, func(_ context.Context, id uint, fields map[string]any) error {
			mu.Lock()
			defer mu.Unlock()
			applied[id] = fields
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, 0, overlay.Len())

		// Each entity received only its own overlaid fields
		require.Contains(t, applied, uint(1))
		require.Contains(t, applied, uint(2))
		assert.Equal(t, "09011112222", applied[1]["phone_number"])
		val, ok := applied[2]["shipment_date"]
		assert.True(t, ok)
		assert.Nil(t, val)
	})

	t.Run("FailedCommitKeepsOverlayIntact", func(t *testing.T) {
		overlay := NewEditOverlay()
		overlay.SetField(1, "notes", "keep me")
		overlay.SetField(2, "notes", "me too")

		count, err := overlay.CommitAll(context.Background(), dispatcher, func(_ context.Context, id uint, _ map[string]any) error {
			if id == 2 {
				return assert.AnError
			}
			return nil
		})
		require.Error(t, err)
		assert.True(t, IsBatchCommitFailed(err))
		assert.Equal(t, 0, count)

		// The whole overlay survives for retry, including the edit that landed
		assert.Equal(t, 2, overlay.Len())
		assert.True(t, overlay.Has(1, "notes"))
		assert.True(t, overlay.Has(2, "notes"))
	})

	t.Run("EmptyOverlayDispatchesNothing", func(t *testing.T) {
		overlay := NewEditOverlay()

		called := false
		count, err := overlay.CommitAll(context.Background(), dispatcher, func(_ context.Context, _ uint, _ map[string]any) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.False(t, called)
	})
}
