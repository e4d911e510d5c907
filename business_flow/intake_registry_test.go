package businessflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeRegistry(t *testing.T) {
	t.Run("CreateAndGet", func(t *testing.T) {
		registry := NewIntakeRegistry(time.Minute)
		session := NewIntakeSession(ScanModeAutoEnter, []uint{1, 2}, nil)

		id := registry.Create(session, 0)
		require.NotEmpty(t, id)
		assert.Equal(t, 1, registry.Len())

		got, buffer, err := registry.Get(id)
		require.NoError(t, err)
		assert.Same(t, session, got)
		// Auto-enter sessions carry no scan buffer
		assert.Nil(t, buffer)
	})

	t.Run("LengthTriggeredSessionGetsBuffer", func(t *testing.T) {
		registry := NewIntakeRegistry(time.Minute)
		session := NewIntakeSession(ScanModeLengthTriggered, []uint{1}, nil)

		id := registry.Create(session, 20*time.Millisecond)
		_, buffer, err := registry.Get(id)
		require.NoError(t, err)
		require.NotNil(t, buffer)

		// Auto-submit from the buffer feeds the session directly
		buffer.Push("8981100000000000001")
		time.Sleep(80 * time.Millisecond)
		assert.Len(t, session.Assignments(), 1)
		assert.NoError(t, registry.TakeBufferError(id))
	})

	t.Run("BufferRejectionSurfacesOnNextCall", func(t *testing.T) {
		registry := NewIntakeRegistry(time.Minute)
		session := NewIntakeSession(ScanModeLengthTriggered, []uint{1}, []string{"8981100000000000009"})

		id := registry.Create(session, 20*time.Millisecond)
		_, buffer, err := registry.Get(id)
		require.NoError(t, err)

		// The timer-driven submit has no waiting request; its rejection is
		// parked and handed to the next status call, exactly once.
		buffer.Push("8981100000000000009")
		time.Sleep(80 * time.Millisecond)

		err = registry.TakeBufferError(id)
		require.Error(t, err)
		assert.True(t, IsICCIDTaken(err))
		assert.NoError(t, registry.TakeBufferError(id))
	})

	t.Run("UnknownSessionIsNotFound", func(t *testing.T) {
		registry := NewIntakeRegistry(time.Minute)

		_, _, err := registry.Get("no-such-session")
		require.Error(t, err)
		assert.True(t, IsIntakeSessionNotFound(err))
	})

	t.Run("DropRemovesSession", func(t *testing.T) {
		registry := NewIntakeRegistry(time.Minute)
		id := registry.Create(NewIntakeSession(ScanModeAutoEnter, []uint{1}, nil), 0)

		registry.Drop(id)
		assert.Equal(t, 0, registry.Len())

		_, _, err := registry.Get(id)
		assert.True(t, IsIntakeSessionNotFound(err))
	})

	t.Run("SweepEvictsIdleSessions", func(t *testing.T) {
		registry := NewIntakeRegistry(30 * time.Millisecond)
		idleID := registry.Create(NewIntakeSession(ScanModeAutoEnter, []uint{1}, nil), 0)
		liveID := registry.Create(NewIntakeSession(ScanModeAutoEnter, []uint{2}, nil), 0)

		time.Sleep(50 * time.Millisecond)

		// Touching a session refreshes its idle stamp
		_, _, err := registry.Get(liveID)
		require.NoError(t, err)

		registry.sweep()

		_, _, err = registry.Get(idleID)
		assert.True(t, IsIntakeSessionNotFound(err))
		_, _, err = registry.Get(liveID)
		assert.NoError(t, err)
	})

	t.Run("DistinctSessionsDoNotInterfere", func(t *testing.T) {
		registry := NewIntakeRegistry(time.Minute)
		first := NewIntakeSession(ScanModeAutoEnter, []uint{1}, nil)
		second := NewIntakeSession(ScanModeAutoEnter, []uint{2}, nil)

		firstID := registry.Create(first, 0)
		secondID := registry.Create(second, 0)
		require.NotEqual(t, firstID, secondID)

		require.NoError(t, first.SubmitToken("8981100000000000001"))

		// The same token is valid in the second session: global uniqueness is
		// checked against the database snapshot, not across live sessions.
		require.NoError(t, second.SubmitToken("8981100000000000001"))
	})
}
