package businessflow

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeSession(t *testing.T) {
	t.Run("TokensFillSlotsFIFO", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, []uint{10, 20, 30}, nil)

		require.NoError(t, session.SubmitToken("8981100000000000001"))
		require.NoError(t, session.SubmitToken("8981100000000000002"))

		assignments := session.Assignments()
		require.Len(t, assignments, 2)
		assert.Equal(t, uint(10), assignments[0].LineID)
		assert.Equal(t, "8981100000000000001", assignments[0].ICCID)
		assert.Equal(t, uint(20), assignments[1].LineID)
		assert.Equal(t, "8981100000000000002", assignments[1].ICCID)
		assert.Equal(t, 1, session.Remaining())
	})

	t.Run("WhitespaceOnlyTokenIsIgnored", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, []uint{10}, nil)

		require.NoError(t, session.SubmitToken(""))
		require.NoError(t, session.SubmitToken("   \n"))
		assert.Empty(t, session.Assignments())

		// Tokens are trimmed before assignment
		require.NoError(t, session.SubmitToken("  8981100000000000001\n"))
		assignments := session.Assignments()
		require.Len(t, assignments, 1)
		assert.Equal(t, "8981100000000000001", assignments[0].ICCID)
	})

	t.Run("SessionDuplicateIsRejected", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, []uint{10, 20}, nil)

		require.NoError(t, session.SubmitToken("8981100000000000001"))
		err := session.SubmitToken("8981100000000000001")
		require.Error(t, err)
		assert.True(t, IsDuplicateScan(err))

		// Rejection leaves state untouched
		assert.Len(t, session.Assignments(), 1)
		assert.Equal(t, 1, session.Remaining())
	})

	t.Run("GlobalDuplicateIsRejected", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, []uint{10}, []string{"8981100000000000009"})

		err := session.SubmitToken("8981100000000000009")
		require.Error(t, err)
		assert.True(t, IsICCIDTaken(err))
		assert.Empty(t, session.Assignments())
	})

	t.Run("ExhaustedSessionRejectsFurtherTokens", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, []uint{10}, nil)

		require.NoError(t, session.SubmitToken("8981100000000000001"))
		assert.True(t, session.Exhausted())

		err := session.SubmitToken("8981100000000000002")
		require.Error(t, err)
		assert.True(t, IsIntakeExhausted(err))
	})

	t.Run("EmptyCandidateListIsExhaustedFromStart", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, nil, nil)

		assert.True(t, session.Exhausted())
		assert.Equal(t, 0, session.Remaining())

		err := session.SubmitToken("8981100000000000001")
		require.Error(t, err)
		assert.True(t, IsIntakeExhausted(err))
	})

	t.Run("RemoveLastFreesSlotAndToken", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, []uint{10, 20}, nil)

		require.NoError(t, session.SubmitToken("8981100000000000001"))
		require.NoError(t, session.SubmitToken("8981100000000000002"))
		require.True(t, session.RemoveLast())

		// The freed slot is refilled next, and the removed token is scannable again
		require.NoError(t, session.SubmitToken("8981100000000000002"))
		assignments := session.Assignments()
		require.Len(t, assignments, 2)
		assert.Equal(t, uint(20), assignments[1].LineID)

		require.True(t, session.RemoveLast())
		require.True(t, session.RemoveLast())
		assert.False(t, session.RemoveLast())
	})

	t.Run("ResetClearsAssignmentsKeepsCandidates", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, []uint{10, 20}, nil)

		require.NoError(t, session.SubmitToken("8981100000000000001"))
		session.Reset()

		assert.Empty(t, session.Assignments())
		assert.Equal(t, 2, session.Remaining())

		// Previously scanned token is accepted again after reset
		require.NoError(t, session.SubmitToken("8981100000000000001"))
		assert.Equal(t, uint(10), session.Assignments()[0].LineID)
	})

	t.Run("FinalizeReturnsSnapshot", func(t *testing.T) {
		session := NewIntakeSession(ScanModeAutoEnter, []uint{10, 20}, nil)
		require.NoError(t, session.SubmitToken("8981100000000000001"))

		snapshot := session.Finalize()
		require.Len(t, snapshot, 1)

		// Mutating the session afterwards does not affect the snapshot
		require.NoError(t, session.SubmitToken("8981100000000000002"))
		assert.Len(t, snapshot, 1)
	})

	t.Run("ConcurrentSubmissionsAreSerialized", func(t *testing.T) {
		const slots = 50
		candidates := make([]uint, slots)
		for i := range candidates {
			candidates[i] = uint(i + 1)
		}
		session := NewIntakeSession(ScanModeAutoEnter, candidates, nil)

		var wg sync.WaitGroup
		for i := 0; i < slots; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_ = session.SubmitToken(fmt.Sprintf("89811%014d", n))
			}(i)
		}
		wg.Wait()

		assignments := session.Assignments()
		assert.Len(t, assignments, slots)
		assert.True(t, session.Exhausted())

		// Every slot got exactly one distinct token
		seenSlots := make(map[uint]bool)
		seenTokens := make(map[string]bool)
		for _, a := range assignments {
			assert.False(t, seenSlots[a.LineID])
			assert.False(t, seenTokens[a.ICCID])
			seenSlots[a.LineID] = true
			seenTokens[a.ICCID] = true
		}
	})
}

func TestScanBuffer(t *testing.T) {
	t.Run("AutoSubmitAfterSettleDelay", func(t *testing.T) {
		var mu sync.Mutex
		var submitted []string
		buffer := NewScanBuffer(19, 20*time.Millisecond, func(token string) {
			mu.Lock()
			submitted = append(submitted, token)
			mu.Unlock()
		})

		buffer.Push("8981100000")
		buffer.Push("000000001") // 19 chars total, arms the timer

		time.Sleep(80 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, submitted, 1)
		assert.Equal(t, "8981100000000000001", submitted[0])
		assert.Equal(t, 0, buffer.Len())
	})

	t.Run("BelowThresholdNeverFires", func(t *testing.T) {
		var mu sync.Mutex
		var submitted []string
		buffer := NewScanBuffer(19, 20*time.Millisecond, func(token string) {
			mu.Lock()
			submitted = append(submitted, token)
			mu.Unlock()
		})

		buffer.Push("898110")
		time.Sleep(80 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		assert.Empty(t, submitted)
		assert.Equal(t, 6, buffer.Len())
	})

	t.Run("FurtherInputExtendsDeadline", func(t *testing.T) {
		var mu sync.Mutex
		var submitted []string
		buffer := NewScanBuffer(19, 40*time.Millisecond, func(token string) {
			mu.Lock()
			submitted = append(submitted, token)
			mu.Unlock()
		})

		// A 20-digit ICCID arrives as two bursts straddling the threshold;
		// the second burst must be included in the submitted token.
		buffer.Push("8981100000000000001")
		time.Sleep(10 * time.Millisecond)
		buffer.Push("9")

		time.Sleep(120 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, submitted, 1)
		assert.Equal(t, "89811000000000000019", submitted[0])
	})

	t.Run("ManualFlushSubmitsImmediately", func(t *testing.T) {
		var mu sync.Mutex
		var submitted []string
		buffer := NewScanBuffer(19, time.Hour, func(token string) {
			mu.Lock()
			submitted = append(submitted, token)
			mu.Unlock()
		})

		// Keyboard entry below the length threshold, then Enter
		buffer.Push("12345")
		buffer.Flush()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, submitted, 1)
		assert.Equal(t, "12345", submitted[0])
	})

	t.Run("FlushOnEmptyBufferIsNoop", func(t *testing.T) {
		called := false
		buffer := NewScanBuffer(19, time.Hour, func(string) { called = true })

		buffer.Flush()
		assert.False(t, called)
	})
}
