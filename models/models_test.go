package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineStatus(t *testing.T) {
	t.Run("ParseAcceptsKnownValues", func(t *testing.T) {
		for _, raw := range []string{"not_opened", "opened", "shipped", "waiting_return", "returned", "canceled"} {
			status, err := ParseLineStatus(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, status.String())
			assert.True(t, status.Valid())
		}
	})

	t.Run("ParseRejectsUnknownValues", func(t *testing.T) {
		for _, raw := range []string{"", "open", "SHIPPED", "not-opened"} {
			_, err := ParseLineStatus(raw)
			assert.Error(t, err, "expected rejection for %q", raw)
		}
	})

	t.Run("ScanAndValueRoundTrip", func(t *testing.T) {
		var status LineStatus
		require.NoError(t, status.Scan("shipped"))
		assert.Equal(t, LineStatusShipped, status)

		require.NoError(t, status.Scan([]byte("returned")))
		assert.Equal(t, LineStatusReturned, status)

		value, err := LineStatusOpened.Value()
		require.NoError(t, err)
		assert.Equal(t, "opened", value)

		_, err = LineStatus("bogus").Value()
		assert.Error(t, err)
	})

	t.Run("ScanNilClearsStatus", func(t *testing.T) {
		status := LineStatusShipped
		require.NoError(t, status.Scan(nil))
		assert.Empty(t, status)
	})

	t.Run("ScanRejectsUnexpectedType", func(t *testing.T) {
		var status LineStatus
		assert.Error(t, status.Scan(42))
	})
}

func TestApplicationStatus(t *testing.T) {
	t.Run("ParseAcceptsKnownValues", func(t *testing.T) {
		for _, raw := range []string{"draft", "submitted", "reviewing", "accepted", "rejected", "canceled"} {
			status, err := ParseApplicationStatus(raw)
			require.NoError(t, err)
			assert.True(t, status.Valid())
		}
	})

	t.Run("ParseRejectsUnknownValues", func(t *testing.T) {
		_, err := ParseApplicationStatus("approved")
		assert.Error(t, err)
	})

	t.Run("ValueRejectsInvalidStatus", func(t *testing.T) {
		_, err := ApplicationStatus("pending").Value()
		assert.Error(t, err)

		value, err := ApplicationStatusAccepted.Value()
		require.NoError(t, err)
		assert.Equal(t, "accepted", value)
	})
}

func TestApplicationIsTerminal(t *testing.T) {
	terminal := []ApplicationStatus{ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusCanceled}
	for _, status := range terminal {
		app := &Application{Status: status}
		assert.True(t, app.IsTerminal(), "status %s must be terminal", status)
	}

	open := []ApplicationStatus{ApplicationStatusDraft, ApplicationStatusSubmitted, ApplicationStatusReviewing}
	for _, status := range open {
		app := &Application{Status: status}
		assert.False(t, app.IsTerminal(), "status %s must not be terminal", status)
	}
}

func TestTagType(t *testing.T) {
	t.Run("ParseAcceptsKnownValues", func(t *testing.T) {
		for _, raw := range []string{"sim_location", "spare"} {
			tagType, err := ParseTagType(raw)
			require.NoError(t, err)
			assert.True(t, tagType.Valid())
		}
	})

	t.Run("ParseRejectsUnknownValues", func(t *testing.T) {
		_, err := ParseTagType("location")
		assert.Error(t, err)
	})

	t.Run("ScanAndValueRoundTrip", func(t *testing.T) {
		var tagType TagType
		require.NoError(t, tagType.Scan("spare"))
		assert.Equal(t, TagTypeSpare, tagType)

		value, err := TagTypeSimLocation.Value()
		require.NoError(t, err)
		assert.Equal(t, "sim_location", value)
	})
}

func TestLineHasICCID(t *testing.T) {
	iccid := "8981100000000000001"
	empty := ""

	assert.True(t, (&Line{ICCID: &iccid}).HasICCID())
	assert.False(t, (&Line{ICCID: &empty}).HasICCID())
	assert.False(t, (&Line{}).HasICCID())
}
