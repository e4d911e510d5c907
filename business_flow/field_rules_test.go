package businessflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLineField(t *testing.T) {
	t.Run("StringsAreTrimmed", func(t *testing.T) {
		column, value, err := normalizeLineField("phone_number", "  09012345678 ")
		require.NoError(t, err)
		assert.Equal(t, "phone_number", column)
		assert.Equal(t, "09012345678", value)
	})

	t.Run("EmptyStringClearsLikeNull", func(t *testing.T) {
		_, value, err := normalizeLineField("iccid", "   ")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("NullClearsNullableColumns", func(t *testing.T) {
		for _, field := range []string{"phone_number", "iccid", "sim_location_tag_id", "spare_tag_id", "shipment_date", "return_date"} {
			_, value, err := normalizeLineField(field, nil)
			require.NoError(t, err, "field %s must accept null", field)
			assert.Nil(t, value)
		}
	})

	t.Run("StatusCannotBeNull", func(t *testing.T) {
		_, _, err := normalizeLineField("status", nil)
		require.Error(t, err)
		assert.True(t, IsInvalidLineStatus(err))
	})

	t.Run("StatusMustBeKnown", func(t *testing.T) {
		column, value, err := normalizeLineField("status", "shipped")
		require.NoError(t, err)
		assert.Equal(t, "status", column)
		assert.Equal(t, "shipped", value)

		_, _, err = normalizeLineField("status", "lost")
		require.Error(t, err)
		assert.True(t, IsInvalidLineStatus(err))
	})

	t.Run("TagIDsCoerceFromJSONNumbers", func(t *testing.T) {
		_, value, err := normalizeLineField("sim_location_tag_id", float64(7))
		require.NoError(t, err)
		assert.Equal(t, uint(7), value)

		_, _, err = normalizeLineField("spare_tag_id", float64(0))
		assert.Error(t, err)
		_, _, err = normalizeLineField("spare_tag_id", float64(2.5))
		assert.Error(t, err)
		_, _, err = normalizeLineField("spare_tag_id", "3")
		assert.Error(t, err)
	})

	t.Run("DatesParseAsUTCDays", func(t *testing.T) {
		_, value, err := normalizeLineField("shipment_date", "2026-08-01")
		require.NoError(t, err)
		parsed, ok := value.(time.Time)
		require.True(t, ok)
		assert.Equal(t, "2026-08-01", parsed.Format("2006-01-02"))

		_, _, err = normalizeLineField("return_date", "01/08/2026")
		assert.Error(t, err)
	})

	t.Run("UnknownFieldIsRejected", func(t *testing.T) {
		_, _, err := normalizeLineField("application_id", float64(1))
		require.Error(t, err)
		assert.True(t, IsUnknownLineField(err))
	})
}

func TestNormalizeApplicationField(t *testing.T) {
	t.Run("RequiredStringsCannotBeEmptied", func(t *testing.T) {
		for _, field := range []string{"applicant_name", "applicant_email", "applicant_mobile", "plan_code"} {
			_, _, err := normalizeApplicationField(field, "  ")
			assert.Error(t, err, "field %s must reject empty", field)
			_, _, err = normalizeApplicationField(field, nil)
			assert.Error(t, err, "field %s must reject null", field)
		}
	})

	t.Run("OptionalFieldsAcceptNull", func(t *testing.T) {
		for _, field := range []string{"applicant_kana", "contractor_id", "notes"} {
			_, value, err := normalizeApplicationField(field, nil)
			require.NoError(t, err, "field %s must accept null", field)
			assert.Nil(t, value)
		}
	})

	t.Run("ContractorIDCoercesFromJSONNumber", func(t *testing.T) {
		_, value, err := normalizeApplicationField("contractor_id", float64(12))
		require.NoError(t, err)
		assert.Equal(t, uint(12), value)

		_, _, err = normalizeApplicationField("contractor_id", float64(-1))
		assert.Error(t, err)
	})

	t.Run("StatusMustBeKnown", func(t *testing.T) {
		_, value, err := normalizeApplicationField("status", "reviewing")
		require.NoError(t, err)
		assert.Equal(t, "reviewing", value)

		_, _, err = normalizeApplicationField("status", "approved")
		assert.Error(t, err)
	})

	t.Run("UnknownFieldIsRejected", func(t *testing.T) {
		_, _, err := normalizeApplicationField("requested_line_count", float64(5))
		require.Error(t, err)
	})
}
