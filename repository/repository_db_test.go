package repository

import (
	"context"
	"testing"

	"github.com/oroshi-mobile/simdesk/models"
	testingutil "github.com/oroshi-mobile/simdesk/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		lineRepo := NewLineRepository(testDB.DB)
		ctx := context.Background()

		app, err := fixtures.CreateTestApplication(models.ApplicationStatusAccepted, 3)
		require.NoError(t, err)
		otherApp, err := fixtures.CreateTestApplication(models.ApplicationStatusAccepted, 1)
		require.NoError(t, err)

		first, err := fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
		require.NoError(t, err)
		second, err := fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
		require.NoError(t, err)
		iccid := testingutil.RandomICCID()
		assigned, err := fixtures.CreateTestLineWithICCID(app.ID, iccid)
		require.NoError(t, err)
		otherLine, err := fixtures.CreateTestLine(otherApp.ID, models.LineStatusNotOpened)
		require.NoError(t, err)

		t.Run("ListCandidateSlotsSkipsAssignedLines", func(t *testing.T) {
			candidates, err := lineRepo.ListCandidateSlots(ctx, &app.ID)
			require.NoError(t, err)
			require.Len(t, candidates, 2)
			// Stable id order is what makes FIFO slot filling deterministic
			assert.Equal(t, first.ID, candidates[0].ID)
			assert.Equal(t, second.ID, candidates[1].ID)
		})

		t.Run("ListCandidateSlotsAcrossAllApplications", func(t *testing.T) {
			candidates, err := lineRepo.ListCandidateSlots(ctx, nil)
			require.NoError(t, err)
			assert.Len(t, candidates, 3)
		})

		t.Run("ListAssignedICCIDs", func(t *testing.T) {
			iccids, err := lineRepo.ListAssignedICCIDs(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{iccid}, iccids)
		})

		t.Run("ByICCID", func(t *testing.T) {
			found, err := lineRepo.ByICCID(ctx, iccid)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, assigned.ID, found.ID)

			missing, err := lineRepo.ByICCID(ctx, testingutil.RandomICCID())
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("FilterByHasICCID", func(t *testing.T) {
			hasICCID := true
			withSerial, err := lineRepo.ByFilter(ctx, models.LineFilter{HasICCID: &hasICCID}, "id ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, withSerial, 1)
			assert.Equal(t, assigned.ID, withSerial[0].ID)

			hasICCID = false
			withoutSerial, err := lineRepo.ByFilter(ctx, models.LineFilter{HasICCID: &hasICCID}, "id ASC", 0, 0)
			require.NoError(t, err)
			assert.Len(t, withoutSerial, 3)
		})

		t.Run("UpdateFieldsWritesOnlySuppliedColumns", func(t *testing.T) {
			err := lineRepo.UpdateFields(ctx, otherLine.ID, map[string]any{"phone_number": "09099998888"})
			require.NoError(t, err)

			saved, err := lineRepo.ByID(ctx, otherLine.ID)
			require.NoError(t, err)
			require.NotNil(t, saved.PhoneNumber)
			assert.Equal(t, "09099998888", *saved.PhoneNumber)
			assert.Equal(t, models.LineStatusNotOpened, saved.Status)
			assert.True(t, saved.UpdatedAt.After(otherLine.UpdatedAt))
		})

		t.Run("UpdateFieldsOnMissingLineFails", func(t *testing.T) {
			err := lineRepo.UpdateFields(ctx, 999999, map[string]any{"phone_number": "0"})
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		adminRepo := NewAdminRepository(testDB.DB)
		ctx := context.Background()

		admin, err := fixtures.CreateTestAdmin("backoffice", "SecurePass123!")
		require.NoError(t, err)

		t.Run("ByUsername", func(t *testing.T) {
			found, err := adminRepo.ByUsername(ctx, "backoffice")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, admin.ID, found.ID)

			missing, err := adminRepo.ByUsername(ctx, "nobody")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("TouchLastLogin", func(t *testing.T) {
			require.Nil(t, admin.LastLoginAt)
			require.NoError(t, adminRepo.TouchLastLogin(ctx, admin.ID))

			saved, err := adminRepo.ByID(ctx, admin.ID)
			require.NoError(t, err)
			assert.NotNil(t, saved.LastLoginAt)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAuditLogRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		auditRepo := NewAuditLogRepository(testDB.DB)
		ctx := context.Background()

		admin, err := fixtures.CreateTestAdmin("backoffice", "SecurePass123!")
		require.NoError(t, err)

		success := true
		for _, action := range []string{models.AuditActionAdminLoginSuccess, models.AuditActionLinesBatchUpdated, models.AuditActionLinesBatchUpdated} {
			entry := &models.AuditLog{
				AdminID: &admin.ID,
				Action:  action,
				Success: &success,
			}
			require.NoError(t, auditRepo.Save(ctx, entry))
		}

		t.Run("ListByAdmin", func(t *testing.T) {
			entries, err := auditRepo.ListByAdmin(ctx, admin.ID, 10, 0)
			require.NoError(t, err)
			assert.Len(t, entries, 3)
		})

		t.Run("ListByAction", func(t *testing.T) {
			entries, err := auditRepo.ListByAction(ctx, models.AuditActionLinesBatchUpdated, 10, 0)
			require.NoError(t, err)
			assert.Len(t, entries, 2)
		})

		return nil
	})
	require.NoError(t, err)
}
