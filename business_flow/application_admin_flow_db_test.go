package businessflow

import (
	"context"
	"testing"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/app/services"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	testingutil "github.com/oroshi-mobile/simdesk/testing"
	"github.com/oroshi-mobile/simdesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminApplicationFlow(testDB *testingutil.TestDB) AdminApplicationFlow {
	appRepo := repository.NewApplicationRepository(testDB.DB)
	lineRepo := repository.NewLineRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)
	notificationService := services.NewNotificationService(
		services.NewMockSMSProvider(),
		services.NewMockEmailProvider(),
	)
	dispatcher := NewBatchCommitDispatcher(DefaultCommitConcurrency)
	return NewAdminApplicationFlow(appRepo, lineRepo, auditRepo, notificationService, dispatcher, testDB.DB)
}

func TestAcceptApplication(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		lineRepo := repository.NewLineRepository(testDB.DB)

		flow := newAdminApplicationFlow(testDB)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("reviewer", "SecurePass123!")
		require.NoError(t, err)

		t.Run("AcceptCreatesRequestedLines", func(t *testing.T) {
			app, err := fixtures.CreateTestApplication(models.ApplicationStatusSubmitted, 4)
			require.NoError(t, err)

			result, err := flow.Accept(context.Background(), app.ID, admin.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, string(models.ApplicationStatusAccepted), result.Application.Status)
			assert.NotNil(t, result.Application.AcceptedAt)
			require.Len(t, result.CreatedLines, 4)
			for _, line := range result.CreatedLines {
				assert.Equal(t, app.ID, line.ApplicationID)
				assert.Equal(t, string(models.LineStatusNotOpened), line.Status)
				assert.Nil(t, line.ICCID)
			}

			count, err := lineRepo.Count(context.Background(), models.LineFilter{ApplicationID: &app.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(4), count)
		})

		t.Run("AcceptIsRejectedForDecidedApplication", func(t *testing.T) {
			app, err := fixtures.CreateTestApplication(models.ApplicationStatusRejected, 1)
			require.NoError(t, err)

			_, err = flow.Accept(context.Background(), app.ID, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsApplicationNotEditable(err))
		})

		t.Run("AcceptUnknownApplicationIsNotFound", func(t *testing.T) {
			_, err := flow.Accept(context.Background(), 999999, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsApplicationNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRejectApplication(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		appRepo := repository.NewApplicationRepository(testDB.DB)

		flow := newAdminApplicationFlow(testDB)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("reviewer", "SecurePass123!")
		require.NoError(t, err)

		t.Run("RejectStoresReason", func(t *testing.T) {
			app, err := fixtures.CreateTestApplication(models.ApplicationStatusSubmitted, 1)
			require.NoError(t, err)

			req := &dto.RejectApplicationRequest{Reason: utils.ToPtr("Identity documents unreadable")}
			result, err := flow.Reject(context.Background(), app.ID, req, admin.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, string(models.ApplicationStatusRejected), result.Status)
			require.NotNil(t, result.Notes)
			assert.Equal(t, "Identity documents unreadable", *result.Notes)

			saved, err := appRepo.ByID(context.Background(), app.ID)
			require.NoError(t, err)
			assert.Equal(t, models.ApplicationStatusRejected, saved.Status)
			assert.NotNil(t, saved.RejectedAt)
		})

		t.Run("RejectIsRejectedForDecidedApplication", func(t *testing.T) {
			app, err := fixtures.CreateTestApplication(models.ApplicationStatusAccepted, 1)
			require.NoError(t, err)

			_, err = flow.Reject(context.Background(), app.ID, nil, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsApplicationNotEditable(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUpdateApplicationsBatch(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		appRepo := repository.NewApplicationRepository(testDB.DB)

		flow := newAdminApplicationFlow(testDB)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("reviewer", "SecurePass123!")
		require.NoError(t, err)

		t.Run("PartialUpdateTouchesOnlySuppliedFields", func(t *testing.T) {
			app, err := fixtures.CreateTestApplication(models.ApplicationStatusSubmitted, 2)
			require.NoError(t, err)
			originalEmail := app.ApplicantEmail

			req := &dto.BatchUpdateApplicationsRequest{
				Items: []dto.UpdateApplicationItem{
					{ID: app.ID, Fields: map[string]any{
						"notes":     "Call back after 3pm",
						"plan_code": "premium",
					}},
				},
			}
			result, err := flow.UpdateBatch(context.Background(), req, admin.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, 1, result.UpdatedCount)

			saved, err := appRepo.ByID(context.Background(), app.ID)
			require.NoError(t, err)
			require.NotNil(t, saved.Notes)
			assert.Equal(t, "Call back after 3pm", *saved.Notes)
			assert.Equal(t, "premium", saved.PlanCode)
			// Untouched columns survive
			assert.Equal(t, originalEmail, saved.ApplicantEmail)
		})

		t.Run("NullClearsNullableField", func(t *testing.T) {
			app, err := fixtures.CreateTestApplication(models.ApplicationStatusSubmitted, 1)
			require.NoError(t, err)
			require.NoError(t, appRepo.UpdateFields(context.Background(), app.ID, map[string]any{"notes": "stale"}))

			req := &dto.BatchUpdateApplicationsRequest{
				Items: []dto.UpdateApplicationItem{
					{ID: app.ID, Fields: map[string]any{"notes": nil}},
				},
			}
			_, err = flow.UpdateBatch(context.Background(), req, admin.ID, metadata)
			require.NoError(t, err)

			saved, err := appRepo.ByID(context.Background(), app.ID)
			require.NoError(t, err)
			assert.Nil(t, saved.Notes)
		})

		t.Run("UnknownFieldIsRejectedBeforeDispatch", func(t *testing.T) {
			app, err := fixtures.CreateTestApplication(models.ApplicationStatusSubmitted, 1)
			require.NoError(t, err)

			req := &dto.BatchUpdateApplicationsRequest{
				Items: []dto.UpdateApplicationItem{
					{ID: app.ID, Fields: map[string]any{"requested_line_count": float64(10)}},
				},
			}
			_, err = flow.UpdateBatch(context.Background(), req, admin.ID, metadata)
			require.Error(t, err)
		})

		t.Run("MissingEntityFailsTheWholeBatch", func(t *testing.T) {
			app, err := fixtures.CreateTestApplication(models.ApplicationStatusSubmitted, 1)
			require.NoError(t, err)

			req := &dto.BatchUpdateApplicationsRequest{
				Items: []dto.UpdateApplicationItem{
					{ID: app.ID, Fields: map[string]any{"notes": "fine"}},
					{ID: 999999, Fields: map[string]any{"notes": "gone"}},
				},
			}
			_, err = flow.UpdateBatch(context.Background(), req, admin.ID, metadata)
			require.Error(t, err)
			assert.True(t, IsBatchCommitFailed(err))
		})

		return nil
	})
	require.NoError(t, err)
}
