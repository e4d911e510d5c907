package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/app/services"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	testingutil "github.com/oroshi-mobile/simdesk/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlowTokenService(t *testing.T) services.TokenService {
	t.Helper()
	tokenService, err := services.NewTokenService(
		time.Hour, 24*time.Hour, 30*24*time.Hour,
		"simdesk-test", "simdesk-api", false, "", "",
		"test-secret-key-with-at-least-32-characters",
	)
	require.NoError(t, err)
	return tokenService
}

func TestSubmitApplication(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		appRepo := repository.NewApplicationRepository(testDB.DB)
		lineRepo := repository.NewLineRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		tokenService := newFlowTokenService(t)
		notificationService := services.NewNotificationService(
			services.NewMockSMSProvider(),
			services.NewMockEmailProvider(),
		)

		flow := NewApplicationFlow(appRepo, lineRepo, auditRepo, tokenService, notificationService)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		t.Run("SuccessfulSubmission", func(t *testing.T) {
			req := &dto.SubmitApplicationRequest{
				ApplicantName:      "  Taro   Yamada ",
				ApplicantEmail:     "Taro.Yamada@Example.com",
				ApplicantMobile:    "090-1234-5678",
				PlanCode:           "standard",
				RequestedLineCount: 3,
			}

			result, err := flow.Submit(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.MyPageToken)
			assert.Equal(t, "Taro Yamada", result.Application.ApplicantName)
			assert.Equal(t, "taro.yamada@example.com", result.Application.ApplicantEmail)
			assert.Equal(t, string(models.ApplicationStatusSubmitted), result.Application.Status)

			// The mypage token is scoped to exactly this application
			claims, err := tokenService.ValidateMyPageToken(result.MyPageToken)
			require.NoError(t, err)
			assert.Equal(t, result.Application.UUID, claims.ApplicationUUID)

			// No lines exist before the application is accepted
			saved, err := appRepo.ByUUID(context.Background(), result.Application.UUID)
			require.NoError(t, err)
			require.NotNil(t, saved)
			count, err := lineRepo.Count(context.Background(), models.LineFilter{ApplicationID: &saved.ID})
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("NameIsRequired", func(t *testing.T) {
			req := &dto.SubmitApplicationRequest{
				ApplicantName:      "   ",
				ApplicantEmail:     "someone@example.com",
				ApplicantMobile:    "09012345678",
				PlanCode:           "standard",
				RequestedLineCount: 1,
			}
			_, err := flow.Submit(context.Background(), req, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrApplicantNameRequired)
		})

		t.Run("LineCountOutOfRange", func(t *testing.T) {
			req := &dto.SubmitApplicationRequest{
				ApplicantName:      "Hanako Sato",
				ApplicantEmail:     "hanako@example.com",
				ApplicantMobile:    "09012345678",
				PlanCode:           "standard",
				RequestedLineCount: MaxRequestedLines + 1,
			}
			_, err := flow.Submit(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, IsLineCountOutOfRange(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestMyPage(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		appRepo := repository.NewApplicationRepository(testDB.DB)
		lineRepo := repository.NewLineRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		notificationService := services.NewNotificationService(
			services.NewMockSMSProvider(),
			services.NewMockEmailProvider(),
		)
		flow := NewApplicationFlow(appRepo, lineRepo, auditRepo, newFlowTokenService(t), notificationService)
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		app, err := fixtures.CreateTestApplication(models.ApplicationStatusAccepted, 2)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLine(app.ID, models.LineStatusNotOpened)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLineWithICCID(app.ID, testingutil.RandomICCID())
		require.NoError(t, err)

		t.Run("ReturnsOwnApplicationAndLines", func(t *testing.T) {
			result, err := flow.MyPage(context.Background(), app.UUID.String(), metadata)
			require.NoError(t, err)
			assert.Equal(t, app.UUID.String(), result.Application.UUID)
			assert.Len(t, result.Lines, 2)
		})

		t.Run("UnknownUUIDIsNotFound", func(t *testing.T) {
			_, err := flow.MyPage(context.Background(), "00000000-0000-4000-8000-000000000000", metadata)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
