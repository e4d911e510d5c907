package businessflow

import (
	"context"
	"testing"

	"github.com/oroshi-mobile/simdesk/app/dto"
	"github.com/oroshi-mobile/simdesk/app/services"
	"github.com/oroshi-mobile/simdesk/repository"
	testingutil "github.com/oroshi-mobile/simdesk/testing"
	"github.com/oroshi-mobile/simdesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCaptcha lets login tests bypass the rotation puzzle deterministically
type stubCaptcha struct {
	valid bool
}

func (s *stubCaptcha) GenerateRotate(ctx context.Context) (*services.RotateChallenge, error) {
	return &services.RotateChallenge{ID: "stub-challenge"}, nil
}

func (s *stubCaptcha) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	return s.valid
}

func TestAdminLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		adminRepo := repository.NewAdminRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		tokenService := newFlowTokenService(t)
		flow := NewAdminAuthFlow(adminRepo, auditRepo, tokenService, &stubCaptcha{valid: true})
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("backoffice", "SecurePass123!")
		require.NoError(t, err)

		t.Run("SuccessfulLogin", func(t *testing.T) {
			result, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "backoffice",
				Password:     "SecurePass123!",
				CaptchaID:    "stub-challenge",
				CaptchaAngle: 137,
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
			assert.Equal(t, "Bearer", result.TokenType)
			assert.Equal(t, admin.ID, result.Admin.ID)

			claims, err := tokenService.ValidateAdminToken(result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, admin.ID, claims.AdminID)

			// Login refreshes the last-login timestamp
			saved, err := adminRepo.ByID(context.Background(), admin.ID)
			require.NoError(t, err)
			assert.NotNil(t, saved.LastLoginAt)
		})

		t.Run("WrongPasswordIsRejected", func(t *testing.T) {
			_, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "backoffice",
				Password:     "WrongPass123!",
				CaptchaID:    "stub-challenge",
				CaptchaAngle: 137,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsIncorrectPassword(err))
		})

		t.Run("UnknownUsernameIsRejected", func(t *testing.T) {
			_, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "nobody",
				Password:     "SecurePass123!",
				CaptchaID:    "stub-challenge",
				CaptchaAngle: 137,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsAdminNotFound(err))
		})

		t.Run("InactiveAccountCannotLogin", func(t *testing.T) {
			dormant, err := fixtures.CreateTestAdmin("dormant", "SecurePass123!")
			require.NoError(t, err)
			require.NoError(t, adminRepo.UpdateFields(context.Background(), dormant.ID,
				map[string]any{"is_active": false}))

			_, err = flow.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "dormant",
				Password:     "SecurePass123!",
				CaptchaID:    "stub-challenge",
				CaptchaAngle: 137,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsAdminInactive(err))
		})

		t.Run("FailedCaptchaBlocksCredentialCheck", func(t *testing.T) {
			blocked := NewAdminAuthFlow(adminRepo, auditRepo, tokenService, &stubCaptcha{valid: false})

			_, err := blocked.Login(context.Background(), &dto.AdminLoginRequest{
				Username:     "backoffice",
				Password:     "SecurePass123!",
				CaptchaID:    "stub-challenge",
				CaptchaAngle: 137,
			}, metadata)
			require.Error(t, err)
			assert.True(t, IsCaptchaFailed(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminRefresh(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		adminRepo := repository.NewAdminRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		tokenService := newFlowTokenService(t)
		flow := NewAdminAuthFlow(adminRepo, auditRepo, tokenService, &stubCaptcha{valid: true})
		metadata := NewClientMetadata("127.0.0.1", "go-test")

		admin, err := fixtures.CreateTestAdmin("backoffice", "SecurePass123!")
		require.NoError(t, err)

		t.Run("RefreshIssuesNewTokenPair", func(t *testing.T) {
			_, refreshToken, err := tokenService.GenerateAdminTokens(admin.ID)
			require.NoError(t, err)

			result, err := flow.Refresh(context.Background(), &dto.RefreshTokenRequest{
				RefreshToken: refreshToken,
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, result.AccessToken)
			assert.Equal(t, admin.ID, result.Admin.ID)
			assert.True(t, utils.IsTrue(result.Admin.IsActive))
		})

		t.Run("AccessTokenCannotRefresh", func(t *testing.T) {
			accessToken, _, err := tokenService.GenerateAdminTokens(admin.ID)
			require.NoError(t, err)

			_, err = flow.Refresh(context.Background(), &dto.RefreshTokenRequest{
				RefreshToken: accessToken,
			}, metadata)
			require.Error(t, err)
		})

		t.Run("MissingTokenIsRejected", func(t *testing.T) {
			_, err := flow.Refresh(context.Background(), &dto.RefreshTokenRequest{}, metadata)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
