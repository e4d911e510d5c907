package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-with-at-least-32-characters"

func newTestTokenService(t *testing.T, accessTTL, refreshTTL, myPageTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(accessTTL, refreshTTL, myPageTTL, "simdesk-test", "simdesk-api", false, "", "", testSecretKey)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("RequiresSecretForHMAC", func(t *testing.T) {
		_, err := NewTokenService(time.Hour, time.Hour, time.Hour, "iss", "aud", false, "", "", "")
		assert.Error(t, err)
	})

	t.Run("RequiresKeyPairForRSA", func(t *testing.T) {
		_, err := NewTokenService(time.Hour, time.Hour, time.Hour, "iss", "aud", true, "", "", "")
		assert.Error(t, err)
	})
}

func TestAdminTokens(t *testing.T) {
	svc := newTestTokenService(t, time.Hour, 24*time.Hour, time.Hour)

	t.Run("GenerateAndValidate", func(t *testing.T) {
		accessToken, refreshToken, err := svc.GenerateAdminTokens(42)
		require.NoError(t, err)
		require.NotEmpty(t, accessToken)
		require.NotEmpty(t, refreshToken)
		assert.NotEqual(t, accessToken, refreshToken)

		claims, err := svc.ValidateAdminToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.AdminID)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))

		refreshClaims, err := svc.ValidateAdminToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refreshClaims.TokenType)
	})

	t.Run("RefreshIssuesNewPair", func(t *testing.T) {
		_, refreshToken, err := svc.GenerateAdminTokens(7)
		require.NoError(t, err)

		newAccess, newRefresh, err := svc.RefreshAdminToken(refreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, newAccess)
		require.NotEmpty(t, newRefresh)

		claims, err := svc.ValidateAdminToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.AdminID)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("RefreshRejectsAccessToken", func(t *testing.T) {
		accessToken, _, err := svc.GenerateAdminTokens(7)
		require.NoError(t, err)

		_, _, err = svc.RefreshAdminToken(accessToken)
		assert.Error(t, err)
	})

	t.Run("ValidateRejectsGarbage", func(t *testing.T) {
		_, err := svc.ValidateAdminToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("ValidateRejectsWrongSignature", func(t *testing.T) {
		other, err := NewTokenService(time.Hour, time.Hour, time.Hour, "simdesk-test", "simdesk-api", false, "", "", "a-completely-different-32-char-secret!!")
		require.NoError(t, err)

		token, _, err := other.GenerateAdminTokens(1)
		require.NoError(t, err)

		_, err = svc.ValidateAdminToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("ExpiredTokenIsRejected", func(t *testing.T) {
		expired := newTestTokenService(t, -time.Minute, -time.Minute, time.Hour)

		token, _, err := expired.GenerateAdminTokens(1)
		require.NoError(t, err)

		_, err = expired.ValidateAdminToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestMyPageTokens(t *testing.T) {
	svc := newTestTokenService(t, time.Hour, time.Hour, 30*24*time.Hour)

	t.Run("GenerateAndValidate", func(t *testing.T) {
		token, err := svc.GenerateMyPageToken("1e8b6a3e-0000-4000-8000-000000000001")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateMyPageToken(token)
		require.NoError(t, err)
		assert.Equal(t, "1e8b6a3e-0000-4000-8000-000000000001", claims.ApplicationUUID)
		assert.NotEmpty(t, claims.TokenID)
	})

	t.Run("AdminTokenIsNotAMyPageToken", func(t *testing.T) {
		accessToken, _, err := svc.GenerateAdminTokens(1)
		require.NoError(t, err)

		_, err = svc.ValidateMyPageToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("MyPageTokenIsNotAnAdminToken", func(t *testing.T) {
		token, err := svc.GenerateMyPageToken("1e8b6a3e-0000-4000-8000-000000000002")
		require.NoError(t, err)

		_, err = svc.ValidateMyPageToken(token)
		require.NoError(t, err)

		// Missing admin_id claim
		_, err = svc.ValidateAdminToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("ExpiredMyPageTokenIsRejected", func(t *testing.T) {
		expired := newTestTokenService(t, time.Hour, time.Hour, -time.Minute)

		token, err := expired.GenerateMyPageToken("1e8b6a3e-0000-4000-8000-000000000003")
		require.NoError(t, err)

		_, err = expired.ValidateMyPageToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}
