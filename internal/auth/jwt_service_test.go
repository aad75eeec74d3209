package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galeries/galeries-server/database/models"
)

func newTestJWTService() *JWTService {
	return NewJWTServiceWithConfig(TokenConfig{
		Secret:                []byte("test-secret-key-at-least-32-bytes-long"),
		ExpiresIn:             time.Hour,
		ConfirmExpiresIn:      time.Hour,
		NotificationExpiresIn: time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, expiry, err := svc.GenerateAccessToken(42, models.RoleModerator, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiry.After(time.Now()))

	claims, err := svc.ExtractClaims(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleModerator, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestConfirmTokenCarriesConfirmVersion(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.GenerateConfirmToken(7, 5)
	require.NoError(t, err)

	claims, err := svc.ExtractClaims(token, TokenTypeConfirm)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, 5, claims.TokenVersion)
	assert.Empty(t, claims.Role)
}

func TestExtractClaimsRejectsWrongType(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.GenerateConfirmToken(1, 0)
	require.NoError(t, err)

	_, err = svc.ExtractClaims(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	token, _, err = svc.GenerateNotificationToken(1)
	require.NoError(t, err)

	_, err = svc.ExtractClaims(token, TokenTypeConfirm)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseTokenRejectsInvalidSignature(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTServiceWithConfig(TokenConfig{
		Secret:    []byte("another-secret-key-also-32-bytes-min"),
		ExpiresIn: time.Hour,
	})

	token, _, err := other.GenerateAccessToken(1, models.RoleUser, 0)
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := NewJWTServiceWithConfig(TokenConfig{
		Secret:    []byte("test-secret-key-at-least-32-bytes-long"),
		ExpiresIn: -time.Minute,
	})

	token, _, err := svc.GenerateAccessToken(1, models.RoleUser, 0)
	require.NoError(t, err)

	_, err = svc.ExtractClaims(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
