// File: internal/auth/token/token_test.go
package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
)

func newTestManager(accessTTL time.Duration) *Manager {
	return NewManager(config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "auth-service-test",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)

	signed, err := m.IssueAccessToken(42, "ana@example.com")
	require.NoError(t, err)

	claims, err := m.ParseAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.Equal(t, "auth-service-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenClaims(t *testing.T) {
	m := newTestManager(time.Hour)

	signed, claims, err := m.IssueRefreshToken(42, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.TokenType)
	assert.NotEmpty(t, claims.ID)

	parsed, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), parsed.ExpiresAt.Time, time.Minute)
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	m := newTestManager(time.Hour)

	signed, _, err := m.IssueRefreshToken(42, "ana@example.com")
	require.NoError(t, err)

	_, err = m.ParseAccess(signed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute)

	signed, err := m.IssueAccessToken(42, "ana@example.com")
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour)
	other := NewManager(config.JWTConfig{
		Secret:         "different-secret",
		AccessTokenTTL: time.Hour,
	})

	signed, err := other.IssueAccessToken(42, "ana@example.com")
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := newTestManager(time.Hour)

	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestDigest(t *testing.T) {
	a := Digest("token-one")
	b := Digest("token-two")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Digest("token-one"))
}
