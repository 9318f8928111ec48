// File: internal/auth/token/token.go
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the claim set carried by both access and refresh tokens.
// Subject is the user email; the jti identifies refresh tokens in storage.
type Claims struct {
	UserID    int64  `json:"userId"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 bearer tokens.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(cfg config.JWTConfig) *Manager {
	return &Manager{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

// AccessTTL is the lifetime of issued access tokens.
func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL is the lifetime of issued refresh tokens.
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccessToken signs a short-lived access token. Access tokens are
// stateless: nothing is persisted and revocation is by expiry only.
func (m *Manager) IssueAccessToken(userID int64, email string) (string, error) {
	t, _, err := m.issue(userID, email, TypeAccess, m.accessTTL)
	return t, err
}

// IssueRefreshToken signs a refresh token and returns its claims so the
// caller can persist the jti and expiry alongside the token digest.
func (m *Manager) IssueRefreshToken(userID int64, email string) (string, *Claims, error) {
	return m.issue(userID, email, TypeRefresh, m.refreshTTL)
}

func (m *Manager) issue(userID int64, email, tokenType string, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.issuer,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, claims, nil
}

// Parse verifies the signature and expiry of a token and returns its claims.
// Any parse or verification failure is normalized to ErrInvalidToken so no
// library detail leaks to callers.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// ParseAccess verifies an access token, rejecting refresh tokens presented
// in its place.
func (m *Manager) ParseAccess(tokenString string) (*Claims, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeAccess {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// Digest is the opaque SHA-256 digest under which refresh tokens are stored;
// the raw token value never reaches the database.
func Digest(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
