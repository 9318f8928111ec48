// File: internal/auth/service_test.go
package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/auth/token"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
)

// mockUserRepo is an in-memory UserRepository.
type mockUserRepo struct {
	users  map[int64]*User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[int64]*User{}, nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperrors.ErrNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// mockTokenRepo is an in-memory RefreshTokenRepository keyed by jti.
type mockTokenRepo struct {
	tokens map[string]*RefreshToken
	nextID int64
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: map[string]*RefreshToken{}, nextID: 1}
}

func (m *mockTokenRepo) Create(_ context.Context, t *RefreshToken) error {
	if _, ok := m.tokens[t.JTI]; ok {
		return apperrors.ErrAlreadyExists
	}
	t.ID = m.nextID
	m.nextID++
	t.CreatedAt = time.Now()
	copied := *t
	m.tokens[t.JTI] = &copied
	return nil
}

func (m *mockTokenRepo) FindByJTI(_ context.Context, jti string) (*RefreshToken, error) {
	t, ok := m.tokens[jti]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTokenRepo) RevokeByJTI(_ context.Context, jti string) error {
	t, ok := m.tokens[jti]
	if !ok {
		return apperrors.ErrNotFound
	}
	t.Revoked = true
	return nil
}

func (m *mockTokenRepo) RevokeAllForUser(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, t := range m.tokens {
		if t.UserID == userID && !t.Revoked {
			t.Revoked = true
			count++
		}
	}
	return count, nil
}

func (m *mockTokenRepo) DeleteExpired(_ context.Context, retention time.Duration) (int64, error) {
	var count int64
	cutoff := time.Now().Add(-retention)
	for jti, t := range m.tokens {
		if t.IsExpired() || (t.Revoked && t.CreatedAt.Before(cutoff)) {
			delete(m.tokens, jti)
			count++
		}
	}
	return count, nil
}

// failingTokenRepo injects infrastructure errors into selected calls.
type failingTokenRepo struct {
	*mockTokenRepo
	findErr   error
	revokeErr error
}

func (f *failingTokenRepo) FindByJTI(ctx context.Context, jti string) (*RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.mockTokenRepo.FindByJTI(ctx, jti)
}

func (f *failingTokenRepo) RevokeByJTI(ctx context.Context, jti string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	return f.mockTokenRepo.RevokeByJTI(ctx, jti)
}

func newTestService(t *testing.T) (*Service, *mockUserRepo, *mockTokenRepo) {
	t.Helper()
	users := newMockUserRepo()
	tokens := newMockTokenRepo()
	jwtManager := token.NewManager(config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "auth-service-test",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
	return NewService(users, tokens, jwtManager, zap.NewNop()), users, tokens
}

func registerUser(t *testing.T, svc *Service) UserDTO {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ana",
		LastName:  "Lopez",
		Email:     "ana@example.com",
		Password:  "secret-password",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerUser(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Otra",
		LastName:  "Persona",
		Email:     "ana@example.com",
		Password:  "another-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users, _ := newTestService(t)
	registered := registerUser(t, svc)

	stored, err := users.FindByID(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret-password")))
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerUser(t, svc)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "ana@example.com", resp.User.Email)
}

func TestLoginBadPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerUser(t, svc)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginRevokesPriorSessions(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerUser(t, svc)
	ctx := context.Background()
	creds := LoginRequest{Email: "ana@example.com", Password: "secret-password"}

	first, err := svc.Login(ctx, creds)
	require.NoError(t, err)

	_, err = svc.Login(ctx, creds)
	require.NoError(t, err)

	// The refresh token from session one must be dead after login two.
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpiredOrRevoked)
}

func TestRefreshRotation(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerUser(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "secret-password"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Replaying the spent token must fail; the rotated one must work.
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpiredOrRevoked)

	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerUser(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "secret-password"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshStorageFailureYieldsInvalidToken(t *testing.T) {
	users := newMockUserRepo()
	tokens := &failingTokenRepo{mockTokenRepo: newMockTokenRepo()}
	jwtManager := token.NewManager(config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "auth-service-test",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})
	svc := NewService(users, tokens, jwtManager, zap.NewNop())
	registerUser(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "secret-password"})
	require.NoError(t, err)

	// Storage errors during refresh stay 401-class; no detail reaches the caller.
	tokens.findErr = assert.AnError
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	tokens.findErr = nil
	tokens.revokeErr = assert.AnError
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogoutRevokesTokens(t *testing.T) {
	svc, _, _ := newTestService(t)
	registered := registerUser(t, svc)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "secret-password"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, registered.ID))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpiredOrRevoked)

	// Logout with nothing to revoke is still fine.
	assert.NoError(t, svc.Logout(ctx, registered.ID))
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _, _ := newTestService(t)
	registered := registerUser(t, svc)
	ctx := context.Background()

	newName := "Ana Maria"
	updated, err := svc.UpdateUser(ctx, registered.ID, UpdateUserRequest{FirstName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.FirstName)
	assert.Equal(t, "Lopez", updated.LastName)
	assert.Equal(t, "ana@example.com", updated.Email)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	registered := registerUser(t, svc)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		FirstName: "Beto",
		LastName:  "Perez",
		Email:     "beto@example.com",
		Password:  "secret-password",
	})
	require.NoError(t, err)

	taken := "beto@example.com"
	_, err = svc.UpdateUser(ctx, registered.ID, UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)
}

func TestSweepExpiredTokens(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	tokens.tokens["expired"] = &RefreshToken{
		ID: 1, UserID: 1, JTI: "expired",
		ExpiresAt: time.Now().Add(-time.Hour),
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	tokens.tokens["live"] = &RefreshToken{
		ID: 2, UserID: 1, JTI: "live",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}

	require.NoError(t, svc.SweepExpiredTokens(24*time.Hour)(ctx))
	_, err := tokens.FindByJTI(ctx, "expired")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = tokens.FindByJTI(ctx, "live")
	assert.NoError(t, err)
}
