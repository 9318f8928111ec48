// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/auth/token"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
)

// dummyHash keeps password comparison constant-work when the email is
// unknown, so lookup failures are not distinguishable by timing.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0X5lQz9cX0eXAMPLEdUmmyHASHa")

// Service implements login, refresh-token rotation and logout on top of the
// token manager and the persisted refresh-token records.
type Service struct {
	users  UserRepository
	tokens RefreshTokenRepository
	jwt    *token.Manager
	logger *zap.Logger
}

func NewService(users UserRepository, tokens RefreshTokenRepository, jwt *token.Manager, logger *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, jwt: jwt, logger: logger}
}

// Register creates a new user. Duplicate emails are rejected.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (UserDTO, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return UserDTO{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return UserDTO{}, apperrors.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PasswordHash:    string(hash),
		ShippingAddress: req.ShippingAddress,
		BirthDate:       req.BirthDate,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return UserDTO{}, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user.ToDTO(), nil
}

// Login authenticates by email and password. On success every refresh token
// previously valid for the user is revoked (single active session lineage)
// before a fresh access/refresh pair is issued.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return AuthResponse{}, apperrors.ErrInvalidCredentials
		}
		return AuthResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("invalid password attempt", zap.Int64("user_id", user.ID))
		return AuthResponse{}, apperrors.ErrInvalidCredentials
	}

	if _, err := s.tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		return AuthResponse{}, fmt.Errorf("failed to revoke prior sessions: %w", err)
	}

	resp, err := s.issuePair(ctx, user)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("login successful", zap.Int64("user_id", user.ID))
	return resp, nil
}

// Refresh redeems a refresh token for a new access/refresh pair. Tokens are
// one-time use: the presented token's record is revoked before the new pair
// is persisted, so replaying it fails with ErrTokenExpiredOrRevoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResponse, error) {
	claims, err := s.jwt.Parse(refreshToken)
	if err != nil {
		return AuthResponse{}, apperrors.ErrInvalidToken
	}
	if claims.TokenType != token.TypeRefresh {
		return AuthResponse{}, apperrors.ErrInvalidToken
	}

	stored, err := s.tokens.FindByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return AuthResponse{}, apperrors.ErrTokenExpiredOrRevoked
		}
		// Lookup failures are not leaked to the caller; refresh stays 401-class.
		s.logger.Error("refresh token lookup failed", zap.Error(err))
		return AuthResponse{}, apperrors.ErrInvalidToken
	}

	if stored.TokenHash != token.Digest(refreshToken) {
		return AuthResponse{}, apperrors.ErrInvalidToken
	}

	if !stored.IsValid() {
		// Reuse of a rotated or expired token: make sure the record stays dead.
		_ = s.tokens.RevokeByJTI(ctx, claims.ID)
		return AuthResponse{}, apperrors.ErrTokenExpiredOrRevoked
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return AuthResponse{}, apperrors.ErrInvalidToken
	}

	if err := s.tokens.RevokeByJTI(ctx, claims.ID); err != nil {
		s.logger.Error("refresh token rotation failed", zap.Error(err))
		return AuthResponse{}, apperrors.ErrInvalidToken
	}

	resp, err := s.issuePair(ctx, user)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("token refresh successful", zap.Int64("user_id", user.ID))
	return resp, nil
}

// Logout revokes all currently valid refresh tokens for the user. Idempotent.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	revoked, err := s.tokens.RevokeAllForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	s.logger.Info("logout", zap.Int64("user_id", userID), zap.Int64("revoked", revoked))
	return nil
}

// GetUser returns the user profile.
func (s *Service) GetUser(ctx context.Context, id int64) (UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}
	return user.ToDTO(), nil
}

// UpdateUser applies a partial profile update, re-checking email uniqueness.
func (s *Service) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return UserDTO{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return UserDTO{}, apperrors.ErrEmailExists
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.ShippingAddress != nil {
		user.ShippingAddress = *req.ShippingAddress
	}
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}

	if err := s.users.Update(ctx, user); err != nil {
		return UserDTO{}, err
	}
	return user.ToDTO(), nil
}

// SweepExpiredTokens is the periodic cleanup pass for the refresh-token
// table.
func (s *Service) SweepExpiredTokens(retention time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		deleted, err := s.tokens.DeleteExpired(ctx, retention)
		if err != nil {
			return err
		}
		if deleted > 0 {
			s.logger.Info("purged refresh tokens", zap.Int64("deleted", deleted))
		}
		return nil
	}
}

func (s *Service) issuePair(ctx context.Context, user *User) (AuthResponse, error) {
	accessToken, err := s.jwt.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return AuthResponse{}, err
	}

	refreshToken, claims, err := s.jwt.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return AuthResponse{}, err
	}

	record := &RefreshToken{
		UserID:    user.ID,
		TokenHash: token.Digest(refreshToken),
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return AuthResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwt.AccessTTL().Seconds()),
		User:         user.ToDTO(),
	}, nil
}
