// File: internal/auth/repository.go
package auth

import (
	"context"
	"time"
)

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *User) error
}

// RefreshTokenRepository persists refresh-token records keyed by jti.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByJTI(ctx context.Context, jti string) (*RefreshToken, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllForUser(ctx context.Context, userID int64) (int64, error)
	// DeleteExpired removes rows past expiry and revoked rows older than the
	// retention window. Safe to run concurrently with live traffic.
	DeleteExpired(ctx context.Context, revokedRetention time.Duration) (int64, error)
}
