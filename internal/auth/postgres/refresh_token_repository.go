// File: internal/auth/postgres/refresh_token_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/auth"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
)

// RefreshTokenRepository implements auth.RefreshTokenRepository on
// PostgreSQL. Rows are revoked, never deleted, during normal operation; the
// periodic sweep is the only deleter.
type RefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepository(pool *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *auth.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, jti, expires_at, revoked)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		token.UserID, token.TokenHash, token.JTI, token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique jti
			return fmt.Errorf("refresh token jti collision: %w", apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) FindByJTI(ctx context.Context, jti string) (*auth.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, jti, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE jti = $1
	`
	rt := &auth.RefreshToken{}
	err := r.pool.QueryRow(ctx, query, jti).Scan(
		&rt.ID, &rt.UserID, &rt.TokenHash, &rt.JTI, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token by jti: %w", err)
	}
	return rt, nil
}

func (r *RefreshTokenRepository) RevokeByJTI(ctx context.Context, jti string) error {
	result, err := r.pool.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE jti = $1`, jti)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND revoked = false`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens for user: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, revokedRetention time.Duration) (int64, error) {
	var total int64

	expired, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return total, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	total += expired.RowsAffected()

	cutoff := time.Now().Add(-revokedRetention)
	revoked, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE revoked = true AND created_at < $1`, cutoff)
	if err != nil {
		return total, fmt.Errorf("failed to delete revoked refresh tokens: %w", err)
	}
	total += revoked.RowsAffected()

	return total, nil
}

var _ auth.RefreshTokenRepository = (*RefreshTokenRepository)(nil)
