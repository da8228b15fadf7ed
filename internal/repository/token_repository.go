package repository

import (
	"context"
	"database/sql"

	"github.com/skybook/flight-booking/internal/model"
)

// TokenRepo stores refresh tokens by hash.  A token is live while it is
// neither revoked nor past expires_at; both checks run in SQL against the
// server clock.
type TokenRepo struct {
	db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

const liveToken = "token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()"

// StoreRefresh records a newly issued token.
func (r *TokenRepo) StoreRefresh(ctx context.Context, t model.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)",
		t.UserID, t.TokenHash, t.ExpiresAt.UTC())
	return translate(err)
}

// ValidateRefresh returns the owner of a live token.  Unknown, revoked and
// expired tokens report ErrNotFound.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM refresh_tokens WHERE "+liveToken, tokenHash).Scan(&userID)
	return userID, translate(err)
}

// Revoke marks a live token as used.  It reports false when the token was
// not live, so two concurrent rotations of one token cannot both succeed.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE "+liveToken, tokenHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// RevokeAllForUser ends every session of a user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE user_id = ? AND revoked_at IS NULL",
		userID)
	return err
}
