package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/skybook/flight-booking/internal/model"
	"github.com/skybook/flight-booking/internal/utils"
)

// ErrEmailExists is returned by Create when the email is already registered.
var ErrEmailExists = errors.New("email already exists")

// UserRepo stores accounts.  Emails are compared in normalized form:
// trimmed and lower-cased.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create stores an active account with a bcrypt hash of password and
// returns it as persisted.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{Email: normalizeEmail(email), PasswordHash: hash, Role: role, IsActive: true}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)", u.Email, u.PasswordHash, u.Role)
	if err = translate(err); err != nil {
		if IsDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u.ID = uint64(id)
	return u, nil
}

// GetByEmail looks an account up by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.get(ctx, "email = ?", normalizeEmail(email))
}

// GetByID looks an account up by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *UserRepo) get(ctx context.Context, cond string, arg any) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, role, is_active, created_at, updated_at FROM users WHERE "+cond, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, translate(err)
}
