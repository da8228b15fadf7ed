package model

import "time"

// Account roles stored in users.role.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
)

// User represents an application user record as stored in the
// `users` table.  Handlers define their own response types, so the
// struct carries no json tags.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role (CUSTOMER or STAFF)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// IsStaff reports whether the user may manage the catalogue.
func (u User) IsStaff() bool { return u.Role == RoleStaff }

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
