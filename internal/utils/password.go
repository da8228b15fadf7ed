package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password accepted for new accounts.
const MinPasswordLen = 5

// ErrWeakPassword is returned for passwords shorter than MinPasswordLen or
// longer than bcrypt can hash.
var ErrWeakPassword = errors.New("weak password")

// CheckPassword enforces the length policy for new passwords.
func CheckPassword(plain string) error {
	switch {
	case len(plain) < MinPasswordLen:
		return fmt.Errorf("%w: at least %d characters required", ErrWeakPassword, MinPasswordLen)
	case len(plain) > 72:
		return fmt.Errorf("%w: at most 72 bytes allowed", ErrWeakPassword)
	}
	return nil
}

// HashPassword checks plain against the policy and hashes it.  Costs
// outside bcrypt's range use bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if err := CheckPassword(plain); err != nil {
		return "", err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(hash), err
}

// VerifyPassword reports whether plain matches a stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
