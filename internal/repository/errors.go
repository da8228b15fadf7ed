// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// between failure scenarios without inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist or a
// referenced row is missing.  Handlers translate it into 404, or 400 when
// the id came from a request body.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with existing state: a
// duplicate unique key or a row that is still referenced.  Handlers
// translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers handled by translate.
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

// ReferenceError reports a foreign key that points at a missing row.  It
// unwraps to ErrNotFound.
type ReferenceError struct {
	Constraint string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("referenced row missing (%s)", e.Constraint)
}

func (e *ReferenceError) Unwrap() error { return ErrNotFound }

// DuplicateError reports a unique key violation.  It unwraps to ErrConflict.
type DuplicateError struct {
	Key string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate entry (%s)", e.Key)
}

func (e *DuplicateError) Unwrap() error { return ErrConflict }

var (
	constraintRe = regexp.MustCompile("CONSTRAINT `([^`]+)`")
	keyRe        = regexp.MustCompile(`for key '([^']+)'`)
)

// translate maps driver errors onto the package sentinels.  Unknown errors
// pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlDuplicateEntry:
		key := ""
		if m := keyRe.FindStringSubmatch(me.Message); m != nil {
			key = m[1]
		}
		return &DuplicateError{Key: key}
	case mysqlNoReferencedRow, mysqlNoReferencedRow2:
		name := ""
		if m := constraintRe.FindStringSubmatch(me.Message); m != nil {
			name = m[1]
		}
		return &ReferenceError{Constraint: name}
	case mysqlRowIsReferenced, mysqlRowIsReferenced2:
		return fmt.Errorf("row is still referenced: %w", ErrConflict)
	}
	return err
}

// IsDuplicate reports whether err is a unique key violation.
func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}
