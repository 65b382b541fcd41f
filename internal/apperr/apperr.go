// Package apperr classifies failures so the HTTP layer can map them to a
// status code without inspecting SQL errors itself.
package apperr

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Sentinel kinds, matched with errors.Is at the HTTP boundary.
var (
	ErrInvalid  = errors.New("invalid input")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

// Invalid reports a validation failure (HTTP 400).
func Invalid(msg string) error { return &Error{kind: ErrInvalid, msg: msg} }

// NotFound reports a missing row (HTTP 404).
func NotFound(msg string) error { return &Error{kind: ErrNotFound, msg: msg} }

// Conflict reports a unique-key violation (HTTP 409).
func Conflict(msg string) error { return &Error{kind: ErrConflict, msg: msg} }

// IsDuplicateEntry reports whether err is the MySQL duplicate-key error.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
