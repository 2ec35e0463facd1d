package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound indicates a requested record, or a record it refers to, does not exist.
	ErrNotFound = errors.New("database: not found")
	// ErrDuplicateKey indicates a primary or unique key collision.
	ErrDuplicateKey = errors.New("database: duplicate key")
	// ErrProtected indicates an operation on a record the system reserves, such as the Year schema.
	ErrProtected = errors.New("database: protected")
	// ErrMalformedInput indicates input that fails validation before reaching storage.
	ErrMalformedInput = errors.New("database: malformed input")
	// ErrStorage matches every StorageError.
	ErrStorage = errors.New("database: storage failure")
)

// StorageError wraps a driver failure that has no more specific meaning.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// TranslateError maps driver errors onto the package sentinels. Errors that
// already carry a sentinel pass through with op prepended.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{ErrNotFound, ErrDuplicateKey, ErrProtected, ErrMalformedInput, ErrStorage} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case sqlite3.SQLITE_CONSTRAINT:
			msg := sqliteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE constraint failed"):
				return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
			case strings.Contains(msg, "FOREIGN KEY constraint failed"):
				return fmt.Errorf("%s: %w", op, ErrNotFound)
			}
		}
	}

	return &StorageError{Op: op, Err: err}
}
