package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrItemNotAvailable  = errors.New("inventory item is not available")
	ErrDuplicatePhone    = errors.New("client with this phone already exists")
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrUserNotFound      = errors.New("user not found")
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
