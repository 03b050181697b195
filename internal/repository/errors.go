package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupRequestNotFound = errors.New("group request not found")
	ErrDuplicateRequest     = errors.New("group request already exists")
	ErrSessionNotFound      = errors.New("session not found")
	ErrResetTokenNotFound   = errors.New("reset token not found")
)

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

// duplicateKey reports whether err is a unique key violation and, if so,
// the offending key name as written in the server message.
func duplicateKey(err error) (string, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != mysqlDuplicateEntry {
		return "", false
	}
	// Duplicate entry 'x' for key 'users.users_email_unique'
	_, key, found := strings.Cut(myErr.Message, "for key ")
	if !found {
		return "", true
	}
	return strings.Trim(key, "'"), true
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	_, ok := duplicateKey(err)
	return ok
}
