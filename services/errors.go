package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds. Every domain error wraps exactly one of these so transports
// can classify it with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error { return &domainError{kind: kind, msg: msg} }

var (
	ErrUserNotFound         = newError(ErrNotFound, "User not found")
	ErrRecordNotFound       = newError(ErrNotFound, "Record not found")
	ErrCannotFollowSelf     = newError(ErrInvalidOperation, "Cannot follow yourself")
	ErrAlreadyFollowing     = newError(ErrInvalidOperation, "Already following")
	ErrRequestAlreadySent   = newError(ErrInvalidOperation, "Follow request already sent")
	ErrNotFollowing         = newError(ErrInvalidOperation, "Not following this user")
	ErrInvalidFollowRequest = newError(ErrInvalidOperation, "Invalid follow request")
	ErrNotAFollower         = newError(ErrInvalidOperation, "User is not following you")
	ErrInvalidDate          = newError(ErrInvalidInput, "Invalid date")
	ErrInvalidMetric        = newError(ErrInvalidInput, "metric must be 'weight' or 'reps'")
	ErrInvalidUsername      = newError(ErrInvalidInput, "Username must be 3-20 characters of a-z, 0-9 or _")
	ErrReservedUsername     = newError(ErrInvalidInput, "Username is reserved")
	ErrUsernameTaken        = newError(ErrInvalidOperation, "Username already taken")
	ErrEmailTaken           = newError(ErrInvalidOperation, "Email already exists")
	ErrFileTooLarge         = newError(ErrInvalidInput, "File exceeds 2MB")
	ErrNotAnImage           = newError(ErrInvalidInput, "Only image files allowed")
	ErrImageRejected        = newError(ErrInvalidInput, "Image rejected by moderation")
	ErrInvalidCredentials   = newError(ErrUnauthorized, "Invalid credentials")
	ErrSocialAccount        = newError(ErrUnauthorized, "Use Google/GitHub login")
)

// InvalidInput wraps a validation message as an ErrInvalidInput.
func InvalidInput(format string, args ...any) error {
	return newError(ErrInvalidInput, fmt.Sprintf(format, args...))
}

// isUniqueViolation reports whether err came from a unique constraint,
// whichever driver produced it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
