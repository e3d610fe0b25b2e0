// internal/errors/errors.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Taxonomy of the matchmaking core. Services wrap these with %w so the
// HTTP layer can map them without knowing about store internals.
var (
	// ErrLocationMissing means the requester's profile has no usable
	// location; the caller should route to profile completion.
	ErrLocationMissing = errors.New("profile location missing")

	// ErrRequiresPremium gates premium features (undo, boost, liked-you).
	ErrRequiresPremium = errors.New("requires premium subscription")

	// ErrNotFound is a missing entity (profile, match, date session).
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is a caller mistake (bad ids, self-swipe, bad
	// feedback value).
	ErrInvalidInput = errors.New("invalid input")

	// ErrOperationFailed is a generic downstream failure. Retry policy
	// belongs to the caller.
	ErrOperationFailed = errors.New("operation failed")
)

// HTTPStatus converts core/infra errors into an HTTP status code.
// Keeps handlers clean by centralizing the mapping.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, ErrRequiresPremium):
		return http.StatusPaymentRequired

	case errors.Is(err, ErrLocationMissing):
		return http.StatusPreconditionFailed

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return 499 // client closed request

	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for an error. Internal failures
// collapse to a generic line so store details never leak to clients.
func Message(err error) string {
	if err == nil {
		return ""
	}
	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return ErrOperationFailed.Error()
	default:
		return err.Error()
	}
}
