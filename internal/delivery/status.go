package delivery

import (
	"errors"
	"net/http"

	"electromart/internal/domain"
)

// mapErrorToStatus translates domain errors into HTTP status codes. Handlers
// that render error pages use this; most form handlers flash and redirect
// instead.
func mapErrorToStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// userMessage strips the wrapped sentinel prefix off domain errors so flash
// messages read naturally, and hides internals for unexpected failures.
func userMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrEmptyMessage):
		return "Message cannot be empty."
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrEmailTaken):
		return err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
