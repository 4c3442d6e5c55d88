package domain

import "errors"

// Core error taxonomy. Every usecase failure wraps exactly one of these so
// the delivery layer can map it to an HTTP status with errors.Is instead of
// matching on message text.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrValidation         = errors.New("validation failed")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrEmailTaken         = errors.New("email already registered")
)
