package services

import (
	"errors"
)

// Failure taxonomy shared by the services. Handlers translate these to HTTP
// responses; none of them is retried inside the services themselves.
var (
	ErrIdeaNotFound       = errors.New("idea not found")
	ErrForbidden          = errors.New("caller does not own this idea")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email address not confirmed")
	ErrMalformedToken     = errors.New("confirmation token is malformed")
	ErrInvalidToken       = errors.New("confirmation token is invalid or expired")
	ErrPersistence        = errors.New("persistence failure")
)
