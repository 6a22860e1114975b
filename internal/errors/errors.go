package errors

import (
	"errors"
)

var (
	// ErrInvalidCredentials covers every unauthenticated outcome: unknown
	// email, wrong password, and an unparseable stored hash. Callers must not
	// be able to tell these apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingSigningSecret means token signing was attempted with empty
	// key material.
	ErrMissingSigningSecret = errors.New("signing secret is not set")
)
