package token

import "errors"

// Public, stable errors for callers.
var (
	// ErrInvalidToken covers every verification failure; callers must not learn which check failed.
	ErrInvalidToken = errors.New("invalid token")

	ErrConfig         = errors.New("invalid token config")
	ErrSecretMissing  = errors.New("token secret missing")
	ErrSecretTooShort = errors.New("token secret too short")
)
