package auth

import "errors"

// Caller-facing failures. Messages are stable and safe to return verbatim.
var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrTokenInvalid           = errors.New("invalid token")
	ErrTokenExpired           = errors.New("token expired")
	ErrInvalidRefreshToken    = errors.New("invalid or expired refresh token")
	ErrForbidden              = errors.New("forbidden: insufficient permissions")
	ErrUserNotFound           = errors.New("user not found")
)

// ErrMalformedHash signals a stored password hash that bcrypt cannot read.
// It indicates data corruption and is never returned to clients.
var ErrMalformedHash = errors.New("malformed password hash")

// ErrEmptyPassword is returned when hashing an empty plaintext.
var ErrEmptyPassword = errors.New("password is empty")
