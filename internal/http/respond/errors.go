package respond

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

const internalMessage = "internal error"

// Fail maps err onto a status code and a message that is safe to show. Known
// auth and validation failures keep their message; anything else is logged
// and reported as a generic 500.
func Fail(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, message := Classify(err)
	if status >= http.StatusInternalServerError {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("request failed", "error", err)
	}
	Error(w, status, message)
}

// Classify returns the status and client-facing message for err.
func Classify(err error) (int, string) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error()
	}
	for _, known := range []struct {
		target error
		status int
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrAuthenticationRequired, http.StatusUnauthorized},
		{auth.ErrTokenInvalid, http.StatusUnauthorized},
		{auth.ErrTokenExpired, http.StatusUnauthorized},
		{auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{auth.ErrForbidden, http.StatusForbidden},
		{auth.ErrUserNotFound, http.StatusNotFound},
		{auth.ErrEmailAlreadyRegistered, http.StatusConflict},
	} {
		if errors.Is(err, known.target) {
			return known.status, known.target.Error()
		}
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Status, ce.Message
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, storage.ErrInvalidReference):
		return http.StatusBadRequest, storage.ErrInvalidReference.Error()
	}
	return http.StatusInternalServerError, internalMessage
}

// ClientError carries an explicit status and message chosen by a handler.
type ClientError struct {
	Status  int
	Message string
}

func (e *ClientError) Error() string { return e.Message }

// NotFound builds a 404 with message.
func NotFound(message string) error {
	return &ClientError{Status: http.StatusNotFound, Message: message}
}

// BadRequest builds a 400 with message.
func BadRequest(message string) error {
	return &ClientError{Status: http.StatusBadRequest, Message: message}
}

// Conflict builds a 409 with message.
func Conflict(message string) error {
	return &ClientError{Status: http.StatusConflict, Message: message}
}
