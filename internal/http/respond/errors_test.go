package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"credentials", auth.ErrInvalidCredentials, 401, "invalid email or password"},
		{"wrapped forbidden", fmt.Errorf("%w: role not permitted", auth.ErrForbidden), 403, auth.ErrForbidden.Error()},
		{"expired", auth.ErrTokenExpired, 401, "token expired"},
		{"user missing", auth.ErrUserNotFound, 404, "user not found"},
		{"duplicate email", auth.ErrEmailAlreadyRegistered, 409, "email already registered"},
		{"client error", NotFound("Project not found"), 404, "Project not found"},
		{"validation", validation.Errors{"email": errors.New("must be a valid email address")}, 400, "email: must be a valid email address."},
		{"bad reference", storage.ErrInvalidReference, 400, storage.ErrInvalidReference.Error()},
		{"storage failure", errors.New(`pq: relation "users" does not exist`), 500, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestFailHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, nil, fmt.Errorf("find user: %w", errors.New("connection refused to 10.0.0.5")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorBody{Code: 500, Message: "internal error"}, body)
}
