package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/middleware"
	"github.com/hongminglow/taskflow-be/internal/models/dto"
	"github.com/hongminglow/taskflow-be/internal/service"
	"github.com/hongminglow/taskflow-be/internal/storage"
	"github.com/hongminglow/taskflow-be/internal/storage/memory"
)

type testAPI struct {
	mux    *http.ServeMux
	store  storage.Store
	tokens *auth.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithStore(t, memory.New())
}

func newTestAPIWithStore(t *testing.T, store storage.Store) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("handler-secret", "taskflow-test", time.Hour, 24*time.Hour)
	guard := middleware.NewGuard(tokens, logger)
	svc := service.NewAuthService(store, hasher, tokens, logger, nil)

	mux := http.NewServeMux()
	NewHealthHandler(time.Now(), nil).Register(mux)
	NewAuthHandler(svc, guard, nil, logger).Register(mux)
	NewUsersHandler(store, hasher, guard, logger).Register(mux)
	NewProjectsHandler(store, guard, logger).Register(mux)
	NewTasksHandler(store, guard, logger).Register(mux)
	return &testAPI{mux: mux, store: store, tokens: tokens}
}

// do sends body (marshalled unless it is a string) and returns the recorder.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) signup(t *testing.T, name, email, role string) dto.AuthResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out dto.AuthResponse
	decode(t, rec, &out)
	return out
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	require.Equal(t, rec.Code, body.Code)
	return body.Message
}
