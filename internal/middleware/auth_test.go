package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/http/respond"
	"github.com/hongminglow/taskflow-be/internal/models"
)

func newTestGuard() (*Guard, *auth.TokenManager) {
	tokens := auth.NewTokenManager("guard-secret", "taskflow-test", time.Hour, 24*time.Hour)
	return NewGuard(tokens, slog.New(slog.NewTextHandler(io.Discard, nil))), tokens
}

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	claim, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": claim.UserID, "role": string(claim.Role)})
}

func bearer(t *testing.T, tokens *auth.TokenManager, role models.Role) string {
	t.Helper()
	token, _, err := tokens.IssueAccess(auth.IdentityClaim{UserID: "u1", Email: "u1@example.com", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticatedRejectsMissingHeader(t *testing.T) {
	guard, _ := newTestGuard()
	rec := httptest.NewRecorder()
	guard.Authenticated(echoIdentity).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body respond.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "authentication required", body.Message)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestAuthenticatedRejectsRefreshToken(t *testing.T) {
	guard, tokens := newTestGuard()
	refresh, _, err := tokens.IssueRefresh(auth.IdentityClaim{UserID: "u1", Email: "u1@example.com", Role: models.RoleDeveloper})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	guard.Authenticated(echoIdentity).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatedStoresClaim(t *testing.T) {
	guard, tokens := newTestGuard()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", bearer(t, tokens, models.RoleDesigner))
	rec := httptest.NewRecorder()
	guard.Authenticated(echoIdentity).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"u1","role":"Designer"}`, rec.Body.String())
}

func TestWithRoles(t *testing.T) {
	guard, tokens := newTestGuard()
	handler := guard.WithRoles(echoIdentity, models.RoleProductManager)

	cases := []struct {
		name string
		role models.Role
		want int
	}{
		{"product manager", models.RoleProductManager, http.StatusOK},
		{"developer", models.RoleDeveloper, http.StatusForbidden},
		{"unknown", models.RoleUnknown, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/projects", nil)
			req.Header.Set("Authorization", bearer(t, tokens, tc.role))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestWithRolesRequiresAuthenticationFirst(t *testing.T) {
	guard, _ := newTestGuard()
	rec := httptest.NewRecorder()
	guard.WithRoles(echoIdentity, models.RoleProductManager).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/projects", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
