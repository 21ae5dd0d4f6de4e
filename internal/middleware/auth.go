package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/http/respond"
	"github.com/hongminglow/taskflow-be/internal/models"
)

// IdentityExtractor turns an Authorization header into a verified claim.
type IdentityExtractor interface {
	Extract(header string) (auth.IdentityClaim, error)
}

// Guard protects handlers with authentication and, optionally, a role check.
type Guard struct {
	extractor IdentityExtractor
	logger    *slog.Logger
}

// NewGuard builds a Guard that verifies tokens with extractor.
func NewGuard(extractor IdentityExtractor, logger *slog.Logger) *Guard {
	return &Guard{extractor: extractor, logger: logger}
}

// Authenticated admits any request carrying a valid access token and stores
// the claim in the request context.
func (g *Guard) Authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, err := g.extractor.Extract(r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="taskflow"`)
			respond.Fail(w, g.logger, err)
			return
		}
		if err := auth.RequireAuthenticated(&claim); err != nil {
			respond.Fail(w, g.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), claim)))
	})
}

// WithRoles admits authenticated requests whose role is in allowed.
func (g *Guard) WithRoles(next http.HandlerFunc, allowed ...models.Role) http.Handler {
	return g.Authenticated(func(w http.ResponseWriter, r *http.Request) {
		claim, _ := auth.IdentityFromContext(r.Context())
		if err := auth.Authorize(claim.Role, allowed).Err(); err != nil {
			g.logger.Info("role check denied", "user_id", claim.UserID, "role", claim.Role, "path", r.URL.Path)
			respond.Fail(w, g.logger, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
