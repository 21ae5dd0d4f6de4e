package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/http/respond"
	"github.com/hongminglow/taskflow-be/internal/middleware"
	"github.com/hongminglow/taskflow-be/internal/models"
	"github.com/hongminglow/taskflow-be/internal/models/dto"
	"github.com/hongminglow/taskflow-be/internal/service"
)

// AuthHandler owns the /api/auth endpoints.
type AuthHandler struct {
	svc    *service.AuthService
	guard  *middleware.Guard
	limit  func(http.Handler) http.Handler
	logger *slog.Logger
}

// NewAuthHandler constructs the handler. limit wraps the credential
// endpoints and may be nil.
func NewAuthHandler(svc *service.AuthService, guard *middleware.Guard, limit func(http.Handler) http.Handler, logger *slog.Logger) *AuthHandler {
	if limit == nil {
		limit = func(h http.Handler) http.Handler { return h }
	}
	return &AuthHandler{svc: svc, guard: guard, limit: limit, logger: logger}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.Handle("POST /api/auth/login", h.limit(http.HandlerFunc(h.handleLogin)))
	mux.Handle("POST /api/auth/signup", h.limit(http.HandlerFunc(h.handleSignup)))
	mux.Handle("POST /api/auth/refresh", h.limit(http.HandlerFunc(h.handleRefresh)))
	mux.Handle("GET /api/auth/me", h.guard.Authenticated(h.handleMe))
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	res, err := h.svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.ParseRole(req.Role),
	})
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, authResponse(res))
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	res, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, authResponse(res))
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	claim, _ := auth.IdentityFromContext(r.Context())
	me, err := h.svc.Me(r.Context(), claim)
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, me)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Logout(r.Context())
	respond.JSON(w, http.StatusOK, dto.SuccessResponse{Success: res.Success, Message: res.Message})
}

func authResponse(res service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:         res.User,
		Token:        res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresAt:    res.Tokens.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
