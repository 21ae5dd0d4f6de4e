package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/http/respond"
	"github.com/hongminglow/taskflow-be/internal/middleware"
	"github.com/hongminglow/taskflow-be/internal/models"
	"github.com/hongminglow/taskflow-be/internal/models/dto"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

const userNotFound = "User not found"

// UsersHandler serves /api/users.
type UsersHandler struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
	guard  *middleware.Guard
	logger *slog.Logger
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users storage.UserStore, hasher *auth.PasswordHasher, guard *middleware.Guard, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{users: users, hasher: hasher, guard: guard, logger: logger}
}

// Register attaches user routes to the mux.
func (h *UsersHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /api/users", h.guard.Authenticated(h.list))
	mux.Handle("POST /api/users", h.guard.WithRoles(h.create, models.RoleProductManager))
	mux.Handle("GET /api/users/{id}", h.guard.Authenticated(h.get))
	mux.Handle("PUT /api/users/{id}", h.guard.Authenticated(h.update))
	mux.Handle("DELETE /api/users/{id}", h.guard.WithRoles(h.delete, models.RoleProductManager))
	mux.Handle("PATCH /api/users/{id}/skills", h.guard.Authenticated(h.updateSkills))
	mux.Handle("PATCH /api/users/{id}/avatar", h.guard.Authenticated(h.updateAvatar))
	mux.Handle("GET /api/users/{id}/stats", h.guard.Authenticated(h.stats))
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	out := dto.UserList{Users: make([]models.UserSummary, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, u.Summary())
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.detail(r, r.PathValue("id"))
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, detail)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	user, err := h.users.CreateUser(r.Context(), models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Role:         models.ParseRole(req.Role),
		Skills:       req.Skills,
		PasswordHash: hash,
	})
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	h.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	respond.JSON(w, http.StatusCreated, user.Detail(models.UserStats{}))
}

// update lets anyone rename themselves; renaming others and role changes
// need a Product Manager.
func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req dto.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	claim, _ := auth.IdentityFromContext(r.Context())
	if req.Role != nil || claim.UserID != id {
		if err := auth.Authorize(claim.Role, []models.Role{models.RoleProductManager}).Err(); err != nil {
			respond.Fail(w, h.logger, err)
			return
		}
	}

	patch := models.UserPatch{Name: req.Name}
	if req.Role != nil {
		role := models.ParseRole(*req.Role)
		patch.Role = &role
	}
	if _, err := h.users.UpdateUser(r.Context(), id, patch); err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, userNotFound))
		return
	}
	detail, err := h.detail(r, id)
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, detail)
}

func (h *UsersHandler) updateSkills(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := selfOrManager(r, id); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	var req dto.UpdateSkillsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	user, err := h.users.UpdateUser(r.Context(), id, models.UserPatch{Skills: &req.Skills})
	if err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, userNotFound))
		return
	}
	respond.JSON(w, http.StatusOK, dto.UserSkills{ID: user.ID, Name: user.Name, Skills: user.Summary().Skills})
}

func (h *UsersHandler) updateAvatar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := selfOrManager(r, id); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	var req dto.AvatarUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	user, err := h.users.UpdateUser(r.Context(), id, models.UserPatch{Avatar: &req.AvatarBase64})
	if err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, userNotFound))
		return
	}
	respond.JSON(w, http.StatusOK, dto.UserAvatar{ID: user.ID, Avatar: user.Avatar})
}

func (h *UsersHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.UserStats(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, userNotFound))
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, userNotFound))
		return
	}
	h.logger.Info("user deleted", "user_id", id)
	success(w, "User deleted successfully")
}

func (h *UsersHandler) detail(r *http.Request, id string) (models.UserDetail, error) {
	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		return models.UserDetail{}, notFoundAs(err, userNotFound)
	}
	stats, err := h.users.UserStats(r.Context(), id)
	if err != nil {
		return models.UserDetail{}, notFoundAs(err, userNotFound)
	}
	return user.Detail(stats), nil
}

func selfOrManager(r *http.Request, id string) error {
	claim, _ := auth.IdentityFromContext(r.Context())
	if claim.UserID == id {
		return nil
	}
	return auth.Authorize(claim.Role, []models.Role{models.RoleProductManager}).Err()
}
