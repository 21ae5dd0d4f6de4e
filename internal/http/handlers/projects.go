package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/taskflow-be/internal/http/respond"
	"github.com/hongminglow/taskflow-be/internal/middleware"
	"github.com/hongminglow/taskflow-be/internal/models"
	"github.com/hongminglow/taskflow-be/internal/models/dto"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

const projectNotFound = "Project not found"

// ProjectsHandler serves /api/projects, including members and the
// per-project task list.
type ProjectsHandler struct {
	store interface {
		storage.ProjectStore
		storage.TaskStore
		storage.UserStore
	}
	guard  *middleware.Guard
	logger *slog.Logger
}

// NewProjectsHandler constructs the handler.
func NewProjectsHandler(store storage.Store, guard *middleware.Guard, logger *slog.Logger) *ProjectsHandler {
	return &ProjectsHandler{store: store, guard: guard, logger: logger}
}

// Register attaches project and membership routes to the mux.
func (h *ProjectsHandler) Register(mux *http.ServeMux) {
	manager := models.RoleProductManager
	mux.Handle("GET /api/projects", h.guard.Authenticated(h.list))
	mux.Handle("POST /api/projects", h.guard.WithRoles(h.create, manager))
	mux.Handle("GET /api/projects/{id}", h.guard.Authenticated(h.get))
	mux.Handle("PUT /api/projects/{id}", h.guard.WithRoles(h.update, manager))
	mux.Handle("DELETE /api/projects/{id}", h.guard.WithRoles(h.delete, manager))
	mux.Handle("GET /api/projects/{id}/tasks", h.guard.Authenticated(h.tasks))
	mux.Handle("GET /api/projects/{id}/members", h.guard.Authenticated(h.members))
	mux.Handle("POST /api/projects/{id}/members", h.guard.WithRoles(h.addMember, manager))
	mux.Handle("DELETE /api/projects/{id}/members/{userId}", h.guard.WithRoles(h.removeMember, manager))
}

func (h *ProjectsHandler) list(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.ProjectList{Projects: projects})
}

func (h *ProjectsHandler) get(w http.ResponseWriter, r *http.Request) {
	project, err := h.store.FindProject(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, projectNotFound))
		return
	}
	respond.JSON(w, http.StatusOK, project)
}

func (h *ProjectsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	project := models.Project{Name: strings.TrimSpace(req.Name)}
	if req.Description != "" {
		project.Description = &req.Description
	}
	created, err := h.store.CreateProject(r.Context(), project)
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *ProjectsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	updated, err := h.store.UpdateProject(r.Context(), r.PathValue("id"), models.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, projectNotFound))
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *ProjectsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, projectNotFound))
		return
	}
	h.logger.Info("project deleted", "project_id", id)
	success(w, "Project deleted successfully")
}

func (h *ProjectsHandler) tasks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.FindProject(r.Context(), id); err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, projectNotFound))
		return
	}
	tasks, err := h.store.ListTasks(r.Context(), models.TaskFilter{ProjectID: id})
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.TaskList{Tasks: tasks})
}

func (h *ProjectsHandler) members(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.FindProject(r.Context(), id); err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, projectNotFound))
		return
	}
	members, err := h.store.ListMembers(r.Context(), id)
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.MemberList{Members: members})
}

func (h *ProjectsHandler) addMember(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	var req dto.AddMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	if _, err := h.store.FindProject(r.Context(), projectID); err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, projectNotFound))
		return
	}
	user, err := h.store.FindByID(r.Context(), req.UserID)
	if err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, userNotFound))
		return
	}
	if err := h.store.AddMember(r.Context(), projectID, user.ID); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			err = respond.Conflict("User is already a member of this project")
		case errors.Is(err, storage.ErrInvalidReference):
			err = respond.NotFound(projectNotFound)
		}
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.MemberResponse{
		Success: true,
		Message: "User added to project",
		User:    &dto.MemberRef{ID: user.ID, Name: user.Name},
	})
}

func (h *ProjectsHandler) removeMember(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveMember(r.Context(), r.PathValue("id"), r.PathValue("userId")); err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, "Project member not found"))
		return
	}
	success(w, "User removed from project")
}
