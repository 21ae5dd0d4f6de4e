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

const taskNotFound = "Task not found"

// TasksHandler serves /api/tasks. Any authenticated user may manage tasks.
type TasksHandler struct {
	tasks  storage.TaskStore
	guard  *middleware.Guard
	logger *slog.Logger
}

// NewTasksHandler constructs the handler.
func NewTasksHandler(tasks storage.TaskStore, guard *middleware.Guard, logger *slog.Logger) *TasksHandler {
	return &TasksHandler{tasks: tasks, guard: guard, logger: logger}
}

// Register attaches task routes to the mux.
func (h *TasksHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /api/tasks", h.guard.Authenticated(h.list))
	mux.Handle("POST /api/tasks", h.guard.Authenticated(h.create))
	mux.Handle("GET /api/tasks/{id}", h.guard.Authenticated(h.get))
	mux.Handle("PUT /api/tasks/{id}", h.guard.Authenticated(h.update))
	mux.Handle("PATCH /api/tasks/{id}/status", h.guard.Authenticated(h.updateStatus))
	mux.Handle("DELETE /api/tasks/{id}", h.guard.Authenticated(h.delete))
}

func (h *TasksHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.tasks.ListTasks(r.Context(), models.TaskFilter{
		ProjectID:  q.Get("projectId"),
		AssigneeID: q.Get("assigneeId"),
	})
	if err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.TaskList{Tasks: tasks})
}

func (h *TasksHandler) get(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.FindTask(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, taskNotFound))
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

func (h *TasksHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	due, err := dto.ParseDueDate(req.DueDate)
	if err != nil {
		respond.Fail(w, h.logger, respond.BadRequest("dueDate: must be an RFC 3339 timestamp"))
		return
	}
	status, _ := models.ParseTaskStatus(req.Status)
	task := models.Task{
		Title:      strings.TrimSpace(req.Title),
		Status:     status,
		AssigneeID: blankToNil(req.AssigneeID),
		DueDate:    due,
		ProjectID:  req.ProjectID,
	}
	if req.Description != "" {
		task.Description = &req.Description
	}
	created, err := h.tasks.CreateTask(r.Context(), task)
	if err != nil {
		respond.Fail(w, h.logger, badReference(err))
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *TasksHandler) update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	due, err := dto.ParseDueDate(req.DueDate)
	if err != nil {
		respond.Fail(w, h.logger, respond.BadRequest("dueDate: must be an RFC 3339 timestamp"))
		return
	}
	patch := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		AssigneeSet: req.AssigneeID.Set,
		AssigneeID:  blankToNil(req.AssigneeID.Value),
		DueDate:     due,
		ProjectID:   req.ProjectID,
	}
	if req.Status != nil {
		status, _ := models.ParseTaskStatus(*req.Status)
		patch.Status = &status
	}
	updated, err := h.tasks.UpdateTask(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respond.Fail(w, h.logger, badReference(notFoundAs(err, taskNotFound)))
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *TasksHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTaskStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, h.logger, err)
		return
	}
	status, _ := models.ParseTaskStatus(req.Status)
	updated, err := h.tasks.UpdateTaskStatus(r.Context(), r.PathValue("id"), req.ProjectID, status)
	if err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, "Task not found or doesn't belong to specified project"))
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *TasksHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		respond.Fail(w, h.logger, notFoundAs(err, taskNotFound))
		return
	}
	success(w, "Task deleted successfully")
}

func badReference(err error) error {
	if errors.Is(err, storage.ErrInvalidReference) {
		return respond.BadRequest("project or assignee does not exist")
	}
	return err
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
