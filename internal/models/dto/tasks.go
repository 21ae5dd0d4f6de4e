package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hongminglow/taskflow-be/internal/models"
)

// CreateTaskRequest is the body of POST /api/tasks. DueDate is RFC 3339.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	AssigneeID  *string `json:"assigneeId"`
	DueDate     *string `json:"dueDate"`
	ProjectID   string  `json:"projectId"`
}

func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Status, validation.Required, statusRule()),
		validation.Field(&r.DueDate, validation.Date(time.RFC3339)),
		validation.Field(&r.ProjectID, validation.Required),
	)
}

// UpdateTaskRequest is a partial task update. An explicit null assigneeId
// clears the assignee.
type UpdateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      *string        `json:"status"`
	AssigneeID  NullableString `json:"assigneeId"`
	DueDate     *string        `json:"dueDate"`
	ProjectID   *string        `json:"projectId"`
}

func (r UpdateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, statusRule()),
		validation.Field(&r.DueDate, validation.Date(time.RFC3339)),
		validation.Field(&r.ProjectID, validation.NilOrNotEmpty),
	)
}

// UpdateTaskStatusRequest moves a task within the named project.
type UpdateTaskStatusRequest struct {
	Status    string `json:"status"`
	ProjectID string `json:"projectId"`
}

func (r UpdateTaskStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, statusRule()),
		validation.Field(&r.ProjectID, validation.Required),
	)
}

// TaskList wraps a task listing.
type TaskList struct {
	Tasks []models.Task `json:"tasks"`
}

// ParseDueDate converts an optional RFC 3339 string. Callers validate first.
func ParseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func statusRule() validation.Rule {
	statuses := models.TaskStatuses()
	allowed := make([]interface{}, 0, len(statuses))
	for _, s := range statuses {
		allowed = append(allowed, string(s))
	}
	return validation.In(allowed...).Error("must be one of TODO, IN_PROGRESS, DONE")
}
