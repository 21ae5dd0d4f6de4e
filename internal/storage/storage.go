package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/taskflow-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInvalidReference indicates a write pointed at a record that does not exist.
var ErrInvalidReference = errors.New("referenced record not found")

// UserStore captures user persistence plus the read access needed for stats.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
	UserStats(ctx context.Context, id string) (models.UserStats, error)
}

// ProjectStore captures project and membership persistence.
type ProjectStore interface {
	CreateProject(ctx context.Context, project models.Project) (models.ProjectSummary, error)
	FindProject(ctx context.Context, id string) (models.ProjectSummary, error)
	ListProjects(ctx context.Context) ([]models.ProjectSummary, error)
	UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (models.ProjectSummary, error)
	DeleteProject(ctx context.Context, id string) error
	ListMembers(ctx context.Context, projectID string) ([]models.Member, error)
	AddMember(ctx context.Context, projectID, userID string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
}

// TaskStore captures task persistence.
type TaskStore interface {
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	FindTask(ctx context.Context, id string) (models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	UpdateTaskStatus(ctx context.Context, id, projectID string, status models.TaskStatus) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Store is the full repository used by the HTTP layer.
type Store interface {
	UserStore
	ProjectStore
	TaskStore
	Close()
}
