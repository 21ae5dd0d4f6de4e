package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskflow-be/internal/models"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}
	for _, path := range []string{".env", "../../../.env"} {
		if godotenv.Load(path) == nil {
			break
		}
	}
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	require.NotEmpty(t, dbURL, "DATABASE_URL is required")

	store, err := NewStore(t.Context(), dbURL)
	require.NoError(t, err, "init store")
	t.Cleanup(store.Close)
	return store
}

// TestProjectTaskIntegration covers the project, membership and task SQL
// against a live Postgres, including assignee clearing and cascades.
func TestProjectTaskIntegration(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	suffix := time.Now().UnixNano()

	user, err := store.CreateUser(ctx, models.User{
		Name:         "Store Test",
		Email:        fmt.Sprintf("storetest_%d@example.com", suffix),
		Role:         models.RoleDeveloper,
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.DeleteUser(context.Background(), user.ID) })

	desc := "integration"
	project, err := store.CreateProject(ctx, models.Project{Name: fmt.Sprintf("proj_%d", suffix), Description: &desc})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.DeleteProject(context.Background(), project.ID) })
	assert.Equal(t, 0, project.TaskCount)
	assert.Equal(t, []string{}, project.Members)

	require.NoError(t, store.AddMember(ctx, project.ID, user.ID))
	assert.ErrorIs(t, store.AddMember(ctx, project.ID, user.ID), storage.ErrAlreadyExists)
	assert.ErrorIs(t, store.AddMember(ctx, project.ID, "ghost"), storage.ErrInvalidReference)

	members, err := store.ListMembers(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.RoleDeveloper, members[0].Role)

	due := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)
	task, err := store.CreateTask(ctx, models.Task{
		Title:      "write SQL",
		ProjectID:  project.ID,
		AssigneeID: &user.ID,
		DueDate:    &due,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskTodo, task.Status)
	require.NotNil(t, task.Assignee)
	assert.Equal(t, "Store Test", task.Assignee.Name)

	_, err = store.CreateTask(ctx, models.Task{Title: "orphan", ProjectID: "ghost"})
	assert.ErrorIs(t, err, storage.ErrInvalidReference)

	_, err = store.UpdateTaskStatus(ctx, task.ID, "other-project", models.TaskDone)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	done, err := store.UpdateTaskStatus(ctx, task.ID, project.ID, models.TaskDone)
	require.NoError(t, err)
	assert.Equal(t, models.TaskDone, done.Status)

	stats, err := store.UserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Tasks: 1, Projects: 1, Completed: 1}, stats)

	title := "write more SQL"
	cleared, err := store.UpdateTask(ctx, task.ID, models.TaskPatch{Title: &title, AssigneeSet: true})
	require.NoError(t, err)
	assert.Equal(t, title, cleared.Title)
	assert.Nil(t, cleared.AssigneeID)
	assert.Nil(t, cleared.Assignee)
	require.NotNil(t, cleared.DueDate)
	assert.True(t, due.Equal(*cleared.DueDate))

	byAssignee, err := store.ListTasks(ctx, models.TaskFilter{AssigneeID: user.ID})
	require.NoError(t, err)
	assert.Empty(t, byAssignee)

	summary, err := store.FindProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TaskCount)
	assert.Equal(t, []string{user.ID}, summary.Members)

	require.NoError(t, store.DeleteProject(ctx, project.ID))
	_, err = store.FindTask(ctx, task.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "tasks cascade with their project")
	members, err = store.ListMembers(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
	assert.ErrorIs(t, store.DeleteProject(ctx, project.ID), storage.ErrNotFound)
}
