package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/taskflow-be/internal/ids"
	"github.com/hongminglow/taskflow-be/internal/models"
)

const taskSelect = `
	SELECT t.id, t.title, t.description, t.status, t.assignee_id, u.name, t.due_date, t.project_id, t.created_at, t.updated_at
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assignee_id`

func (s *Store) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if task.ID == "" {
		task.ID = ids.New()
	}
	if task.Status == "" {
		task.Status = models.TaskTodo
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, status, assignee_id, due_date, project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID, task.Title, task.Description, string(task.Status), task.AssigneeID, task.DueDate, task.ProjectID,
	)
	if err != nil {
		return models.Task{}, translate(err)
	}
	return s.FindTask(ctx, task.ID)
}

func (s *Store) FindTask(ctx context.Context, id string) (models.Task, error) {
	return scanTask(s.pool.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
}

func (s *Store) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		where = append(where, fmt.Sprintf("t.project_id = $%d", len(args)))
	}
	if filter.AssigneeID != "" {
		args = append(args, filter.AssigneeID)
		where = append(where, fmt.Sprintf("t.assignee_id = $%d", len(args)))
	}
	query := taskSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.created_at, t.id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies patch. A set AssigneeSet with nil AssigneeID clears the assignee.
func (s *Store) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	var status *string
	if patch.Status != nil {
		st := string(*patch.Status)
		status = &st
	}
	err := expectOne(s.pool.Exec(ctx, `
		UPDATE tasks SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			assignee_id = CASE WHEN $5::boolean THEN $6::text ELSE assignee_id END,
			due_date = COALESCE($7, due_date),
			project_id = COALESCE($8, project_id),
			updated_at = NOW()
		WHERE id = $1`,
		id, patch.Title, patch.Description, status, patch.AssigneeSet, patch.AssigneeID, patch.DueDate, patch.ProjectID,
	))
	if err != nil {
		return models.Task{}, err
	}
	return s.FindTask(ctx, id)
}

// UpdateTaskStatus changes status only when the task belongs to projectID.
func (s *Store) UpdateTaskStatus(ctx context.Context, id, projectID string, status models.TaskStatus) (models.Task, error) {
	err := expectOne(s.pool.Exec(ctx,
		`UPDATE tasks SET status = $3, updated_at = NOW() WHERE id = $1 AND project_id = $2`,
		id, projectID, string(status),
	))
	if err != nil {
		return models.Task{}, err
	}
	return s.FindTask(ctx, id)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return expectOne(s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id))
}

func scanTask(row pgx.Row) (models.Task, error) {
	var (
		t            models.Task
		status       string
		assigneeName *string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.AssigneeID, &assigneeName, &t.DueDate, &t.ProjectID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return models.Task{}, translate(err)
	}
	t.Status = models.TaskStatus(status)
	if t.AssigneeID != nil && assigneeName != nil {
		t.Assignee = &models.Assignee{ID: *t.AssigneeID, Name: *assigneeName}
	}
	return t, nil
}
