package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/taskflow-be/internal/ids"
	"github.com/hongminglow/taskflow-be/internal/models"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

const userColumns = `id, name, email, password_hash, role, avatar, skills, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = ids.New()
	}
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	const query = `
		INSERT INTO users (id, name, email, password_hash, role, avatar, skills)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.Avatar, skills)
	return scanUser(row)
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail fetches a user by email address. Matching is exact.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies the non-nil fields of patch.
func (s *Store) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	var role *string
	if patch.Role != nil {
		r := string(*patch.Role)
		role = &r
	}
	var skills any
	if patch.Skills != nil {
		skills = *patch.Skills
	}
	const query = `
		UPDATE users SET
			name = COALESCE($2, name),
			role = COALESCE($3, role),
			skills = COALESCE($4::text[], skills),
			avatar = COALESCE($5, avatar),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, id, patch.Name, role, skills, patch.Avatar)
	return scanUser(row)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return expectOne(s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}

// UserStats counts assigned tasks, completed tasks and project memberships.
func (s *Store) UserStats(ctx context.Context, id string) (models.UserStats, error) {
	const query = `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE id = $1),
			(SELECT COUNT(*) FROM tasks WHERE assignee_id = $1),
			(SELECT COUNT(*) FROM tasks WHERE assignee_id = $1 AND status = $2),
			(SELECT COUNT(*) FROM project_members WHERE user_id = $1)`
	var (
		exists bool
		stats  models.UserStats
	)
	if err := s.pool.QueryRow(ctx, query, id, string(models.TaskDone)).Scan(&exists, &stats.Tasks, &stats.Completed, &stats.Projects); err != nil {
		return models.UserStats{}, translate(err)
	}
	if !exists {
		return models.UserStats{}, storage.ErrNotFound
	}
	return stats, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		user models.User
		role string
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.Avatar, &user.Skills, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return models.User{}, translate(err)
	}
	user.Role = models.ParseRole(role)
	return user, nil
}
