package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/taskflow-be/internal/ids"
	"github.com/hongminglow/taskflow-be/internal/models"
)

const projectSummarySelect = `
	SELECT p.id, p.name, p.description, p.created_at,
		(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id),
		COALESCE((SELECT array_agg(m.user_id ORDER BY m.joined_at) FROM project_members m WHERE m.project_id = p.id), '{}')
	FROM projects p`

func (s *Store) CreateProject(ctx context.Context, project models.Project) (models.ProjectSummary, error) {
	if project.ID == "" {
		project.ID = ids.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (id, name, description) VALUES ($1, $2, $3)`,
		project.ID, project.Name, project.Description,
	)
	if err != nil {
		return models.ProjectSummary{}, translate(err)
	}
	return s.FindProject(ctx, project.ID)
}

func (s *Store) FindProject(ctx context.Context, id string) (models.ProjectSummary, error) {
	row := s.pool.QueryRow(ctx, projectSummarySelect+` WHERE p.id = $1`, id)
	return scanProjectSummary(row)
}

func (s *Store) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	rows, err := s.pool.Query(ctx, projectSummarySelect+` ORDER BY p.created_at, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]models.ProjectSummary, 0)
	for rows.Next() {
		p, err := scanProjectSummary(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (models.ProjectSummary, error) {
	err := expectOne(s.pool.Exec(ctx, `
		UPDATE projects SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at = NOW()
		WHERE id = $1`,
		id, patch.Name, patch.Description,
	))
	if err != nil {
		return models.ProjectSummary{}, err
	}
	return s.FindProject(ctx, id)
}

// DeleteProject removes the project; tasks and memberships cascade.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return expectOne(s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id))
}

func (s *Store) ListMembers(ctx context.Context, projectID string) ([]models.Member, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.name, u.role, u.avatar
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.joined_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var (
			m    models.Member
			role string
		)
		if err := rows.Scan(&m.ID, &m.Name, &role, &m.Avatar); err != nil {
			return nil, err
		}
		m.Role = models.ParseRole(role)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) AddMember(ctx context.Context, projectID, userID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`,
		projectID, userID,
	)
	return translate(err)
}

func (s *Store) RemoveMember(ctx context.Context, projectID, userID string) error {
	return expectOne(s.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	))
}

func scanProjectSummary(row pgx.Row) (models.ProjectSummary, error) {
	var p models.ProjectSummary
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.TaskCount, &p.Members); err != nil {
		return models.ProjectSummary{}, translate(err)
	}
	if p.Members == nil {
		p.Members = []string{}
	}
	return p, nil
}
