package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hongminglow/taskflow-be/internal/models"
)

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// UpdateProjectRequest is a partial project update.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
	)
}

// AddMemberRequest names the user to add to a project.
type AddMemberRequest struct {
	UserID string `json:"userId"`
}

func (r AddMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	)
}

// ProjectList wraps the project listing.
type ProjectList struct {
	Projects []models.ProjectSummary `json:"projects"`
}

// MemberList wraps a project's members.
type MemberList struct {
	Members []models.Member `json:"members"`
}

// MemberRef identifies the user touched by a membership change.
type MemberRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MemberResponse reports a membership change.
type MemberResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    *MemberRef `json:"user,omitempty"`
}
