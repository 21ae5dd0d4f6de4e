package dto

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hongminglow/taskflow-be/internal/models"
)

var dataImagePrefix = regexp.MustCompile(`^data:image/`)

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	Skills   []string `json:"skills"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, maxPasswordLength)),
		validation.Field(&r.Role, validation.Required, roleRule()),
	)
}

// UpdateUserRequest is the body of PUT /api/users/{id}; nil fields are left alone.
type UpdateUserRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Role, validation.NilOrNotEmpty, roleRule()),
	)
}

// UpdateSkillsRequest replaces a user's skill list.
type UpdateSkillsRequest struct {
	Skills []string `json:"skills"`
}

func (r UpdateSkillsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Skills, validation.NotNil),
	)
}

// AvatarUpdateRequest carries an avatar as a data:image URL.
type AvatarUpdateRequest struct {
	AvatarBase64 string `json:"avatarBase64"`
}

func (r AvatarUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AvatarBase64,
			validation.Required.Error("Invalid image format. Please provide a valid Base64 encoded image."),
			validation.Match(dataImagePrefix).Error("Invalid image format. Please provide a valid Base64 encoded image."),
		),
	)
}

// UserList wraps the user listing.
type UserList struct {
	Users []models.UserSummary `json:"users"`
}

// UserSkills is returned after a skills update.
type UserSkills struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// UserAvatar is returned after an avatar update.
type UserAvatar struct {
	ID     string  `json:"id"`
	Avatar *string `json:"avatar"`
}
