package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hongminglow/taskflow-be/internal/models"
)

// bcrypt ignores input past 72 bytes, so longer passwords are rejected outright.
const maxPasswordLength = 72

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	)
}

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, maxPasswordLength)),
		validation.Field(&r.Role, validation.Required, roleRule()),
	)
}

// RefreshRequest is the body of POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// AuthResponse is returned by login, signup and refresh.
type AuthResponse struct {
	User         models.SafeUser `json:"user"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	ExpiresAt    string          `json:"expiresAt"`
}

// SuccessResponse acknowledges operations that return no entity.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func roleRule() validation.Rule {
	roles := models.KnownRoles()
	allowed := make([]interface{}, 0, len(roles))
	for _, r := range roles {
		allowed = append(allowed, string(r))
	}
	return validation.In(allowed...).Error("must be one of Product Manager, Developer, Designer")
}
