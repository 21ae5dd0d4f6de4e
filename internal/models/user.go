package models

import "time"

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Avatar       *string   `json:"avatar"`
	Skills       []string  `json:"skills"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SafeUser is the only user shape placed in auth responses.
type SafeUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserSummary is the list view of a user.
type UserSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   Role     `json:"role"`
	Avatar *string  `json:"avatar"`
	Skills []string `json:"skills"`
}

// UserStats aggregates a user's task and project involvement.
type UserStats struct {
	Tasks     int `json:"tasks"`
	Projects  int `json:"projects"`
	Completed int `json:"completed"`
}

// UserDetail is a user with aggregate stats attached.
type UserDetail struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	Avatar *string   `json:"avatar"`
	Skills []string  `json:"skills"`
	Stats  UserStats `json:"stats"`
}

// UserPatch lists the mutable user fields; nil means unchanged.
type UserPatch struct {
	Name   *string
	Role   *Role
	Skills *[]string
	Avatar *string
}

// Safe strips secrets and internal fields.
func (u User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Summary is the list view of u.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Role: u.Role, Avatar: u.Avatar, Skills: nonNilSkills(u.Skills)}
}

// Detail attaches stats to u.
func (u User) Detail(stats UserStats) UserDetail {
	return UserDetail{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
		Skills: nonNilSkills(u.Skills),
		Stats:  stats,
	}
}

func nonNilSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
