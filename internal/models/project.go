package models

import "time"

// Project is a stored project row.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectSummary is a project with its task count and member ids.
type ProjectSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	TaskCount   int       `json:"taskCount"`
	Members     []string  `json:"members"`
}

// ProjectPatch lists the mutable project fields; nil means unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// Member is the view of a user inside a project's member list.
type Member struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Role   Role    `json:"role"`
	Avatar *string `json:"avatar"`
}
