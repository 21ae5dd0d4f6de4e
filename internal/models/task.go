package models

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

// TaskStatuses lists every valid status.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskTodo, TaskInProgress, TaskDone}
}

// ParseTaskStatus reports whether raw names a valid status.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	for _, s := range TaskStatuses() {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Assignee is the embedded view of a task's assigned user.
type Assignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is a unit of work inside a project. AssigneeID is the stored foreign
// key; Assignee is populated on reads.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	AssigneeID  *string    `json:"-"`
	Assignee    *Assignee  `json:"assignee"`
	DueDate     *time.Time `json:"dueDate"`
	ProjectID   string     `json:"projectId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskPatch lists the mutable task fields. AssigneeSet distinguishes
// "clear the assignee" (AssigneeSet with nil AssigneeID) from "unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	AssigneeSet bool
	AssigneeID  *string
	DueDate     *time.Time
	ProjectID   *string
}

// TaskFilter narrows task listings; empty fields match everything.
type TaskFilter struct {
	ProjectID  string
	AssigneeID string
}
