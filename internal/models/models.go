package models

import (
	"encoding/json"
	"strings"
)

// Role determines which dashboard a user lands on after login
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Priority represents the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Status represents the workflow state of a task.
//
// "Done" and "Completed" are distinct stored values that mean the same
// thing: records written by older clients may carry either, so completion
// checks must go through Finished rather than comparing one value.
// New writes use "Done".
type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether s is a member of the closed status set
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusCompleted:
		return true
	}
	return false
}

// Finished reports whether s counts as completed
func (s Status) Finished() bool {
	return s == StatusDone || s == StatusCompleted
}

// User is an account that can log in and be assigned tasks
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	TeamID      *int64 `json:"teamId,omitempty"`
	IsTeamAdmin bool   `json:"isTeamAdmin"`
}

// Team groups users for bulk task assignment
type Team struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	AdminID int64   `json:"adminId"`
	Members []int64 `json:"members"`
}

// HasMember reports whether userID is in the team's member list
func (t Team) HasMember(userID int64) bool {
	for _, id := range t.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment is an append-only note on a task
type Comment struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Time   string `json:"time"`
}

// Assignees is an ordered list of user emails. Records written by older
// clients sometimes hold a bare string instead of a list, so decoding
// accepts both shapes.
type Assignees []string

// UnmarshalJSON accepts either a JSON array of strings or a single string
func (a *Assignees) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*a = nil
		return nil
	}
	*a = Assignees{single}
	return nil
}

// Contains reports whether email is in the assignee list
func (a Assignees) Contains(email string) bool {
	for _, e := range a {
		if e == email {
			return true
		}
	}
	return false
}

// NormalizeAssignees coerces scalar-or-list assignee input into a canonical
// ordered list: trimmed, empties dropped, duplicates removed in first-seen
// order. Every mutation and query that touches assignees goes through this.
func NormalizeAssignees(emails ...string) Assignees {
	seen := make(map[string]struct{}, len(emails))
	result := make(Assignees, 0, len(emails))
	for _, email := range emails {
		trimmed := strings.TrimSpace(email)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// Task is a unit of work assigned to one or more users. AssignedTo is the
// individual assignment list; Members is a separate collaborator list
// managed per task, distinct from assignment.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AssignedTo  Assignees `json:"assignedTo"`
	Members     []int64   `json:"members,omitempty"`
	TeamID      *int64    `json:"teamId,omitempty"`
	DueDate     string    `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Comments    []Comment `json:"comments"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	AssignedAt  string    `json:"assignedAt,omitempty"`
}

// HasMember reports whether userID is in the task's collaborator list
func (t Task) HasMember(userID int64) bool {
	for _, id := range t.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// ActivityEntry is one record in the append-only admin action log,
// independent of per-task comments
type ActivityEntry struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Date    string `json:"date"`
}
