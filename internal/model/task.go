package model

import "time"

// Kanban status columns. The values double as workflow states and as
// rendering buckets, each with its own position sequence.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in progress"
	StatusReview     = "review"
	StatusComplete   = "complete"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ProjectID   int        `json:"projectId"`
	AssigneeID  *int       `json:"assigneeId,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	TaskID    int       `json:"taskId"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *User     `json:"author,omitempty"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusReview, StatusComplete:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
