package model

import "time"

// DefaultProjectColor is applied when a project is created without one.
const DefaultProjectColor = "#2563EB"

type Project struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TeamID      int        `json:"teamId"`
	Color       string     `json:"color"`
	StartDate   time.Time  `json:"startDate"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type File struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	ProjectID  int       `json:"projectId"`
	TaskID     *int      `json:"taskId,omitempty"`
	UploadedBy int       `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
	Uploader   *User     `json:"uploader,omitempty"`
}
