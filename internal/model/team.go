package model

import "time"

type Team struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   int       `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TeamMember struct {
	ID     int    `json:"id"`
	TeamID int    `json:"teamId"`
	UserID int    `json:"userId"`
	Role   string `json:"role"` // admin / member / guest, scoped to the team
	User   *User  `json:"user,omitempty"`
}

type Message struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	TeamID    int       `json:"teamId"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *User     `json:"author,omitempty"`
}
