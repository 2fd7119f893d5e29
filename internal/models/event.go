package models

import "time"

// Event represents an entry in a user's activity log.
type Event struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Type      string    `json:"type"` // e.g. "recipe.create", "recipe.image"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
