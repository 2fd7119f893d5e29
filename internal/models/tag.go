package models

// Tag is a user-defined label that can be attached to any number of the
// owner's recipes.
type Tag struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"` // Ownership is implied by the authenticated request
	Name   string `json:"name"`
}
