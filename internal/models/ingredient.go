package models

// Ingredient is a named component of a recipe, owned by a single user.
type Ingredient struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}
