package models

import "time"

// Recipe is the central resource of the API. Tags and ingredients are
// unordered sets and always belong to the same owner as the recipe.
type Recipe struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"-"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"timeMinutes"`
	Price       float64      `json:"price"`
	Link        string       `json:"link,omitempty"`
	ImagePath   string       `json:"-"` // Path relative to the media root
	Image       string       `json:"image,omitempty"`
	Tags        []Tag        `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// TagIDs returns the ids of the attached tags, for list responses that
// carry associations by id only.
func (r Recipe) TagIDs() []int64 {
	ids := make([]int64, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IngredientIDs returns the ids of the attached ingredients.
func (r Recipe) IngredientIDs() []int64 {
	ids := make([]int64, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}
