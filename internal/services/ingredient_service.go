package services

import (
	"database/sql"

	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/mealstash/recipe-api-be/internal/query"
)

// IngredientServiceProvider defines the interface for ingredient services.
type IngredientServiceProvider interface {
	ListIngredients(ownerID int64, opts query.ListOptions) ([]models.Ingredient, error)
	GetIngredientByID(ownerID, id int64) (models.Ingredient, error)
	CreateIngredient(ownerID int64, name string) (models.Ingredient, error)
	UpdateIngredient(ownerID, id int64, name string) (models.Ingredient, error)
	DeleteIngredient(ownerID, id int64) error
}

// IngredientService provides business logic for ingredient management.
type IngredientService struct {
	store ownedNameStore
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(db *sql.DB) *IngredientService {
	return &IngredientService{store: ownedNameStore{
		db:         db,
		table:      "ingredients",
		linkTable:  "recipe_ingredients",
		linkColumn: "ingredient_id",
	}}
}

// ListIngredients returns the owner's ingredients ordered by name
// descending, optionally restricted to those assigned to a recipe.
func (s *IngredientService) ListIngredients(ownerID int64, opts query.ListOptions) ([]models.Ingredient, error) {
	rows, err := s.store.list(ownerID, opts)
	if err != nil {
		return nil, err
	}
	ingredients := make([]models.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, models.Ingredient(row))
	}
	return ingredients, nil
}

// GetIngredientByID retrieves one of the owner's ingredients.
func (s *IngredientService) GetIngredientByID(ownerID, id int64) (models.Ingredient, error) {
	row, err := s.store.get(ownerID, id)
	if err != nil {
		return models.Ingredient{}, err
	}
	return models.Ingredient(row), nil
}

// CreateIngredient creates an ingredient owned by the caller.
func (s *IngredientService) CreateIngredient(ownerID int64, name string) (models.Ingredient, error) {
	row, err := s.store.create(ownerID, name)
	if err != nil {
		return models.Ingredient{}, err
	}
	return models.Ingredient(row), nil
}

// UpdateIngredient renames one of the owner's ingredients.
func (s *IngredientService) UpdateIngredient(ownerID, id int64, name string) (models.Ingredient, error) {
	row, err := s.store.update(ownerID, id, name)
	if err != nil {
		return models.Ingredient{}, err
	}
	return models.Ingredient(row), nil
}

// DeleteIngredient removes one of the owner's ingredients.
func (s *IngredientService) DeleteIngredient(ownerID, id int64) error {
	return s.store.delete(ownerID, id)
}
