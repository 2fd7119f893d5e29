package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for upload validation
	_ "image/jpeg" //
	_ "image/png"  //
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mealstash/recipe-api-be/internal/apperr"
	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/mealstash/recipe-api-be/internal/query"
)

// RecipeInput carries the full set of writable recipe fields.
type RecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         float64
	Link          string
	TagIDs        []int64
	IngredientIDs []int64
}

// RecipeUpdate carries a possibly-partial set of recipe fields. A nil
// pointer means the field was not supplied by the caller.
type RecipeUpdate struct {
	Title         *string
	TimeMinutes   *int
	Price         *float64
	Link          *string
	TagIDs        *[]int64
	IngredientIDs *[]int64
}

// RecipeServiceProvider defines the interface for recipe services.
type RecipeServiceProvider interface {
	ListRecipes(ownerID int64, filter query.RecipeFilter) ([]models.Recipe, error)
	GetRecipeByID(ownerID, id int64) (models.Recipe, error)
	CreateRecipe(ownerID int64, input RecipeInput) (models.Recipe, error)
	UpdateRecipe(ownerID, id int64, upd RecipeUpdate, partial bool) (models.Recipe, error)
	DeleteRecipe(ownerID, id int64) error
	AttachImage(ownerID, id int64, src io.Reader) (models.Recipe, error)
	AttachTag(ownerID, recipeID, tagID int64) error
	DetachTag(ownerID, recipeID, tagID int64) error
	AttachIngredient(ownerID, recipeID, ingredientID int64) error
	DetachIngredient(ownerID, recipeID, ingredientID int64) error
}

// RecipeService provides business logic for recipe management, including
// the tag/ingredient associations and the image attachment.
type RecipeService struct {
	db          *sql.DB
	tags        ownedNameStore
	ingredients ownedNameStore
	events      EventServiceProvider
	mediaPath   string
}

// NewRecipeService creates a new RecipeService. Uploaded images are
// stored under mediaPath.
func NewRecipeService(db *sql.DB, events EventServiceProvider, mediaPath string) *RecipeService {
	return &RecipeService{
		db:          db,
		tags:        ownedNameStore{db: db, table: "tags", linkTable: "recipe_tags", linkColumn: "tag_id"},
		ingredients: ownedNameStore{db: db, table: "ingredients", linkTable: "recipe_ingredients", linkColumn: "ingredient_id"},
		events:      events,
		mediaPath:   mediaPath,
	}
}

func validateRecipe(title string, timeMinutes int, price float64) error {
	ve := &apperr.ValidationError{}
	if strings.TrimSpace(title) == "" {
		ve.Add("title", "this field may not be blank")
	}
	if timeMinutes <= 0 {
		ve.Add("timeMinutes", "ensure this value is greater than 0")
	}
	if price < 0 {
		ve.Add("price", "ensure this value is greater than or equal to 0")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// requireOwned rejects ids that do not exist or belong to another
// account. The error does not say which, so nothing about other
// accounts' data leaks.
func (s *RecipeService) requireOwned(store *ownedNameStore, ownerID int64, ids []int64, field string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := store.countOwned(ownerID, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return apperr.Invalid(field, "one or more ids are invalid")
	}
	return nil
}

// ListRecipes returns the owner's recipes ordered by id descending.
// Within each filter set a recipe matches when linked to any of the ids;
// when both sets are present the recipe must match both.
func (s *RecipeService) ListRecipes(ownerID int64, filter query.RecipeFilter) ([]models.Recipe, error) {
	q := `SELECT id, user_id, title, time_minutes, price, link, image_path, created_at
		FROM recipes WHERE user_id = ?`
	args := []interface{}{ownerID}

	if len(filter.TagIDs) > 0 {
		q += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = recipes.id AND rt.tag_id IN (%s))",
			placeholders(len(filter.TagIDs)))
		for _, id := range filter.TagIDs {
			args = append(args, id)
		}
	}
	if len(filter.IngredientIDs) > 0 {
		q += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND ri.ingredient_id IN (%s))",
			placeholders(len(filter.IngredientIDs)))
		for _, id := range filter.IngredientIDs {
			args = append(args, id)
		}
	}
	q += " ORDER BY id DESC"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recipes {
		if err := s.loadAssociations(&recipes[i]); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

// GetRecipeByID retrieves one of the owner's recipes with its tags and
// ingredients. A recipe owned by another account is reported as missing.
func (s *RecipeService) GetRecipeByID(ownerID, id int64) (models.Recipe, error) {
	row := s.db.QueryRow(`SELECT id, user_id, title, time_minutes, price, link, image_path, created_at
		FROM recipes WHERE id = ? AND user_id = ?`, id, ownerID)

	recipe, err := scanRecipe(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Recipe{}, apperr.ErrNotFound
		}
		return models.Recipe{}, err
	}
	if err := s.loadAssociations(&recipe); err != nil {
		return models.Recipe{}, err
	}
	return recipe, nil
}

// CreateRecipe creates a recipe owned by the caller. Referenced tag and
// ingredient ids must belong to the same owner.
func (s *RecipeService) CreateRecipe(ownerID int64, input RecipeInput) (models.Recipe, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateRecipe(input.Title, input.TimeMinutes, input.Price); err != nil {
		return models.Recipe{}, err
	}

	tagIDs := dedupeIDs(input.TagIDs)
	ingredientIDs := dedupeIDs(input.IngredientIDs)
	if err := s.requireOwned(&s.tags, ownerID, tagIDs, "tags"); err != nil {
		return models.Recipe{}, err
	}
	if err := s.requireOwned(&s.ingredients, ownerID, ingredientIDs, "ingredients"); err != nil {
		return models.Recipe{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Recipe{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO recipes(user_id, title, time_minutes, price, link) VALUES(?, ?, ?, ?, ?)",
		ownerID, input.Title, input.TimeMinutes, input.Price, input.Link)
	if err != nil {
		return models.Recipe{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Recipe{}, err
	}

	if err := insertLinks(tx, "recipe_tags", "tag_id", id, tagIDs); err != nil {
		return models.Recipe{}, err
	}
	if err := insertLinks(tx, "recipe_ingredients", "ingredient_id", id, ingredientIDs); err != nil {
		return models.Recipe{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Recipe{}, err
	}

	s.events.Record(ownerID, "recipe.create", fmt.Sprintf("Recipe %q created", input.Title))
	return s.GetRecipeByID(ownerID, id)
}

// UpdateRecipe updates one of the owner's recipes. With partial set,
// omitted fields and associations are left untouched; otherwise omitted
// fields fall back to their zero values and omitted association sets are
// cleared.
func (s *RecipeService) UpdateRecipe(ownerID, id int64, upd RecipeUpdate, partial bool) (models.Recipe, error) {
	existing, err := s.GetRecipeByID(ownerID, id)
	if err != nil {
		return models.Recipe{}, err
	}

	title, timeMinutes, price, link := "", 0, 0.0, ""
	if partial {
		title, timeMinutes, price, link = existing.Title, existing.TimeMinutes, existing.Price, existing.Link
	}
	if upd.Title != nil {
		title = strings.TrimSpace(*upd.Title)
	}
	if upd.TimeMinutes != nil {
		timeMinutes = *upd.TimeMinutes
	}
	if upd.Price != nil {
		price = *upd.Price
	}
	if upd.Link != nil {
		link = *upd.Link
	}
	if err := validateRecipe(title, timeMinutes, price); err != nil {
		return models.Recipe{}, err
	}

	tagIDs, ingredientIDs := upd.TagIDs, upd.IngredientIDs
	if !partial {
		// A full update replaces the association sets; missing
		// fields mean "no associations".
		if tagIDs == nil {
			tagIDs = &[]int64{}
		}
		if ingredientIDs == nil {
			ingredientIDs = &[]int64{}
		}
	}
	if tagIDs != nil {
		*tagIDs = dedupeIDs(*tagIDs)
		if err := s.requireOwned(&s.tags, ownerID, *tagIDs, "tags"); err != nil {
			return models.Recipe{}, err
		}
	}
	if ingredientIDs != nil {
		*ingredientIDs = dedupeIDs(*ingredientIDs)
		if err := s.requireOwned(&s.ingredients, ownerID, *ingredientIDs, "ingredients"); err != nil {
			return models.Recipe{}, err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Recipe{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec("UPDATE recipes SET title = ?, time_minutes = ?, price = ?, link = ? WHERE id = ? AND user_id = ?",
		title, timeMinutes, price, link, id, ownerID)
	if err != nil {
		return models.Recipe{}, err
	}

	if tagIDs != nil {
		if err := replaceLinks(tx, "recipe_tags", "tag_id", id, *tagIDs); err != nil {
			return models.Recipe{}, err
		}
	}
	if ingredientIDs != nil {
		if err := replaceLinks(tx, "recipe_ingredients", "ingredient_id", id, *ingredientIDs); err != nil {
			return models.Recipe{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Recipe{}, err
	}

	s.events.Record(ownerID, "recipe.update", fmt.Sprintf("Recipe %q updated", title))
	return s.GetRecipeByID(ownerID, id)
}

// DeleteRecipe removes one of the owner's recipes. Associations go with
// it; tags and ingredients themselves are untouched.
func (s *RecipeService) DeleteRecipe(ownerID, id int64) error {
	recipe, err := s.GetRecipeByID(ownerID, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM recipes WHERE id = ? AND user_id = ?", id, ownerID); err != nil {
		return err
	}
	if recipe.ImagePath != "" {
		os.Remove(filepath.Join(s.mediaPath, filepath.FromSlash(recipe.ImagePath)))
	}

	s.events.Record(ownerID, "recipe.delete", fmt.Sprintf("Recipe %q deleted", recipe.Title))
	return nil
}

// AttachImage validates and stores a single image for a recipe. A new
// image replaces the previous one.
func (s *RecipeService) AttachImage(ownerID, id int64, src io.Reader) (models.Recipe, error) {
	recipe, err := s.GetRecipeByID(ownerID, id)
	if err != nil {
		return models.Recipe{}, err
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return models.Recipe{}, err
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Recipe{}, apperr.Invalid("image", "upload a valid image")
	}
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}

	relPath := "recipes/" + uuid.New().String() + ext
	absPath := filepath.Join(s.mediaPath, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return models.Recipe{}, err
	}
	if err := os.WriteFile(absPath, data, 0644); err != nil {
		return models.Recipe{}, err
	}

	if _, err := s.db.Exec("UPDATE recipes SET image_path = ? WHERE id = ? AND user_id = ?", relPath, id, ownerID); err != nil {
		return models.Recipe{}, err
	}

	// Best effort: the janitor sweeps anything this misses.
	if recipe.ImagePath != "" {
		os.Remove(filepath.Join(s.mediaPath, filepath.FromSlash(recipe.ImagePath)))
	}

	s.events.Record(ownerID, "recipe.image", fmt.Sprintf("Image attached to recipe %q", recipe.Title))
	return s.GetRecipeByID(ownerID, id)
}

// AttachTag links a tag to a recipe. Attaching an already-attached tag
// is a no-op.
func (s *RecipeService) AttachTag(ownerID, recipeID, tagID int64) error {
	return s.attach(ownerID, recipeID, &s.tags, tagID)
}

// DetachTag unlinks a tag from a recipe. Detaching a non-attached tag is
// a no-op.
func (s *RecipeService) DetachTag(ownerID, recipeID, tagID int64) error {
	return s.detach(ownerID, recipeID, &s.tags, tagID)
}

// AttachIngredient links an ingredient to a recipe idempotently.
func (s *RecipeService) AttachIngredient(ownerID, recipeID, ingredientID int64) error {
	return s.attach(ownerID, recipeID, &s.ingredients, ingredientID)
}

// DetachIngredient unlinks an ingredient from a recipe idempotently.
func (s *RecipeService) DetachIngredient(ownerID, recipeID, ingredientID int64) error {
	return s.detach(ownerID, recipeID, &s.ingredients, ingredientID)
}

func (s *RecipeService) attach(ownerID, recipeID int64, store *ownedNameStore, relatedID int64) error {
	if err := s.requireRecipe(ownerID, recipeID); err != nil {
		return err
	}
	if _, err := store.get(ownerID, relatedID); err != nil {
		return err
	}
	q := fmt.Sprintf("INSERT OR IGNORE INTO %s(recipe_id, %s) VALUES(?, ?)", store.linkTable, store.linkColumn)
	_, err := s.db.Exec(q, recipeID, relatedID)
	return err
}

func (s *RecipeService) detach(ownerID, recipeID int64, store *ownedNameStore, relatedID int64) error {
	if err := s.requireRecipe(ownerID, recipeID); err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE recipe_id = ? AND %s = ?", store.linkTable, store.linkColumn)
	_, err := s.db.Exec(q, recipeID, relatedID)
	return err
}

func (s *RecipeService) requireRecipe(ownerID, recipeID int64) error {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM recipes WHERE id = ? AND user_id = ?", recipeID, ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return apperr.ErrNotFound
	}
	return err
}

// loadAssociations fills in the recipe's tags and ingredients.
func (s *RecipeService) loadAssociations(recipe *models.Recipe) error {
	recipe.Tags = make([]models.Tag, 0)
	recipe.Ingredients = make([]models.Ingredient, 0)

	rows, err := s.db.Query(`SELECT t.id, t.user_id, t.name FROM tags t
		JOIN recipe_tags rt ON rt.tag_id = t.id
		WHERE rt.recipe_id = ? ORDER BY t.name DESC`, recipe.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return err
		}
		recipe.Tags = append(recipe.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(`SELECT i.id, i.user_id, i.name FROM ingredients i
		JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = ? ORDER BY i.name DESC`, recipe.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ingredient models.Ingredient
		if err := rows.Scan(&ingredient.ID, &ingredient.UserID, &ingredient.Name); err != nil {
			return err
		}
		recipe.Ingredients = append(recipe.Ingredients, ingredient)
	}
	return rows.Err()
}

func scanRecipe(scanner interface{ Scan(...interface{}) error }) (models.Recipe, error) {
	var recipe models.Recipe
	err := scanner.Scan(&recipe.ID, &recipe.UserID, &recipe.Title, &recipe.TimeMinutes,
		&recipe.Price, &recipe.Link, &recipe.ImagePath, &recipe.CreatedAt)
	if err != nil {
		return recipe, err
	}
	if recipe.ImagePath != "" {
		recipe.Image = "/media/" + recipe.ImagePath
	}
	return recipe, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func insertLinks(tx *sql.Tx, table, column string, recipeID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT OR IGNORE INTO %s(recipe_id, %s) VALUES(?, ?)", table, column)
	stmt, err := tx.Prepare(q)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.Exec(recipeID, id); err != nil {
			return err
		}
	}
	return nil
}

func replaceLinks(tx *sql.Tx, table, column string, recipeID int64, ids []int64) error {
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE recipe_id = ?", table), recipeID); err != nil {
		return err
	}
	return insertLinks(tx, table, column, recipeID, ids)
}
