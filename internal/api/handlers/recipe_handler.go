package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/mealstash/recipe-api-be/internal/query"
	"github.com/mealstash/recipe-api-be/internal/services"
)

// maxImageUploadBytes caps a single image upload.
const maxImageUploadBytes = 10 << 20

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service services.RecipeServiceProvider
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service services.RecipeServiceProvider) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// RecipePayload is the request body for recipe create and update. Nil
// pointers mean the field was omitted, which matters for PATCH.
type RecipePayload struct {
	Title       *string  `json:"title"`
	TimeMinutes *int     `json:"timeMinutes"`
	Price       *float64 `json:"price"`
	Link        *string  `json:"link"`
	Tags        *[]int64 `json:"tags"`
	Ingredients *[]int64 `json:"ingredients"`
}

// recipeListItem is the list response shape: associations by id only.
type recipeListItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"timeMinutes"`
	Price       float64 `json:"price"`
	Link        string  `json:"link,omitempty"`
	Image       string  `json:"image,omitempty"`
	Tags        []int64 `json:"tags"`
	Ingredients []int64 `json:"ingredients"`
}

func toListItem(recipe models.Recipe) recipeListItem {
	return recipeListItem{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Image:       recipe.Image,
		Tags:        recipe.TagIDs(),
		Ingredients: recipe.IngredientIDs(),
	}
}

// List returns the caller's recipes, optionally filtered by tag and
// ingredient id sets.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	params := r.URL.Query()
	tagIDs, err := query.ParseIDList("tags", params.Get("tags"))
	if err != nil {
		writeError(w, err)
		return
	}
	ingredientIDs, err := query.ParseIDList("ingredients", params.Get("ingredients"))
	if err != nil {
		writeError(w, err)
		return
	}

	recipes, err := h.service.ListRecipes(userID, query.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]recipeListItem, 0, len(recipes))
	for _, recipe := range recipes {
		items = append(items, toListItem(recipe))
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns a recipe with nested tag and ingredient objects.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	recipe, err := h.service.GetRecipeByID(userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Create adds a recipe owned by the caller.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	var payload RecipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input := services.RecipeInput{}
	if payload.Title != nil {
		input.Title = *payload.Title
	}
	if payload.TimeMinutes != nil {
		input.TimeMinutes = *payload.TimeMinutes
	}
	if payload.Price != nil {
		input.Price = *payload.Price
	}
	if payload.Link != nil {
		input.Link = *payload.Link
	}
	if payload.Tags != nil {
		input.TagIDs = *payload.Tags
	}
	if payload.Ingredients != nil {
		input.IngredientIDs = *payload.Ingredients
	}

	recipe, err := h.service.CreateRecipe(userID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

// Update handles both PUT (full replace, omitted associations cleared)
// and PATCH (partial, omitted fields untouched).
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload RecipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	partial := r.Method == http.MethodPatch
	recipe, err := h.service.UpdateRecipe(userID, id, services.RecipeUpdate{
		Title:         payload.Title,
		TimeMinutes:   payload.TimeMinutes,
		Price:         payload.Price,
		Link:          payload.Link,
		TagIDs:        payload.Tags,
		IngredientIDs: payload.Ingredients,
	}, partial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Delete removes a recipe.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteRecipe(userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage validates and stores a recipe image from a multipart form.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}
	id, err := urlID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	recipe, err := h.service.AttachImage(userID, id, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}
