package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mealstash/recipe-api-be/internal/query"
	"github.com/mealstash/recipe-api-be/internal/services"
)

// IngredientHandler handles HTTP requests for ingredients.
type IngredientHandler struct {
	service services.IngredientServiceProvider
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(service services.IngredientServiceProvider) *IngredientHandler {
	return &IngredientHandler{service: service}
}

// List returns the caller's ingredients, optionally assigned-only.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	opts := query.ListOptions{AssignedOnly: query.ParseBool(r.URL.Query().Get("assigned_only"))}
	ingredients, err := h.service.ListIngredients(userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// Create adds an ingredient owned by the caller.
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	var payload NamePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ingredient, err := h.service.CreateIngredient(userID, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ingredient)
}

// Get returns a single ingredient.
func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	ingredient, err := h.service.GetIngredientByID(userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

// Update renames an ingredient.
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var payload NamePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ingredient, err := h.service.UpdateIngredient(userID, id, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

// Delete removes an ingredient.
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteIngredient(userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
