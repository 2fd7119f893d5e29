package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mealstash/recipe-api-be/internal/query"
	"github.com/mealstash/recipe-api-be/internal/services"
)

// TagHandler handles HTTP requests for tags.
type TagHandler struct {
	service services.TagServiceProvider
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(service services.TagServiceProvider) *TagHandler {
	return &TagHandler{service: service}
}

// NamePayload is the request body for name-only resources.
type NamePayload struct {
	Name string `json:"name"`
}

// List returns the caller's tags. With assigned_only only tags attached
// to at least one recipe are returned.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	opts := query.ListOptions{AssignedOnly: query.ParseBool(r.URL.Query().Get("assigned_only"))}
	tags, err := h.service.ListTags(userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// Create adds a tag owned by the caller.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	tag, err := h.service.CreateTag(userID, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// Get returns a single tag.
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	tag, err := h.service.GetTagByID(userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Update renames a tag. PUT and PATCH behave the same here since name is
// the only writable field.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	tag, err := h.service.UpdateTag(userID, id, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Delete removes a tag.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteTag(userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
