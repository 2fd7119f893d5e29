package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/mealstash/recipe-api-be/internal/apperr"
	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/mealstash/recipe-api-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/recipe/tags", "", nil)
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestListTagsOrderedByName(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "user@example.com")

	for _, name := range []string{"Vegan", "Dessert"} {
		_, err := env.tags.CreateTag(user.ID, name)
		require.NoError(t, err)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/recipe/tags", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var tags []models.Tag
	decodeJSON(t, rec, &tags)
	require.Len(t, tags, 2)
	assert.Equal(t, "Vegan", tags[0].Name)
	assert.Equal(t, "Dessert", tags[1].Name)
}

func TestListTagsLimitedToUser(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "user@example.com")
	other, _ := env.createUser(t, "other@example.com")

	_, err := env.tags.CreateTag(other.ID, "Fruity")
	require.NoError(t, err)
	mine, err := env.tags.CreateTag(user.ID, "Comfort Food")
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/recipe/tags", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var tags []models.Tag
	decodeJSON(t, rec, &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, mine.Name, tags[0].Name)
	assert.Equal(t, mine.ID, tags[0].ID)
}

func TestCreateTag(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/recipe/tags", token, map[string]string{"name": "Spicy"})
	requireStatus(t, rec, http.StatusCreated)

	var tag models.Tag
	decodeJSON(t, rec, &tag)
	assert.Equal(t, "Spicy", tag.Name)

	stored, err := env.tags.GetTagByID(user.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spicy", stored.Name)
}

func TestCreateTagBlankName(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/recipe/tags", token, map[string]string{"name": ""})
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateTag(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "user@example.com")
	tag, err := env.tags.CreateTag(user.ID, "After Dinner")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/recipe/tags/%d", tag.ID), token,
		map[string]string{"name": "Dessert"})
	requireStatus(t, rec, http.StatusOK)

	stored, err := env.tags.GetTagByID(user.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dessert", stored.Name)
}

func TestDeleteTag(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "user@example.com")
	tag, err := env.tags.CreateTag(user.ID, "Breakfast")
	require.NoError(t, err)

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipe/tags/%d", tag.ID), token, nil)
	requireStatus(t, rec, http.StatusNoContent)

	_, err = env.tags.GetTagByID(user.ID, tag.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestForeignTagIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "user@example.com")
	other, _ := env.createUser(t, "other@example.com")
	tag, err := env.tags.CreateTag(other.ID, "Fruity")
	require.NoError(t, err)

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipe/tags/%d", tag.ID), token, nil)
	requireStatus(t, rec, http.StatusNotFound)
}

func TestListTagsAssignedOnly(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "user@example.com")

	assigned, err := env.tags.CreateTag(user.ID, "Breakfast")
	require.NoError(t, err)
	_, err = env.tags.CreateTag(user.ID, "Lunch")
	require.NoError(t, err)

	for _, title := range []string{"Pancakes", "Porridge"} {
		_, err = env.recipes.CreateRecipe(user.ID, services.RecipeInput{
			Title:       title,
			TimeMinutes: 10,
			Price:       3.5,
			TagIDs:      []int64{assigned.ID},
		})
		require.NoError(t, err)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/recipe/tags?assigned_only=1", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var tags []models.Tag
	decodeJSON(t, rec, &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, assigned.ID, tags[0].ID)
}
