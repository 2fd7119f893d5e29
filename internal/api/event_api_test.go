package api

import (
	"net/http"
	"testing"

	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/events", "", nil)
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestRecentEventsAreScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "user@example.com")
	other, _ := env.createUser(t, "other@example.com")

	foreign := sampleRecipeInput()
	foreign.Title = "Foreign dish"
	_, err := env.recipes.CreateRecipe(other.ID, foreign)
	require.NoError(t, err)
	created, err := env.recipes.CreateRecipe(user.ID, sampleRecipeInput())
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/events", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var events []models.Event
	decodeJSON(t, rec, &events)
	require.NotEmpty(t, events)
	for _, event := range events {
		assert.Contains(t, event.Message, created.Title)
		assert.NotContains(t, event.Message, foreign.Title)
	}
}
