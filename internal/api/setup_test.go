package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mealstash/recipe-api-be/internal/auth"
	"github.com/mealstash/recipe-api-be/internal/database"
	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/mealstash/recipe-api-be/internal/services"
	"github.com/mealstash/recipe-api-be/internal/websocket"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

// testEnv wires the real services and router over an in-memory database.
type testEnv struct {
	mux         *chi.Mux
	db          *sql.DB
	users       *services.UserService
	tags        *services.TagService
	ingredients *services.IngredientService
	recipes     *services.RecipeService
	mediaPath   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	mediaPath := t.TempDir()
	hub := websocket.NewHub()
	go hub.Run()

	userService := services.NewUserService(db)
	eventService := services.NewEventService(db, hub)
	tagService := services.NewTagService(db)
	ingredientService := services.NewIngredientService(db)
	recipeService := services.NewRecipeService(db, eventService, mediaPath)

	mux := NewRouter(RouterDeps{
		Hub:         hub,
		Users:       userService,
		Tags:        tagService,
		Ingredients: ingredientService,
		Recipes:     recipeService,
		Events:      eventService,
		JWTSecret:   testSecret,
		TokenTTL:    time.Hour,
		MediaPath:   mediaPath,
	})

	return &testEnv{
		mux:         mux,
		db:          db,
		users:       userService,
		tags:        tagService,
		ingredients: ingredientService,
		recipes:     recipeService,
		mediaPath:   mediaPath,
	}
}

// createUser provisions an account directly through the service and
// returns it with a valid bearer token.
func (e *testEnv) createUser(t *testing.T, email string) (models.User, string) {
	t.Helper()
	user, err := e.users.CreateUser(email, "password123", "Test Name")
	require.NoError(t, err)
	token, err := auth.GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

// do performs a JSON request against the router.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "unexpected status, body: %s", rec.Body.String())
}
