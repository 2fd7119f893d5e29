package services

import (
	"database/sql"
	"testing"

	"github.com/mealstash/recipe-api-be/internal/database"
	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a migrated in-memory database. Connections are capped
// at one so every query sees the same memory store.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestUser(t *testing.T, db *sql.DB, email string) models.User {
	t.Helper()
	user, err := NewUserService(db).CreateUser(email, "password123", "Test Name")
	require.NoError(t, err)
	return user
}
