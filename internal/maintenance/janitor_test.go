package maintenance

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/mealstash/recipe-api-be/internal/database"
	"github.com/mealstash/recipe-api-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewJanitorRejectsBadSchedule(t *testing.T) {
	db := newTestDB(t)
	_, err := NewJanitor(db, services.NewEventService(db, nil), t.TempDir(), "not a cron expr")
	assert.Error(t, err)
}

func TestSweepRemovesOrphanedMedia(t *testing.T) {
	db := newTestDB(t)
	events := services.NewEventService(db, nil)
	mediaPath := t.TempDir()

	user, err := services.NewUserService(db).CreateUser("kim@gmail.com", "password123", "")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO recipes(user_id, title, time_minutes, price, image_path) VALUES(?, ?, ?, ?, ?)",
		user.ID, "Pancakes", 10, 5.0, "recipes/kept.png")
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(mediaPath, "recipes"), 0755))
	kept := filepath.Join(mediaPath, "recipes", "kept.png")
	orphan := filepath.Join(mediaPath, "recipes", "orphan.png")
	require.NoError(t, os.WriteFile(kept, []byte("img"), 0644))
	require.NoError(t, os.WriteFile(orphan, []byte("img"), 0644))

	janitor, err := NewJanitor(db, events, mediaPath, "0 4 * * *")
	require.NoError(t, err)
	janitor.Sweep()

	_, err = os.Stat(kept)
	assert.NoError(t, err)
	_, err = os.Stat(orphan)
	assert.True(t, os.IsNotExist(err))
}

func TestSweepPurgesExpiredEvents(t *testing.T) {
	db := newTestDB(t)
	events := services.NewEventService(db, nil)

	user, err := services.NewUserService(db).CreateUser("kim@gmail.com", "password123", "")
	require.NoError(t, err)
	events.Record(user.ID, "recipe.create", "fresh")
	_, err = db.Exec("INSERT INTO events(user_id, type, message, created_at) VALUES(?, ?, ?, datetime('now', '-45 days'))",
		user.ID, "recipe.create", "stale")
	require.NoError(t, err)

	janitor, err := NewJanitor(db, events, t.TempDir(), "0 4 * * *")
	require.NoError(t, err)
	janitor.Sweep()

	recent, err := events.Recent(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "fresh", recent[0].Message)
}
