// Package maintenance runs the background cleanup loop: orphaned media
// files left behind by image replacement, and expired activity entries.
package maintenance

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/mealstash/recipe-api-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// eventRetentionDays is how long activity entries are kept.
const eventRetentionDays = 30

// Janitor sweeps the media directory and the activity log on a cron
// schedule.
type Janitor struct {
	db        *sql.DB
	events    services.EventServiceProvider
	mediaPath string
	schedule  cron.Schedule
	next      time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewJanitor creates a janitor from a standard cron expression.
func NewJanitor(db *sql.DB, events services.EventServiceProvider, mediaPath, cronExpr string) (*Janitor, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Janitor{
		db:        db,
		events:    events,
		mediaPath: mediaPath,
		schedule:  schedule,
		done:      make(chan bool),
	}, nil
}

// Run starts the janitor's ticking loop.
func (j *Janitor) Run() {
	log.Info().Msg("Starting maintenance janitor")
	j.next = j.schedule.Next(time.Now())
	j.ticker = time.NewTicker(1 * time.Minute)
	defer j.ticker.Stop()

	for {
		select {
		case <-j.done:
			log.Info().Msg("Stopping maintenance janitor")
			return
		case now := <-j.ticker.C:
			if now.After(j.next) {
				j.Sweep()
				j.next = j.schedule.Next(now)
			}
		}
	}
}

// Stop halts the janitor.
func (j *Janitor) Stop() {
	j.done <- true
}

// Sweep runs one maintenance pass.
func (j *Janitor) Sweep() {
	if n, err := j.sweepMedia(); err != nil {
		log.Error().Err(err).Msg("Janitor: media sweep failed")
	} else if n > 0 {
		log.Info().Int("removed", n).Msg("Janitor: removed orphaned media files")
	}

	if n, err := j.events.PurgeOlderThan(eventRetentionDays); err != nil {
		log.Error().Err(err).Msg("Janitor: event purge failed")
	} else if n > 0 {
		log.Info().Int64("removed", n).Msg("Janitor: purged expired events")
	}
}

// sweepMedia removes files under the media root that no recipe
// references anymore.
func (j *Janitor) sweepMedia() (int, error) {
	referenced := make(map[string]bool)
	rows, err := j.db.Query("SELECT image_path FROM recipes WHERE image_path != ''")
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return 0, err
		}
		referenced[filepath.FromSlash(p)] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	removed := 0
	root := filepath.Join(j.mediaPath, "recipes")
	// A missing media root is fine; nothing has been uploaded yet.
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(j.mediaPath, path)
		if err != nil {
			return nil
		}
		if !referenced[rel] {
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}
