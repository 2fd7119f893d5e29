package services

import (
	"database/sql"

	"github.com/mealstash/recipe-api-be/internal/models"
	"github.com/mealstash/recipe-api-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// EventServiceProvider defines the interface for the per-account
// activity log.
type EventServiceProvider interface {
	Record(userID int64, eventType, message string)
	Recent(userID int64, limit int) ([]models.Event, error)
	PurgeOlderThan(days int) (int64, error)
}

// EventService persists activity entries and pushes them to the owner's
// live feed. A failed write never fails the operation that produced the
// event.
type EventService struct {
	db  *sql.DB
	hub *websocket.Hub // may be nil when no live feed is wired
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, hub *websocket.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// Record stores an activity entry for a user and broadcasts it to the
// user's websocket subscribers.
func (s *EventService) Record(userID int64, eventType, message string) {
	res, err := s.db.Exec("INSERT INTO events (user_id, type, message) VALUES (?, ?, ?)", userID, eventType, message)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("type", eventType).Msg("Failed to record event")
		return
	}

	if s.hub != nil {
		id, _ := res.LastInsertId()
		event := models.Event{ID: id, UserID: userID, Type: eventType, Message: message}
		s.hub.BroadcastTo(userID, websocket.NewActivityMessage(event))
	}
}

// Recent retrieves the most recent activity entries for a user.
func (s *EventService) Recent(userID int64, limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, type, message, created_at FROM events WHERE user_id = ? ORDER BY id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.UserID, &event.Type, &event.Message, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PurgeOlderThan deletes activity entries older than the given number of
// days and returns how many were removed.
func (s *EventService) PurgeOlderThan(days int) (int64, error) {
	res, err := s.db.Exec("DELETE FROM events WHERE created_at < datetime('now', '-' || ? || ' days')", days)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
