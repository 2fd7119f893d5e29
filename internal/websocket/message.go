package websocket

import (
	"encoding/json"

	"github.com/mealstash/recipe-api-be/internal/models"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewActivityMessage encodes an activity event for the live feed.
func NewActivityMessage(event models.Event) []byte {
	data, _ := json.Marshal(Message{Action: "activity", Payload: event})
	return data
}
