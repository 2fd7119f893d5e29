package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/mealstash/recipe-api-be/internal/auth"
	ws "github.com/mealstash/recipe-api-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP connections to the per-account live
// activity feed.
type WebSocketHandler struct {
	hub    *ws.Hub
	secret []byte
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, secret []byte) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, secret: secret}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve authenticates and registers a websocket connection. Browsers
// cannot set headers on websocket requests, so the token travels as a
// query parameter.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing auth token", http.StatusUnauthorized)
		return
	}
	claims, err := auth.ValidateToken(tokenStr, h.secret)
	if err != nil {
		http.Error(w, "Invalid auth token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
