package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of connected clients and routes activity
// messages to the account they belong to.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Deliver requests an owner-scoped broadcast.
	deliver chan delivery

	// Connected clients grouped by account id.
	subscriptions map[int64]map[*Client]bool
}

type delivery struct {
	userID  int64
	message []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		deliver:       make(chan delivery, 16),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[int64]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			if h.subscriptions[client.UserID] == nil {
				h.subscriptions[client.UserID] = make(map[*Client]bool)
			}
			h.subscriptions[client.UserID][client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case d := <-h.deliver:
			for client := range h.subscriptions[d.userID] {
				select {
				case client.Send <- d.message:
				default:
					h.drop(client)
				}
			}
		}
	}
}

// BroadcastTo sends a message to every client connected for the given
// account. Other accounts' clients never see it.
func (h *Hub) BroadcastTo(userID int64, message []byte) {
	h.deliver <- delivery{userID: userID, message: message}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
