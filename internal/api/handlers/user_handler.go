package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mealstash/recipe-api-be/internal/auth"
	"github.com/mealstash/recipe-api-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	service  services.UserServiceProvider
	secret   []byte
	tokenTTL time.Duration
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, secret []byte, tokenTTL time.Duration) *UserHandler {
	return &UserHandler{service: service, secret: secret, tokenTTL: tokenTTL}
}

// RegisterPayload defines the structure for signup requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// TokenPayload defines the structure for token requests.
type TokenPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create handles new account registration.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.CreateUser(payload.Email, payload.Password, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Token authenticates an account and issues a bearer token.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	var payload TokenPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", services.NormalizeEmail(payload.Email)).Msg("Failed authentication attempt")
		writeError(w, err)
		return
	}

	token, err := auth.GenerateToken(user, h.secret, h.tokenTTL)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate token")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me retrieves the account behind the presented token.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUserByID(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
