package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/user/create", "", map[string]string{
		"email":    "User@Example.com",
		"password": "password123",
		"name":     "Test Name",
	})
	requireStatus(t, rec, http.StatusCreated)

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.Equal(t, "user@example.com", body["email"])
	assert.Equal(t, "Test Name", body["name"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")

	_, err := env.users.Authenticate("user@example.com", "password123")
	require.NoError(t, err)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/user/create", "", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
		"name":     "Other",
	})
	requireStatus(t, rec, http.StatusBadRequest)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decodeJSON(t, rec, &body)
	assert.Contains(t, body.Errors, "email")
}

func TestCreateUserShortPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/user/create", "", map[string]string{
		"email":    "user@example.com",
		"password": "pw",
		"name":     "Test Name",
	})
	requireStatus(t, rec, http.StatusBadRequest)

	var count int
	require.NoError(t, env.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "user@example.com").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestCreateTokenSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email":    "user@example.com",
		"password": "password123",
	})
	requireStatus(t, rec, http.StatusOK)

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.NotEmpty(t, body["token"])
}

func TestCreateTokenBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user@example.com")

	rec := env.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email":    "user@example.com",
		"password": "wrongpass",
	})
	requireStatus(t, rec, http.StatusBadRequest)

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.NotContains(t, body, "token")
}

func TestCreateTokenUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestMeRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/user/me", "", nil)
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestMeReturnsProfile(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "user@example.com")

	rec := env.do(t, http.MethodGet, "/api/v1/user/me", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.Equal(t, user.Email, body["email"])
	assert.Equal(t, user.Name, body["name"])
}
