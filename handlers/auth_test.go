package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/models"
)

func TestAuth_RegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correcthorse",
		Name:     "Ada",
	})
	requireStatus(t, rec, http.StatusCreated)
	registered := decode[models.AuthResponse](t, rec)
	require.NotEmpty(t, registered.Token)
	assert.Equal(t, "ada@example.com", registered.User.Email)

	// the issued token is accepted by protected routes
	rec = s.request(t, http.MethodGet, "/api/auth/token", registered.Token, nil)
	requireStatus(t, rec, http.StatusOK)

	rec = s.request(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "ada@example.com",
		Password: "correcthorse",
	})
	requireStatus(t, rec, http.StatusOK)
	loggedIn := decode[models.AuthResponse](t, rec)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestAuth_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	body := models.RegisterRequest{Email: "ada@example.com", Password: "correcthorse"}
	requireStatus(t, s.request(t, http.MethodPost, "/api/auth/register", "", body), http.StatusCreated)
	requireStatus(t, s.request(t, http.MethodPost, "/api/auth/register", "", body), http.StatusConflict)
}

func TestAuth_BadCredentials(t *testing.T) {
	s := newTestServer(t)

	requireStatus(t, s.request(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correcthorse",
	}), http.StatusCreated)

	t.Run("wrong password", func(t *testing.T) {
		rec := s.request(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
			Email:    "ada@example.com",
			Password: "wrong",
		})
		requireStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := s.request(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "correcthorse",
		})
		requireStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("short password rejected at register", func(t *testing.T) {
		rec := s.request(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
			Email:    "bob@example.com",
			Password: "short",
		})
		requireStatus(t, rec, http.StatusBadRequest)
	})
}
