package login

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// TokenIssuer mints access tokens for authenticated users
// Satisfied by *auth.TokenService
type TokenIssuer interface {
	Issue(user *users.User) (string, time.Time, error)
}

// Request is the local-strategy login body
type Request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response carries the bearer token returned on successful login
type Response struct {
	ExpiresAt   time.Time       `json:"expires_at"`
	AccessToken string          `json:"access_token"`
	User        users.OwnerView `json:"user"`
}

// Handler exchanges email/password for a token
type Handler struct {
	service users.Service
	tokens  TokenIssuer
}

// NewHandler creates a new login handler
func NewHandler(service users.Service, tokens TokenIssuer) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// HandleLogin handles POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			handlers.WriteError(w, http.StatusUnauthorized, "InvalidCredentials", err.Error())
			return
		}
		log.Printf("Login failed: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
		return
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		log.Printf("Failed to issue token for user %s: %v", user.ID, err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, Response{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user.View(),
	})
}
