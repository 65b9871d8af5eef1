package user

import (
	"net/http"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// RegisterHandler creates accounts
type RegisterHandler struct {
	service users.Service
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(service users.Service) *RegisterHandler {
	return &RegisterHandler{service: service}
}

// HandleRegister handles POST /users
func (h *RegisterHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, user)
}
