package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// ProfileHandler serves user profiles
type ProfileHandler struct {
	service users.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service users.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// HandleGetProfile handles GET /users/{id}
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	h.writeProfile(w, r, chi.URLParam(r, "id"))
}

// HandleMe handles GET /users/me for the authenticated caller
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}
	h.writeProfile(w, r, userID)
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, profile)
}
