package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
)

// UpdateHandler handles comment edits
type UpdateHandler struct {
	service comments.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service comments.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PATCH /comments/{id}
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if !requireUser(w, userID) {
		return
	}

	var req comments.CreateCommentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), userID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, comment)
}
