package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
)

// DeleteHandler handles comment deletion
type DeleteHandler struct {
	service comments.Service
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(service comments.Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete handles DELETE /comments/{id}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if !requireUser(w, userID) {
		return
	}

	if err := h.service.DeleteComment(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
