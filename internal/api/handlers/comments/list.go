package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
)

// ListHandler serves the comments of a single post
type ListHandler struct {
	service comments.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service comments.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList handles GET /comments/post/{postId}
// An unknown post is a 404, not an empty list
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPostComments(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}
