package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
)

// CreateHandler handles comment creation
type CreateHandler struct {
	service comments.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service comments.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate handles POST /comments/post/{postId}
// Responds with the comment and its owner's {id, name, avatar}
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if !requireUser(w, userID) {
		return
	}

	var req comments.CreateCommentRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	view, err := h.service.CreateComment(r.Context(), userID, chi.URLParam(r, "postId"), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, view)
}
