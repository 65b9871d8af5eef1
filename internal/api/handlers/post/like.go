package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
)

// LikeHandler toggles the caller's like on a post
type LikeHandler struct {
	service posts.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service posts.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleLike handles POST /posts/{id}/like and returns the updated post
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	post, err := h.service.LikePost(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}
