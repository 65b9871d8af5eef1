package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
)

// LikeHandler toggles the caller's like on a comment
type LikeHandler struct {
	service comments.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service comments.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleLike handles POST /comments/{id}/like
// Responds with {whoLike} only
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if !requireUser(w, userID) {
		return
	}

	comment, err := h.service.LikeComment(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	whoLike := comment.WhoLike
	if whoLike == nil {
		whoLike = []string{}
	}
	handlers.WriteJSON(w, http.StatusOK, comments.LikesView{WhoLike: whoLike})
}
