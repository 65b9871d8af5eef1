package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
)

// GetHandler serves the public post reads
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleList handles GET /posts
func (h *GetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPosts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /posts/{id}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, post)
}

// HandleListByUser handles GET /posts/user/{userId}
// An unknown user yields an empty list
func (h *GetHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListUserPosts(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}
