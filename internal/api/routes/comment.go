package routes

import (
	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	commentsCore "github.com/khaledtf19/Lposts2-Backend/internal/core/comments"

	"github.com/go-chi/chi/v5"
)

// RegisterCommentRoutes registers comment endpoints on the router
// All write operations (create, update, delete, like) require authentication
func RegisterCommentRoutes(r chi.Router, service commentsCore.Service, authMiddleware *middleware.JWTAuthMiddleware) {
	listHandler := comments.NewListHandler(service)
	createHandler := comments.NewCreateHandler(service)
	updateHandler := comments.NewUpdateHandler(service)
	deleteHandler := comments.NewDeleteHandler(service)
	likeHandler := comments.NewLikeHandler(service)

	r.Get("/comments/post/{postId}", listHandler.HandleList)

	r.With(authMiddleware.RequireAuth).Post(
		"/comments/post/{postId}",
		createHandler.HandleCreate)

	r.With(authMiddleware.RequireAuth).Patch(
		"/comments/{id}",
		updateHandler.HandleUpdate)

	r.With(authMiddleware.RequireAuth).Delete(
		"/comments/{id}",
		deleteHandler.HandleDelete)

	r.With(authMiddleware.RequireAuth).Post(
		"/comments/{id}/like",
		likeHandler.HandleLike)
}
