package routes

import (
	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers/post"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers post endpoints on the router
// Reads are public; writes require a bearer token
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.JWTAuthMiddleware) {
	getHandler := post.NewGetHandler(service)
	createHandler := post.NewCreateHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)
	likeHandler := post.NewLikeHandler(service)

	r.Get("/posts", getHandler.HandleList)
	r.Get("/posts/{id}", getHandler.HandleGet)
	r.Get("/posts/user/{userId}", getHandler.HandleListByUser)

	r.With(authMiddleware.RequireAuth).Post("/posts", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Patch("/posts/{id}", updateHandler.HandleUpdate)

	// Only the owner may delete; the post's comments go with it
	r.With(authMiddleware.RequireAuth).Delete("/posts/{id}", deleteHandler.HandleDelete)

	r.With(authMiddleware.RequireAuth).Post("/posts/{id}/like", likeHandler.HandleLike)
}
