package routes

import (
	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers/login"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers/user"
	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// RegisterUserRoutes registers account and profile endpoints
func RegisterUserRoutes(r chi.Router, service users.Service, authMiddleware *middleware.JWTAuthMiddleware) {
	registerHandler := user.NewRegisterHandler(service)
	profileHandler := user.NewProfileHandler(service)

	r.Post("/users", registerHandler.HandleRegister)
	r.With(authMiddleware.RequireAuth).Get("/users/me", profileHandler.HandleMe)
	r.Get("/users/{id}", profileHandler.HandleGetProfile)
}

// RegisterAuthRoutes registers the local-strategy login endpoint
func RegisterAuthRoutes(r chi.Router, service users.Service, tokens login.TokenIssuer) {
	loginHandler := login.NewHandler(service, tokens)

	r.Post("/auth/login", loginHandler.HandleLogin)
}
