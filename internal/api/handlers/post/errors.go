package post

import (
	"log"
	"net/http"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case posts.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", err.Error())

	case posts.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "NotAuthorized", err.Error())

	case posts.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in post handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
