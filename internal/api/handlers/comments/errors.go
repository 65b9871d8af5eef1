package comments

import (
	"log"
	"net/http"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
)

// handleServiceError maps comment service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case comments.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", err.Error())
	case comments.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "NotAuthorized", err.Error())
	case comments.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		log.Printf("Unexpected error in comments handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}

func requireUser(w http.ResponseWriter, userID string) bool {
	if userID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return false
	}
	return true
}
