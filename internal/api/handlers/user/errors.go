package user

import (
	"log"
	"net/http"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/handlers"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// handleServiceError maps user service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case users.IsNotFound(err):
		handlers.WriteError(w, http.StatusNotFound, "UserNotFound", "User not found")
	case users.IsConflict(err):
		handlers.WriteError(w, http.StatusConflict, "EmailTaken", err.Error())
	case users.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		log.Printf("Unexpected error in user handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
