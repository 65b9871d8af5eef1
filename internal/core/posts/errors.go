package posts

import (
	"errors"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// Sentinel errors for common post operations
var (
	// ErrPostNotFound is returned when a post id does not resolve to a stored record
	ErrPostNotFound = errors.New("post not found")

	// ErrNotAuthorized is returned when the caller is not the post owner
	ErrNotAuthorized = errors.New("you are not the owner of this post")

	// ErrContentEmpty is returned when postContent is blank
	ErrContentEmpty = relations.ErrContentEmpty

	// ErrContentTooLong is returned when postContent exceeds the grapheme limit
	ErrContentTooLong = relations.ErrContentTooLong
)

// IsNotFound checks if error is a not found error (post or its owner)
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) || errors.Is(err, users.ErrUserNotFound)
}

// IsForbidden checks if error is an ownership violation
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

// IsValidationError checks if error is a content validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentEmpty) || errors.Is(err, ErrContentTooLong)
}
