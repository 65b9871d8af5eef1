package comments

import (
	"errors"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist
	ErrCommentNotFound = errors.New("can't find this comment")

	// ErrPostNotFound indicates the post being commented on doesn't exist
	ErrPostNotFound = errors.New("can't find this post")

	// ErrNotAuthorized indicates the caller is not the comment owner
	ErrNotAuthorized = errors.New("you are not the owner of this comment")

	// ErrContentEmpty indicates comment content is empty
	ErrContentEmpty = relations.ErrContentEmpty

	// ErrContentTooLong indicates comment content exceeds the grapheme limit
	ErrContentTooLong = relations.ErrContentTooLong
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, users.ErrUserNotFound)
}

// IsForbidden checks if an error is an ownership violation
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentEmpty) ||
		errors.Is(err, ErrContentTooLong)
}
