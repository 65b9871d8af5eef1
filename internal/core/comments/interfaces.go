package comments

import "context"

// Service defines the business logic interface for comment operations
// Keeps each post's comments list consistent with the comment collection
type Service interface {
	// ListPostComments returns ErrPostNotFound for an unknown post, never an empty list
	ListPostComments(ctx context.Context, postID string) ([]*Comment, error)

	// CreateComment appends the new id to the post's comments list and inserts the comment
	CreateComment(ctx context.Context, ownerID, postID, content string) (*CommentView, error)

	// UpdateComment replaces commentContent; only the owner may update
	UpdateComment(ctx context.Context, callerID, commentID, content string) (*Comment, error)

	// DeleteComment unlinks the comment from its post and removes it
	DeleteComment(ctx context.Context, callerID, commentID string) error

	// LikeComment toggles the caller's membership in whoLike
	LikeComment(ctx context.Context, callerID, commentID string) (*Comment, error)
}

// Repository defines the data access interface for comments
type Repository interface {
	Create(ctx context.Context, comment *Comment) error

	// GetByID returns ErrCommentNotFound when absent
	GetByID(ctx context.Context, id string) (*Comment, error)

	// ListByPost scans the comment collection for postID, creation order
	ListByPost(ctx context.Context, postID string) ([]*Comment, error)

	// List returns every comment in creation order
	// Used by the reconciler
	List(ctx context.Context) ([]*Comment, error)

	// Update persists content and whoLike
	Update(ctx context.Context, comment *Comment) error

	// Delete removes the comment; returns ErrCommentNotFound when absent
	Delete(ctx context.Context, id string) error

	// DeleteByPost removes every comment attached to postID and reports how many
	DeleteByPost(ctx context.Context, postID string) (int, error)
}
