package posts

import "context"

// Service defines the business logic interface for posts
// Keeps the owner's posts list consistent with the post collection
type Service interface {
	ListPosts(ctx context.Context) ([]*Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	ListUserPosts(ctx context.Context, userID string) ([]*Post, error)

	// CreatePost inserts the post and appends its id to the owner's posts list
	// Both writes happen in one transaction
	CreatePost(ctx context.Context, ownerID, content string) (*Post, error)

	// UpdatePost replaces postContent; only the owner may update
	UpdatePost(ctx context.Context, callerID, id, content string) (*Post, error)

	// DeletePost removes the post, its id from the owner's list and its comments
	DeletePost(ctx context.Context, callerID, id string) error

	// LikePost toggles the caller's like and keeps likes == len(whoLike)
	LikePost(ctx context.Context, callerID, id string) (*Post, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a new post
	Create(ctx context.Context, post *Post) error

	// GetByID returns ErrPostNotFound when absent
	GetByID(ctx context.Context, id string) (*Post, error)

	// List returns every post in creation order
	List(ctx context.Context) ([]*Post, error)

	// ListByOwner returns the owner's posts in creation order, empty when none
	ListByOwner(ctx context.Context, ownerID string) ([]*Post, error)

	// Update persists content, likes, whoLike and comments
	// Owner and id are immutable and never written
	Update(ctx context.Context, post *Post) error

	// Delete removes the post; returns ErrPostNotFound when absent
	Delete(ctx context.Context, id string) error
}

// CommentCascade removes the comments attached to a post
// Satisfied by the comment repository
type CommentCascade interface {
	DeleteByPost(ctx context.Context, postID string) (int, error)
}
