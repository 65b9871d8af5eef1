package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

type postService struct {
	repo     Repository
	userRepo users.UserRepository
	comments CommentCascade
	tx       relations.Transactor
	logger   *slog.Logger
}

// NewPostService creates a new post service
// comments may be nil, in which case deleting a post leaves its comments in place
func NewPostService(
	repo Repository,
	userRepo users.UserRepository,
	comments CommentCascade,
	tx relations.Transactor,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:     repo,
		userRepo: userRepo,
		comments: comments,
		tx:       tx,
		logger:   logger,
	}
}

// ListPosts returns every post, unfiltered
func (s *postService) ListPosts(ctx context.Context) ([]*Post, error) {
	return s.repo.List(ctx)
}

// GetPost retrieves a post by id
func (s *postService) GetPost(ctx context.Context, id string) (*Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrPostNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListUserPosts returns the posts owned by userID
func (s *postService) ListUserPosts(ctx context.Context, userID string) ([]*Post, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// CreatePost creates a post and links it to its owner
// Flow:
// 1. Validate content
// 2. Load owner (fails with users.ErrUserNotFound before anything is written)
// 3. Insert post and append its id to owner.posts in one transaction
func (s *postService) CreatePost(ctx context.Context, ownerID, content string) (*Post, error) {
	content, err := relations.ValidateContent(content, relations.MaxContentGraphemes)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, users.ErrUserNotFound
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Content:   content,
		Likes:     0,
		WhoLike:   []string{},
		Comments:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		owner, err := s.userRepo.GetByID(ctx, ownerID)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, post); err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
		if err := s.userRepo.UpdatePosts(ctx, owner.ID, relations.AppendRef(owner.Posts, post.ID)); err != nil {
			return fmt.Errorf("failed to link post to owner: %w", err)
		}
		return nil
	})
	if err != nil {
		if !users.IsNotFound(err) {
			s.logger.Error("failed to create post",
				"error", err,
				"owner", ownerID)
		}
		return nil, err
	}

	s.logger.Info("post created",
		"post", post.ID,
		"owner", ownerID)

	return post, nil
}

// UpdatePost replaces the content of a post owned by the caller
// The read and the write share a transaction so a comment linked
// concurrently is never written back out of post.comments
func (s *postService) UpdatePost(ctx context.Context, callerID, id, content string) (*Post, error) {
	content, err := relations.ValidateContent(content, relations.MaxContentGraphemes)
	if err != nil {
		return nil, err
	}

	var updated *Post
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.GetPost(ctx, id)
		if err != nil {
			return err
		}

		if !relations.IsOwner(post.OwnerID, callerID) {
			s.logger.Warn("post update rejected: not owner",
				"post", id,
				"caller", callerID)
			return ErrNotAuthorized
		}

		post.Content = content
		post.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, post); err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeletePost removes a post owned by the caller
// Flow (one transaction):
// 1. Remove the post id from the caller's posts list (first matching index)
// 2. Delete the post's comments
// 3. Delete the post record
func (s *postService) DeletePost(ctx context.Context, callerID, id string) error {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}

	if !relations.IsOwner(post.OwnerID, callerID) {
		s.logger.Warn("post delete rejected: not owner",
			"post", id,
			"caller", callerID)
		return ErrNotAuthorized
	}

	var removedComments int
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		owner, err := s.userRepo.GetByID(ctx, callerID)
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			// Dangling owner reference; nothing to unlink
			s.logger.Warn("post owner missing during delete",
				"post", id,
				"owner", callerID)
		case err != nil:
			return fmt.Errorf("failed to load owner: %w", err)
		default:
			if next, removed := relations.RemoveFirstRef(owner.Posts, id); removed {
				if err := s.userRepo.UpdatePosts(ctx, owner.ID, next); err != nil {
					return fmt.Errorf("failed to unlink post from owner: %w", err)
				}
			}
		}

		if s.comments != nil {
			n, err := s.comments.DeleteByPost(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to delete post comments: %w", err)
			}
			removedComments = n
		}

		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("failed to delete post",
			"error", err,
			"post", id,
			"caller", callerID)
		return err
	}

	s.logger.Info("post deleted",
		"post", id,
		"owner", callerID,
		"comments_removed", removedComments)

	return nil
}

// LikePost toggles the caller's like on a post
// No existing like → append caller
// Existing like → remove caller
// likes is recomputed from whoLike on every toggle. The toggle runs in a
// transaction so concurrent toggles and comment links are not lost
func (s *postService) LikePost(ctx context.Context, callerID, id string) (*Post, error) {
	var (
		updated *Post
		liked   bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.GetPost(ctx, id)
		if err != nil {
			return err
		}

		post.WhoLike, liked = relations.ToggleMember(post.WhoLike, callerID)
		post.Likes = len(post.WhoLike)
		post.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, post); err != nil {
			return fmt.Errorf("failed to update likes: %w", err)
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("post like toggled",
		"post", id,
		"user", callerID,
		"liked", liked,
		"likes", updated.Likes)

	return updated, nil
}
