package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// OwnerResolver resolves owner projections for response hydration
// Satisfied by users.Service
type OwnerResolver interface {
	GetOwnerViews(ctx context.Context, ids []string) (map[string]users.OwnerView, error)
}

// commentService implements the Service interface
type commentService struct {
	commentRepo Repository           // Comment data access
	postRepo    posts.Repository     // Parent post lookup and comments list updates
	owners      OwnerResolver        // Owner projection for create responses
	tx          relations.Transactor // Atomic post + comment writes
	logger      *slog.Logger
}

// NewCommentService creates a new comment service instance
func NewCommentService(
	commentRepo Repository,
	postRepo posts.Repository,
	owners OwnerResolver,
	tx relations.Transactor,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		owners:      owners,
		tx:          tx,
		logger:      logger,
	}
}

// ListPostComments returns the comments of an existing post
// Reads the comment collection by postId rather than the post's cached id list
func (s *commentService) ListPostComments(ctx context.Context, postID string) ([]*Comment, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// CreateComment creates a new comment on a post
// Flow:
// 1. Validate content
// 2. Verify the post and the owner exist
// 3. In one transaction: append the id to post.comments, save the post, insert the comment
// 4. Return the comment with the owner projection
func (s *commentService) CreateComment(ctx context.Context, ownerID, postID, content string) (*CommentView, error) {
	content, err := relations.ValidateContent(content, relations.MaxContentGraphemes)
	if err != nil {
		return nil, err
	}

	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	owner, err := s.resolveOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &Comment{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		PostID:    postID,
		Content:   content,
		WhoLike:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Reload inside the transaction so the list we extend is current
		post, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}
		post.Comments = relations.AppendRef(post.Comments, comment.ID)
		post.UpdatedAt = now
		if err := s.postRepo.Update(ctx, post); err != nil {
			return fmt.Errorf("failed to link comment to post: %w", err)
		}
		if err := s.commentRepo.Create(ctx, comment); err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create comment",
			"error", err,
			"owner", ownerID,
			"post", postID)
		return nil, err
	}

	s.logger.Info("comment created",
		"comment", comment.ID,
		"owner", ownerID,
		"post", postID)

	return NewCommentView(comment, owner), nil
}

// UpdateComment updates an existing comment's content
func (s *commentService) UpdateComment(ctx context.Context, callerID, commentID, content string) (*Comment, error) {
	content, err := relations.ValidateContent(content, relations.MaxContentGraphemes)
	if err != nil {
		return nil, err
	}

	var updated *Comment
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		comment, err := s.loadOwnedComment(ctx, callerID, commentID)
		if err != nil {
			return err
		}

		comment.Content = content
		comment.UpdatedAt = time.Now().UTC()

		if err := s.commentRepo.Update(ctx, comment); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}
		updated = comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteComment removes a comment owned by the caller
// The comment id is removed from the parent post's list (first matching index)
// in the same transaction as the record delete. A missing parent post is a
// dangling reference: the list update is skipped and the comment still goes.
func (s *commentService) DeleteComment(ctx context.Context, callerID, commentID string) error {
	comment, err := s.loadOwnedComment(ctx, callerID, commentID)
	if err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		switch {
		case errors.Is(err, posts.ErrPostNotFound):
			s.logger.Warn("comment parent missing during delete",
				"comment", commentID,
				"post", comment.PostID)
		case err != nil:
			return fmt.Errorf("failed to load parent post: %w", err)
		default:
			if next, removed := relations.RemoveFirstRef(post.Comments, commentID); removed {
				post.Comments = next
				post.UpdatedAt = time.Now().UTC()
				if err := s.postRepo.Update(ctx, post); err != nil {
					return fmt.Errorf("failed to unlink comment from post: %w", err)
				}
			}
		}

		return s.commentRepo.Delete(ctx, commentID)
	})
	if err != nil {
		s.logger.Error("failed to delete comment",
			"error", err,
			"comment", commentID,
			"caller", callerID)
		return err
	}

	s.logger.Info("comment deleted",
		"comment", commentID,
		"owner", callerID,
		"post", comment.PostID)

	return nil
}

// LikeComment toggles the caller's like on a comment
// Comments carry no cached count; whoLike is the only state
func (s *commentService) LikeComment(ctx context.Context, callerID, commentID string) (*Comment, error) {
	var (
		updated *Comment
		liked   bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		comment, err := s.loadComment(ctx, commentID)
		if err != nil {
			return err
		}

		comment.WhoLike, liked = relations.ToggleMember(comment.WhoLike, callerID)
		comment.UpdatedAt = time.Now().UTC()

		if err := s.commentRepo.Update(ctx, comment); err != nil {
			return fmt.Errorf("failed to update likes: %w", err)
		}
		updated = comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("comment like toggled",
		"comment", commentID,
		"user", callerID,
		"liked", liked)

	return updated, nil
}

// loadPost fetches a post and maps absence to ErrPostNotFound
func (s *commentService) loadPost(ctx context.Context, postID string) (*posts.Post, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, ErrPostNotFound
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, posts.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return post, nil
}

func (s *commentService) loadComment(ctx context.Context, commentID string) (*Comment, error) {
	if strings.TrimSpace(commentID) == "" {
		return nil, ErrCommentNotFound
	}
	return s.commentRepo.GetByID(ctx, commentID)
}

// loadOwnedComment fetches a comment and enforces ownership
func (s *commentService) loadOwnedComment(ctx context.Context, callerID, commentID string) (*Comment, error) {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !relations.IsOwner(comment.OwnerID, callerID) {
		s.logger.Warn("comment mutation rejected: not owner",
			"comment", commentID,
			"caller", callerID)
		return nil, ErrNotAuthorized
	}
	return comment, nil
}

func (s *commentService) resolveOwner(ctx context.Context, ownerID string) (users.OwnerView, error) {
	if strings.TrimSpace(ownerID) == "" {
		return users.OwnerView{}, users.ErrUserNotFound
	}
	views, err := s.owners.GetOwnerViews(ctx, []string{ownerID})
	if err != nil {
		return users.OwnerView{}, err
	}
	owner, ok := views[ownerID]
	if !ok {
		return users.OwnerView{}, users.ErrUserNotFound
	}
	return owner, nil
}
