// Package reconcile repairs the reference lists that tie users, posts and
// comments together. It is safe to run against live traffic and is idempotent.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// Report summarizes what a run changed
type Report struct {
	OrphanCommentsDeleted int `json:"orphanCommentsDeleted"`
	UsersRepaired         int `json:"usersRepaired"`
	PostsRepaired         int `json:"postsRepaired"`
	CommentsRepaired      int `json:"commentsRepaired"`
}

// Changed reports whether the run modified anything
func (r *Report) Changed() bool {
	return r.OrphanCommentsDeleted+r.UsersRepaired+r.PostsRepaired+r.CommentsRepaired > 0
}

// Options controls a reconcile run
type Options struct {
	// DryRun computes the report without writing
	DryRun bool
}

// Service sweeps orphans and rebuilds reference lists
type Service struct {
	userRepo    users.UserRepository
	postRepo    posts.Repository
	commentRepo comments.Repository
	tx          relations.Transactor
	logger      *slog.Logger
	opts        Options
}

// NewService creates a reconcile service
func NewService(
	userRepo users.UserRepository,
	postRepo posts.Repository,
	commentRepo comments.Repository,
	tx relations.Transactor,
	opts Options,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		tx:          tx,
		opts:        opts,
		logger:      logger,
	}
}

// Run performs one pass:
// 1. Delete comments whose post no longer exists
// 2. Rebuild each post's comments list and like state
// 3. Rebuild each user's posts list
// 4. De-duplicate each comment's whoLike
//
// Each record is re-read and rewritten inside its own transaction, so
// concurrent requests are never blocked for the whole run.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := s.sweepOrphanComments(ctx, report); err != nil {
		return report, err
	}
	if err := s.repairPosts(ctx, report); err != nil {
		return report, err
	}
	if err := s.repairUsers(ctx, report); err != nil {
		return report, err
	}
	if err := s.repairComments(ctx, report); err != nil {
		return report, err
	}

	s.logger.Info("reconcile finished",
		"dry_run", s.opts.DryRun,
		"orphan_comments_deleted", report.OrphanCommentsDeleted,
		"users_repaired", report.UsersRepaired,
		"posts_repaired", report.PostsRepaired,
		"comments_repaired", report.CommentsRepaired)

	return report, nil
}

func (s *Service) sweepOrphanComments(ctx context.Context, report *Report) error {
	allComments, err := s.commentRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	allPosts, err := s.postRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	live := make(map[string]struct{}, len(allPosts))
	for _, p := range allPosts {
		live[p.ID] = struct{}{}
	}

	for _, c := range allComments {
		if _, ok := live[c.PostID]; ok {
			continue
		}
		s.logger.Warn("orphan comment", "comment", c.ID, "post", c.PostID)
		report.OrphanCommentsDeleted++
		if s.opts.DryRun {
			continue
		}
		if err := s.commentRepo.Delete(ctx, c.ID); err != nil && !errors.Is(err, comments.ErrCommentNotFound) {
			return fmt.Errorf("failed to delete orphan comment %s: %w", c.ID, err)
		}
	}
	return nil
}

func (s *Service) repairPosts(ctx context.Context, report *Report) error {
	allPosts, err := s.postRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	for _, snapshot := range allPosts {
		var changed bool
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			post, err := s.postRepo.GetByID(ctx, snapshot.ID)
			if err != nil {
				return err
			}
			owned, err := s.commentRepo.ListByPost(ctx, post.ID)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(owned))
			for _, c := range owned {
				ids = append(ids, c.ID)
			}

			nextComments := rebuildRefs(post.Comments, ids)
			nextWhoLike := relations.Dedupe(post.WhoLike)
			if slices.Equal(nextComments, post.Comments) &&
				slices.Equal(nextWhoLike, post.WhoLike) &&
				post.Likes == len(nextWhoLike) {
				return nil
			}

			changed = true
			s.logger.Warn("post references out of sync",
				"post", post.ID,
				"comments", len(post.Comments),
				"expected_comments", len(nextComments),
				"likes", post.Likes,
				"expected_likes", len(nextWhoLike))
			if s.opts.DryRun {
				return nil
			}

			post.Comments = nextComments
			post.WhoLike = nextWhoLike
			post.Likes = len(nextWhoLike)
			return s.postRepo.Update(ctx, post)
		})
		if errors.Is(err, posts.ErrPostNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to repair post %s: %w", snapshot.ID, err)
		}
		if changed {
			report.PostsRepaired++
		}
	}
	return nil
}

func (s *Service) repairUsers(ctx context.Context, report *Report) error {
	allUsers, err := s.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, snapshot := range allUsers {
		var changed bool
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			user, err := s.userRepo.GetByID(ctx, snapshot.ID)
			if err != nil {
				return err
			}
			owned, err := s.postRepo.ListByOwner(ctx, user.ID)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(owned))
			for _, p := range owned {
				ids = append(ids, p.ID)
			}

			next := rebuildRefs(user.Posts, ids)
			if slices.Equal(next, user.Posts) {
				return nil
			}

			changed = true
			s.logger.Warn("user posts out of sync",
				"user", user.ID,
				"posts", len(user.Posts),
				"expected_posts", len(next))
			if s.opts.DryRun {
				return nil
			}
			return s.userRepo.UpdatePosts(ctx, user.ID, next)
		})
		if errors.Is(err, users.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to repair user %s: %w", snapshot.ID, err)
		}
		if changed {
			report.UsersRepaired++
		}
	}
	return nil
}

func (s *Service) repairComments(ctx context.Context, report *Report) error {
	allComments, err := s.commentRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}

	for _, snapshot := range allComments {
		if len(relations.Dedupe(snapshot.WhoLike)) == len(snapshot.WhoLike) {
			continue
		}
		var changed bool
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			comment, err := s.commentRepo.GetByID(ctx, snapshot.ID)
			if err != nil {
				return err
			}
			next := relations.Dedupe(comment.WhoLike)
			if slices.Equal(next, comment.WhoLike) {
				return nil
			}
			changed = true
			if s.opts.DryRun {
				return nil
			}
			comment.WhoLike = next
			return s.commentRepo.Update(ctx, comment)
		})
		if errors.Is(err, comments.ErrCommentNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to repair comment %s: %w", snapshot.ID, err)
		}
		if changed {
			report.CommentsRepaired++
		}
	}
	return nil
}

// rebuildRefs keeps the entries of current that appear in owned, once each and
// in their current order, then appends owned ids that were missing, in
// owned's order (creation order).
func rebuildRefs(current, owned []string) []string {
	valid := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		valid[id] = struct{}{}
	}

	next := make([]string, 0, len(owned))
	seen := make(map[string]struct{}, len(owned))
	for _, id := range current {
		if _, ok := valid[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}
	for _, id := range owned {
		if _, ok := seen[id]; !ok {
			next = append(next, id)
		}
	}
	return next
}
