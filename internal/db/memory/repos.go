package memory

import (
	"context"
	"strings"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

type userRepo struct{ s *Store }

func cloneUser(u *users.User) *users.User {
	c := *u
	c.Posts = relations.Clone(u.Posts)
	return &c
}

func (r *userRepo) Create(ctx context.Context, user *users.User) error {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return users.ErrEmailTaken
		}
	}
	r.s.users[user.ID] = cloneUser(user)
	r.s.userOrder = append(r.s.userOrder, user.ID)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[string]*users.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			result[id] = cloneUser(u)
		}
	}
	return result, nil
}

func (r *userRepo) UpdatePosts(ctx context.Context, id string, postIDs []string) error {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.ErrUserNotFound
	}
	next := cloneUser(u)
	next.Posts = relations.Clone(postIDs)
	r.s.users[id] = next
	return nil
}

func (r *userRepo) List(ctx context.Context) ([]*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*users.User, 0, len(r.s.userOrder))
	for _, id := range r.s.userOrder {
		result = append(result, cloneUser(r.s.users[id]))
	}
	return result, nil
}

type postRepo struct{ s *Store }

func (r *postRepo) Create(ctx context.Context, post *posts.Post) error {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.posts[post.ID] = post.Clone()
	r.s.postOrder = append(r.s.postOrder, post.ID)
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, posts.ErrPostNotFound
	}
	return p.Clone(), nil
}

func (r *postRepo) List(ctx context.Context) ([]*posts.Post, error) {
	return r.filter(func(*posts.Post) bool { return true }), nil
}

func (r *postRepo) ListByOwner(ctx context.Context, ownerID string) ([]*posts.Post, error) {
	return r.filter(func(p *posts.Post) bool { return p.OwnerID == ownerID }), nil
}

func (r *postRepo) filter(keep func(*posts.Post) bool) []*posts.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*posts.Post, 0)
	for _, id := range r.s.postOrder {
		if p := r.s.posts[id]; keep(p) {
			result = append(result, p.Clone())
		}
	}
	return result
}

func (r *postRepo) Update(ctx context.Context, post *posts.Post) error {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.posts[post.ID]
	if !ok {
		return posts.ErrPostNotFound
	}
	next := post.Clone()
	next.OwnerID = existing.OwnerID
	next.CreatedAt = existing.CreatedAt
	r.s.posts[post.ID] = next
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return posts.ErrPostNotFound
	}
	delete(r.s.posts, id)
	r.s.postOrder = removeID(r.s.postOrder, id)
	return nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(ctx context.Context, comment *comments.Comment) error {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.comments[comment.ID] = comment.Clone()
	r.s.commentOrder = append(r.s.commentOrder, comment.ID)
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*comments.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, comments.ErrCommentNotFound
	}
	return c.Clone(), nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID string) ([]*comments.Comment, error) {
	return r.filter(func(c *comments.Comment) bool { return c.PostID == postID }), nil
}

func (r *commentRepo) List(ctx context.Context) ([]*comments.Comment, error) {
	return r.filter(func(*comments.Comment) bool { return true }), nil
}

func (r *commentRepo) filter(keep func(*comments.Comment) bool) []*comments.Comment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*comments.Comment, 0)
	for _, id := range r.s.commentOrder {
		if c := r.s.comments[id]; keep(c) {
			result = append(result, c.Clone())
		}
	}
	return result
}

func (r *commentRepo) Update(ctx context.Context, comment *comments.Comment) error {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.comments[comment.ID]
	if !ok {
		return comments.ErrCommentNotFound
	}
	next := comment.Clone()
	next.OwnerID = existing.OwnerID
	next.PostID = existing.PostID
	next.CreatedAt = existing.CreatedAt
	r.s.comments[comment.ID] = next
	return nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return comments.ErrCommentNotFound
	}
	delete(r.s.comments, id)
	r.s.commentOrder = removeID(r.s.commentOrder, id)
	return nil
}

func (r *commentRepo) DeleteByPost(ctx context.Context, postID string) (int, error) {
	defer r.s.guardWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	removed := 0
	kept := make([]string, 0, len(r.s.commentOrder))
	for _, id := range r.s.commentOrder {
		if r.s.comments[id].PostID == postID {
			delete(r.s.comments, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	r.s.commentOrder = kept
	return removed, nil
}
