package comments_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
	"github.com/khaledtf19/Lposts2-Backend/internal/db/memory"
)

type fixture struct {
	store    *memory.Store
	posts    posts.Service
	comments comments.Service
}

func newFixture(t *testing.T, userIDs ...string) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, id := range userIDs {
		require.NoError(t, store.Users().Create(context.Background(), &users.User{
			ID:        id,
			Name:      "name-" + id,
			Email:     id + "@example.com",
			Avatar:    "https://cdn.example.com/" + id + ".png",
			Posts:     []string{},
			CreatedAt: time.Now(),
		}))
	}
	userService := users.NewUserService(store.Users(), nil)
	return &fixture{
		store:    store,
		posts:    posts.NewPostService(store.Posts(), store.Users(), store.Comments(), store, nil),
		comments: comments.NewCommentService(store.Comments(), store.Posts(), userService, store, nil),
	}
}

func (f *fixture) post(t *testing.T, ownerID string) *posts.Post {
	t.Helper()
	p, err := f.posts.CreatePost(context.Background(), ownerID, "post by "+ownerID)
	require.NoError(t, err)
	return p
}

func (f *fixture) postComments(t *testing.T, postID string) []string {
	t.Helper()
	p, err := f.store.Posts().GetByID(context.Background(), postID)
	require.NoError(t, err)
	return p.Comments
}

func TestCreateComment(t *testing.T) {
	f := newFixture(t, "author", "reader")
	ctx := context.Background()
	post := f.post(t, "author")

	view, err := f.comments.CreateComment(ctx, "reader", post.ID, " nice post ")
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, post.ID, view.PostID)
	assert.Equal(t, "nice post", view.Content)
	assert.Empty(t, view.WhoLike)
	assert.Equal(t, users.OwnerView{
		ID:     "reader",
		Name:   "name-reader",
		Avatar: "https://cdn.example.com/reader.png",
	}, view.Owner)
	assert.Equal(t, []string{view.ID}, f.postComments(t, post.ID))

	stored, err := f.store.Comments().GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader", stored.OwnerID)
}

func TestCreateComment_Errors(t *testing.T) {
	f := newFixture(t, "author")
	ctx := context.Background()
	post := f.post(t, "author")

	_, err := f.comments.CreateComment(ctx, "author", "missing", "hi")
	assert.ErrorIs(t, err, comments.ErrPostNotFound)
	assert.True(t, comments.IsNotFound(err))

	_, err = f.comments.CreateComment(ctx, "ghost", post.ID, "hi")
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	_, err = f.comments.CreateComment(ctx, "author", post.ID, "")
	assert.ErrorIs(t, err, comments.ErrContentEmpty)
	assert.True(t, comments.IsValidationError(err))

	assert.Empty(t, f.postComments(t, post.ID))
	all, err := f.store.Comments().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

type failingCommentRepo struct {
	comments.Repository
}

func (r *failingCommentRepo) Create(ctx context.Context, c *comments.Comment) error {
	return errors.New("connection reset")
}

func TestCreateComment_RollsBackPostLink(t *testing.T) {
	f := newFixture(t, "author")
	ctx := context.Background()
	post := f.post(t, "author")
	service := comments.NewCommentService(
		&failingCommentRepo{Repository: f.store.Comments()},
		f.store.Posts(),
		users.NewUserService(f.store.Users(), nil),
		f.store,
		nil,
	)

	_, err := service.CreateComment(ctx, "author", post.ID, "hi")
	require.Error(t, err)
	assert.Empty(t, f.postComments(t, post.ID))
}

// stallingCommentRepo fails every insert after running during
type stallingCommentRepo struct {
	comments.Repository
	during func()
}

func (r *stallingCommentRepo) Create(ctx context.Context, c *comments.Comment) error {
	r.during()
	return errors.New("connection reset")
}

func TestCreateComment_FailureKeepsConcurrentWrites(t *testing.T) {
	f := newFixture(t, "author", "reader")
	ctx := context.Background()
	target := f.post(t, "author")
	other := f.post(t, "author")
	kept, err := f.comments.CreateComment(ctx, "reader", other.ID, "keep me")
	require.NoError(t, err)

	liked := make(chan error, 1)
	edited := make(chan error, 1)
	service := comments.NewCommentService(
		&stallingCommentRepo{
			Repository: f.store.Comments(),
			during: func() {
				go func() {
					_, err := f.posts.LikePost(ctx, "reader", other.ID)
					liked <- err
				}()
				go func() {
					_, err := f.comments.UpdateComment(ctx, "reader", kept.ID, "edited")
					edited <- err
				}()
				time.Sleep(50 * time.Millisecond)
			},
		},
		f.store.Posts(),
		users.NewUserService(f.store.Users(), nil),
		f.store,
		nil,
	)

	_, err = service.CreateComment(ctx, "reader", target.ID, "never stored")
	require.Error(t, err)
	require.NoError(t, <-liked)
	require.NoError(t, <-edited)

	assert.Empty(t, f.postComments(t, target.ID))

	stored, err := f.store.Posts().GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"reader"}, stored.WhoLike)
	assert.Equal(t, 1, stored.Likes)
	assert.Equal(t, []string{kept.ID}, stored.Comments)

	comment, err := f.store.Comments().GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", comment.Content)
}

func TestLikeComment_ConcurrentTogglesAreNotLost(t *testing.T) {
	likers := []string{"l1", "l2", "l3", "l4", "l5", "l6"}
	f := newFixture(t, append([]string{"author"}, likers...)...)
	ctx := context.Background()
	post := f.post(t, "author")
	view, err := f.comments.CreateComment(ctx, "author", post.ID, "like me")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range likers {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.comments.LikeComment(ctx, id, view.ID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	stored, err := f.store.Comments().GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, likers, stored.WhoLike)
}

func TestListPostComments(t *testing.T) {
	f := newFixture(t, "author", "reader")
	ctx := context.Background()
	first := f.post(t, "author")
	second := f.post(t, "author")

	a, err := f.comments.CreateComment(ctx, "reader", first.ID, "a")
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, "reader", second.ID, "other")
	require.NoError(t, err)
	b, err := f.comments.CreateComment(ctx, "author", first.ID, "b")
	require.NoError(t, err)

	list, err := f.comments.ListPostComments(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	_, err = f.comments.ListPostComments(ctx, "missing")
	assert.ErrorIs(t, err, comments.ErrPostNotFound)
}

func TestUpdateComment(t *testing.T) {
	f := newFixture(t, "author", "reader")
	ctx := context.Background()
	post := f.post(t, "author")
	view, err := f.comments.CreateComment(ctx, "reader", post.ID, "first")
	require.NoError(t, err)

	updated, err := f.comments.UpdateComment(ctx, "reader", view.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Content)

	_, err = f.comments.UpdateComment(ctx, "author", view.ID, "hijack")
	assert.ErrorIs(t, err, comments.ErrNotAuthorized)
	assert.True(t, comments.IsForbidden(err))

	stored, err := f.store.Comments().GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", stored.Content)

	_, err = f.comments.UpdateComment(ctx, "reader", "missing", "x")
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}

func TestDeleteComment_KeepsSiblingOrder(t *testing.T) {
	f := newFixture(t, "author", "reader")
	ctx := context.Background()
	post := f.post(t, "author")

	ids := make([]string, 0, 3)
	for _, body := range []string{"one", "two", "three"} {
		view, err := f.comments.CreateComment(ctx, "reader", post.ID, body)
		require.NoError(t, err)
		ids = append(ids, view.ID)
	}

	err := f.comments.DeleteComment(ctx, "author", ids[1])
	assert.ErrorIs(t, err, comments.ErrNotAuthorized)
	assert.Equal(t, ids, f.postComments(t, post.ID))

	require.NoError(t, f.comments.DeleteComment(ctx, "reader", ids[1]))
	assert.Equal(t, []string{ids[0], ids[2]}, f.postComments(t, post.ID))

	_, err = f.store.Comments().GetByID(ctx, ids[1])
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)

	err = f.comments.DeleteComment(ctx, "reader", ids[1])
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}

func TestDeleteComment_DanglingParent(t *testing.T) {
	f := newFixture(t, "reader")
	ctx := context.Background()
	require.NoError(t, f.store.Comments().Create(ctx, &comments.Comment{
		ID:      "orphan",
		OwnerID: "reader",
		PostID:  "gone",
		Content: "left behind",
		WhoLike: []string{},
	}))

	require.NoError(t, f.comments.DeleteComment(ctx, "reader", "orphan"))

	_, err := f.store.Comments().GetByID(ctx, "orphan")
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}

func TestLikeComment_Toggle(t *testing.T) {
	f := newFixture(t, "author", "reader")
	ctx := context.Background()
	post := f.post(t, "author")
	view, err := f.comments.CreateComment(ctx, "author", post.ID, "hi")
	require.NoError(t, err)

	liked, err := f.comments.LikeComment(ctx, "reader", view.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"reader"}, liked.WhoLike)

	liked, err = f.comments.LikeComment(ctx, "author", view.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"reader", "author"}, liked.WhoLike)

	unliked, err := f.comments.LikeComment(ctx, "reader", view.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"author"}, unliked.WhoLike)

	_, err = f.comments.LikeComment(ctx, "reader", "missing")
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}

func TestDeletePost_CascadesComments(t *testing.T) {
	f := newFixture(t, "author", "reader")
	ctx := context.Background()
	doomed := f.post(t, "author")
	survivor := f.post(t, "author")

	_, err := f.comments.CreateComment(ctx, "reader", doomed.ID, "a")
	require.NoError(t, err)
	kept, err := f.comments.CreateComment(ctx, "reader", survivor.ID, "b")
	require.NoError(t, err)

	require.NoError(t, f.posts.DeletePost(ctx, "author", doomed.ID))

	all, err := f.store.Comments().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)

	_, err = f.comments.ListPostComments(ctx, doomed.ID)
	assert.ErrorIs(t, err, comments.ErrPostNotFound)
}
