package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/reconcile"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
	"github.com/khaledtf19/Lposts2-Backend/internal/db/memory"
)

// seedBroken builds a store with one inconsistency of every kind
func seedBroken(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Now()

	require.NoError(t, store.Users().Create(ctx, &users.User{
		ID:    "alice",
		Email: "alice@example.com",
		// p-gone does not exist, p2 is missing, p1 is duplicated
		Posts: []string{"p1", "p-gone", "p1"},
	}))
	require.NoError(t, store.Users().Create(ctx, &users.User{
		ID:    "bob",
		Email: "bob@example.com",
		Posts: []string{},
	}))

	require.NoError(t, store.Posts().Create(ctx, &posts.Post{
		ID:      "p1",
		OwnerID: "alice",
		// bob liked twice and likes drifted
		WhoLike:   []string{"bob", "bob"},
		Likes:     5,
		Comments:  []string{"c-gone", "c1"},
		CreatedAt: base,
	}))
	require.NoError(t, store.Posts().Create(ctx, &posts.Post{
		ID:        "p2",
		OwnerID:   "alice",
		WhoLike:   []string{},
		Comments:  []string{},
		CreatedAt: base.Add(time.Second),
	}))

	for _, c := range []*comments.Comment{
		{ID: "c1", OwnerID: "bob", PostID: "p1", WhoLike: []string{"alice", "alice"}},
		// missing from p1.comments
		{ID: "c2", OwnerID: "bob", PostID: "p1", WhoLike: []string{}},
		// parent deleted
		{ID: "c-orphan", OwnerID: "bob", PostID: "p-deleted", WhoLike: []string{}},
	} {
		require.NoError(t, store.Comments().Create(ctx, c))
	}
	return store
}

func newService(store *memory.Store, opts reconcile.Options) *reconcile.Service {
	return reconcile.NewService(store.Users(), store.Posts(), store.Comments(), store, opts, nil)
}

func TestRun_RepairsEverything(t *testing.T) {
	store := seedBroken(t)
	ctx := context.Background()

	report, err := newService(store, reconcile.Options{}).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, &reconcile.Report{
		OrphanCommentsDeleted: 1,
		UsersRepaired:         1,
		PostsRepaired:         1,
		CommentsRepaired:      1,
	}, report)

	alice, err := store.Users().GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, alice.Posts)

	p1, err := store.Posts().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, p1.Comments)
	assert.Equal(t, []string{"bob"}, p1.WhoLike)
	assert.Equal(t, 1, p1.Likes)

	c1, err := store.Comments().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, c1.WhoLike)

	_, err = store.Comments().GetByID(ctx, "c-orphan")
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}

func TestRun_Idempotent(t *testing.T) {
	store := seedBroken(t)
	svc := newService(store, reconcile.Options{})

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Changed())
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	store := seedBroken(t)
	ctx := context.Background()

	report, err := newService(store, reconcile.Options{DryRun: true}).Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Changed())

	alice, err := store.Users().GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p-gone", "p1"}, alice.Posts)

	_, err = store.Comments().GetByID(ctx, "c-orphan")
	assert.NoError(t, err)
}

func TestRun_ConsistentStoreIsUntouched(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &users.User{ID: "alice", Email: "a@example.com", Posts: []string{}}))

	postService := posts.NewPostService(store.Posts(), store.Users(), store.Comments(), store, nil)
	post, err := postService.CreatePost(ctx, "alice", "hello")
	require.NoError(t, err)
	_, err = postService.LikePost(ctx, "alice", post.ID)
	require.NoError(t, err)

	report, err := newService(store, reconcile.Options{}).Run(ctx)
	require.NoError(t, err)
	assert.False(t, report.Changed())
}
