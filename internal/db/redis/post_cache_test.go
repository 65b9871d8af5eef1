package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/db/memory"
)

// countingRepo counts GetByID calls that reach the backing store
type countingRepo struct {
	posts.Repository
	gets int
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	r.gets++
	return r.Repository.GetByID(ctx, id)
}

func setup(t *testing.T) (*miniredis.Miniredis, *memory.Store, *countingRepo, posts.Repository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memory.NewStore()
	inner := &countingRepo{Repository: store.Posts()}
	repo := NewCachedPostRepository(inner, client, time.Minute, memory.InTx, nil)

	require.NoError(t, repo.Create(context.Background(), &posts.Post{
		ID:       "p1",
		OwnerID:  "u1",
		Content:  "hello",
		WhoLike:  []string{},
		Comments: []string{},
	}))
	return mr, store, inner, repo
}

func TestGetByID_ReadThrough(t *testing.T) {
	mr, _, inner, repo := setup(t)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, first.Content, second.Content)
	assert.True(t, mr.Exists("post:p1"))
	assert.Equal(t, time.Minute, mr.TTL("post:p1"))
}

func TestUpdate_Invalidates(t *testing.T) {
	mr, _, inner, repo := setup(t)
	ctx := context.Background()

	post, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)

	post.WhoLike = []string{"u2"}
	post.Likes = 1
	require.NoError(t, repo.Update(ctx, post))
	assert.False(t, mr.Exists("post:p1"))

	fresh, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Likes)
	assert.Equal(t, 2, inner.gets)
}

func TestDelete_Invalidates(t *testing.T) {
	mr, _, _, repo := setup(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "p1"))
	assert.False(t, mr.Exists("post:p1"))

	_, err = repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, posts.ErrPostNotFound)
}

func TestGetByID_BypassesCacheInTransaction(t *testing.T) {
	mr, store, inner, repo := setup(t)

	err := store.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := repo.GetByID(ctx, "p1")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.gets)
	assert.False(t, mr.Exists("post:p1"))
}

func TestGetByID_FallsBackWhenRedisDown(t *testing.T) {
	mr, _, inner, repo := setup(t)
	mr.Close()

	post, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, 1, inner.gets)
}

func TestGetByID_MissIsNotCached(t *testing.T) {
	mr, _, _, repo := setup(t)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, posts.ErrPostNotFound)
	assert.False(t, mr.Exists("post:nope"))
}

func TestGetByID_StopsCallingRedisAfterRepeatedFailures(t *testing.T) {
	mr, _, inner, repo := setup(t)
	mr.Close()
	cached := repo.(*cachedPostRepo)

	for i := 0; i < cached.breaker.failureThreshold; i++ {
		_, err := repo.GetByID(context.Background(), "p1")
		require.NoError(t, err)
	}
	assert.Equal(t, stateOpen, cached.breaker.current())

	_, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, cached.breaker.failureThreshold+1, inner.gets)
}
