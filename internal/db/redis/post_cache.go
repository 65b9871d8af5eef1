// Package redis fronts the post repository with a read-through cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
)

// TxDetector reports whether ctx carries a storage transaction.
// Reads inside a transaction go straight to the inner repository so row
// locks and uncommitted writes are honoured.
type TxDetector func(ctx context.Context) bool

// cachedPostRepo caches single-post reads and invalidates on every write.
// Lists are never cached. Redis failures degrade to the inner repository.
type cachedPostRepo struct {
	inner   posts.Repository
	client  goredis.UniversalClient
	inTx    TxDetector
	breaker *breaker
	logger  *slog.Logger
	ttl     time.Duration
}

// NewCachedPostRepository wraps inner with a Redis read-through cache
func NewCachedPostRepository(
	inner posts.Repository,
	client goredis.UniversalClient,
	ttl time.Duration,
	inTx TxDetector,
	logger *slog.Logger,
) posts.Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if inTx == nil {
		inTx = func(context.Context) bool { return false }
	}
	return &cachedPostRepo{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		inTx:    inTx,
		breaker: newBreaker(logger),
		logger:  logger,
	}
}

// NewClient parses a redis:// URL and verifies the server is reachable
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func postKey(id string) string {
	return "post:" + id
}

func (r *cachedPostRepo) Create(ctx context.Context, post *posts.Post) error {
	return r.inner.Create(ctx, post)
}

// GetByID serves from Redis when possible and fills the cache on a miss
func (r *cachedPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	if r.inTx(ctx) || !r.breaker.allow() {
		return r.inner.GetByID(ctx, id)
	}

	data, err := r.client.Get(ctx, postKey(id)).Bytes()
	switch {
	case err == nil:
		r.breaker.success()
		var post posts.Post
		if err := json.Unmarshal(data, &post); err == nil {
			return &post, nil
		}
		r.logger.Warn("discarding undecodable cached post", "post", id, "error", err)
	case errors.Is(err, goredis.Nil):
		r.breaker.success()
	default:
		r.breaker.failure(err)
		r.logger.Warn("post cache read failed", "post", id, "error", err)
		return r.inner.GetByID(ctx, id)
	}

	post, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(post); err == nil {
		if err := r.client.Set(ctx, postKey(id), data, r.ttl).Err(); err != nil {
			r.breaker.failure(err)
			r.logger.Warn("post cache write failed", "post", id, "error", err)
		}
	}
	return post, nil
}

func (r *cachedPostRepo) List(ctx context.Context) ([]*posts.Post, error) {
	return r.inner.List(ctx)
}

func (r *cachedPostRepo) ListByOwner(ctx context.Context, ownerID string) ([]*posts.Post, error) {
	return r.inner.ListByOwner(ctx, ownerID)
}

func (r *cachedPostRepo) Update(ctx context.Context, post *posts.Post) error {
	if err := r.inner.Update(ctx, post); err != nil {
		return err
	}
	r.invalidate(ctx, post.ID)
	return nil
}

func (r *cachedPostRepo) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedPostRepo) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, postKey(id)).Err(); err != nil {
		r.logger.Error("post cache invalidation failed", "post", id, "error", err)
	}
}
