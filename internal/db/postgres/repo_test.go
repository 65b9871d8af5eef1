package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
	"github.com/khaledtf19/Lposts2-Backend/internal/db/migrations"
)

// setupTestDB connects to TEST_DATABASE_URL and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, migrations.Up(db), "Failed to run migrations")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// createTestUser inserts a user and removes it with everything it owns afterwards
func createTestUser(t *testing.T, db *sql.DB) *users.User {
	t.Helper()
	id := uuid.NewString()
	user := &users.User{
		ID:           id,
		Name:         "test-" + id[:8],
		Email:        id + "@example.test",
		PasswordHash: "x",
		Posts:        []string{},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM comments WHERE owner_id = $1 OR post_id IN (SELECT id FROM posts WHERE owner_id = $1)`, id)
		_, _ = db.Exec(`DELETE FROM posts WHERE owner_id = $1`, id)
		_, _ = db.Exec(`DELETE FROM users WHERE id = $1`, id)
	})
	return user
}

func newPost(ownerID string) *posts.Post {
	now := time.Now().UTC()
	return &posts.Post{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Content:   "hello",
		WhoLike:   []string{},
		Comments:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, got.Name)
	assert.Empty(t, got.Posts)

	byEmail, err := repo.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	dup := *user
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Create(ctx, &dup), users.ErrEmailTaken)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, users.ErrUserNotFound)
	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestUserRepo_GetByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	a := createTestUser(t, db)
	b := createTestUser(t, db)

	found, err := repo.GetByIDs(context.Background(), []string{a.ID, b.ID, uuid.NewString(), "junk"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Contains(t, found, a.ID)
	assert.Contains(t, found, b.ID)
}

func TestPostRepo_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db)

	post := newPost(owner.ID)
	require.NoError(t, repo.Create(ctx, post))

	liker := uuid.NewString()
	post.WhoLike = []string{liker}
	post.Likes = 1
	post.Content = "edited"
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, []string{liker}, got.WhoLike)
	assert.Empty(t, got.Comments)

	mine, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, repo.Delete(ctx, post.ID))
	assert.ErrorIs(t, repo.Delete(ctx, post.ID), posts.ErrPostNotFound)
	assert.ErrorIs(t, repo.Update(ctx, post), posts.ErrPostNotFound)
}

func TestCommentRepo_DeleteByPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db)
	post := newPost(owner.ID)
	require.NoError(t, NewPostRepository(db).Create(ctx, post))

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &comments.Comment{
			ID:        uuid.NewString(),
			OwnerID:   owner.ID,
			PostID:    post.ID,
			Content:   "c",
			WhoLike:   []string{},
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}))
	}

	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	n, err := repo.DeleteByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTransactor_Rollback(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTransactor(db)
	postRepo := NewPostRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db)
	post := newPost(owner.ID)
	boom := errors.New("boom")

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, postRepo.Create(ctx, post))
		require.NoError(t, userRepo.UpdatePosts(ctx, owner.ID, []string{post.ID}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = postRepo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, posts.ErrPostNotFound)
	got, err := userRepo.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Posts)
}

func TestTransactor_Commit(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTransactor(db)
	postRepo := NewPostRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db)
	post := newPost(owner.ID)

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := userRepo.GetByID(ctx, owner.ID); err != nil {
			return err
		}
		if err := postRepo.Create(ctx, post); err != nil {
			return err
		}
		return userRepo.UpdatePosts(ctx, owner.ID, []string{post.ID})
	})
	require.NoError(t, err)

	got, err := userRepo.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{post.ID}, got.Posts)
}
