package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

const postColumns = `id, owner_id, content, likes, who_like, comments, created_at, updated_at`

func scanPost(row interface{ Scan(...interface{}) error }) (*posts.Post, error) {
	post := &posts.Post{}
	var whoLike, comments []string
	err := row.Scan(&post.ID, &post.OwnerID, &post.Content, &post.Likes,
		pq.Array(&whoLike), pq.Array(&comments), &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if whoLike == nil {
		whoLike = []string{}
	}
	if comments == nil {
		comments = []string{}
	}
	post.WhoLike = whoLike
	post.Comments = comments
	return post, nil
}

// Create inserts a new post
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (id, owner_id, content, likes, who_like, comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		post.ID, post.OwnerID, post.Content, post.Likes,
		stringArray(post.WhoLike), stringArray(post.Comments), post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by id
// Inside a transaction the row is locked until commit
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	if !validID(id) {
		return nil, posts.ErrPostNotFound
	}
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1` + lockClause(ctx)

	post, err := scanPost(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// List returns every post in creation order
func (r *postgresPostRepo) List(ctx context.Context) ([]*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at, id`
	return r.query(ctx, query)
}

// ListByOwner returns the owner's posts in creation order
func (r *postgresPostRepo) ListByOwner(ctx context.Context, ownerID string) ([]*posts.Post, error) {
	if !validID(ownerID) {
		return []*posts.Post{}, nil
	}
	query := `SELECT ` + postColumns + ` FROM posts WHERE owner_id = $1 ORDER BY created_at, id`
	return r.query(ctx, query, ownerID)
}

func (r *postgresPostRepo) query(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*posts.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}

// Update persists content, likes, whoLike and comments
// owner_id and created_at are never written
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post) error {
	if !validID(post.ID) {
		return posts.ErrPostNotFound
	}
	query := `
		UPDATE posts
		SET content = $2, likes = $3, who_like = $4, comments = $5, updated_at = $6
		WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		post.ID, post.Content, post.Likes,
		stringArray(post.WhoLike), stringArray(post.Comments), post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return expectOneRow(res, posts.ErrPostNotFound)
}

// Delete removes a post
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return posts.ErrPostNotFound
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectOneRow(res, posts.ErrPostNotFound)
}
