package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/comments"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

const commentColumns = `id, owner_id, post_id, content, who_like, created_at, updated_at`

func scanComment(row interface{ Scan(...interface{}) error }) (*comments.Comment, error) {
	comment := &comments.Comment{}
	var whoLike []string
	err := row.Scan(&comment.ID, &comment.OwnerID, &comment.PostID, &comment.Content,
		pq.Array(&whoLike), &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if whoLike == nil {
		whoLike = []string{}
	}
	comment.WhoLike = whoLike
	return comment, nil
}

// Create inserts a new comment
func (r *postgresCommentRepo) Create(ctx context.Context, comment *comments.Comment) error {
	query := `
		INSERT INTO comments (id, owner_id, post_id, content, who_like, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		comment.ID, comment.OwnerID, comment.PostID, comment.Content,
		stringArray(comment.WhoLike), comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by id
func (r *postgresCommentRepo) GetByID(ctx context.Context, id string) (*comments.Comment, error) {
	if !validID(id) {
		return nil, comments.ErrCommentNotFound
	}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1` + lockClause(ctx)

	comment, err := scanComment(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// ListByPost returns the comments attached to postID in creation order
func (r *postgresCommentRepo) ListByPost(ctx context.Context, postID string) ([]*comments.Comment, error) {
	if !validID(postID) {
		return []*comments.Comment{}, nil
	}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at, id`
	return r.query(ctx, query, postID)
}

// List returns every comment in creation order
func (r *postgresCommentRepo) List(ctx context.Context) ([]*comments.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments ORDER BY created_at, id`
	return r.query(ctx, query)
}

func (r *postgresCommentRepo) query(ctx context.Context, query string, args ...interface{}) ([]*comments.Comment, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*comments.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

// Update persists content and whoLike
func (r *postgresCommentRepo) Update(ctx context.Context, comment *comments.Comment) error {
	if !validID(comment.ID) {
		return comments.ErrCommentNotFound
	}
	query := `UPDATE comments SET content = $2, who_like = $3, updated_at = $4 WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		comment.ID, comment.Content, stringArray(comment.WhoLike), comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectOneRow(res, comments.ErrCommentNotFound)
}

// Delete removes a comment
func (r *postgresCommentRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return comments.ErrCommentNotFound
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return expectOneRow(res, comments.ErrCommentNotFound)
}

// DeleteByPost removes every comment attached to postID
func (r *postgresCommentRepo) DeleteByPost(ctx context.Context, postID string) (int, error) {
	if !validID(postID) {
		return 0, nil
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete post comments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
