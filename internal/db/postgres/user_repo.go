package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

const userColumns = `id, name, email, avatar, password_hash, posts, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*users.User, error) {
	user := &users.User{}
	var posts []string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Avatar, &user.PasswordHash,
		pq.Array(&posts), &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []string{}
	}
	user.Posts = posts
	return user, nil
}

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) error {
	query := `
		INSERT INTO users (id, name, email, avatar, password_hash, posts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		user.ID, user.Name, strings.ToLower(user.Email), user.Avatar, user.PasswordHash,
		stringArray(user.Posts), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id
// Inside a transaction the row is locked until commit
func (r *postgresUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	if !validID(id) {
		return nil, users.ErrUserNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1` + lockClause(ctx)

	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByIDs retrieves multiple users in a single query
// Missing users are simply absent from the result map
func (r *postgresUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*users.User, error) {
	result := make(map[string]*users.User, len(ids))
	ids = validIDs(ids)
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to batch get users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return result, nil
}

// UpdatePosts replaces the user's post reference list
func (r *postgresUserRepo) UpdatePosts(ctx context.Context, id string, posts []string) error {
	if !validID(id) {
		return users.ErrUserNotFound
	}
	query := `UPDATE users SET posts = $2, updated_at = NOW() WHERE id = $1`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, id, stringArray(posts))
	if err != nil {
		return fmt.Errorf("failed to update user posts: %w", err)
	}
	return expectOneRow(res, users.ErrUserNotFound)
}

// List returns every user in creation order
func (r *postgresUserRepo) List(ctx context.Context) ([]*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*users.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return result, nil
}

// expectOneRow maps a zero-row write to notFound
func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
