package users

import "context"

// UserRepository defines the interface for user data persistence
// Implementations return snapshots: callers may modify what they receive
// without affecting stored state until they call an update method.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByIDs retrieves multiple users in one call.
	// Missing users are not included in the result map (no error for missing users).
	GetByIDs(ctx context.Context, ids []string) (map[string]*User, error)

	// UpdatePosts replaces the user's post reference list
	UpdatePosts(ctx context.Context, id string, posts []string) error

	// List returns every user in creation order
	// Used by the reconciler; not exposed over HTTP
	List(ctx context.Context) ([]*User, error)
}

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// Authenticate checks email/password (local strategy) and returns the user
	Authenticate(ctx context.Context, email, password string) (*User, error)

	GetUser(ctx context.Context, id string) (*User, error)
	GetProfile(ctx context.Context, id string) (*ProfileView, error)

	// GetOwnerViews resolves owner projections for a batch of ids.
	// Unknown ids are absent from the map.
	GetOwnerViews(ctx context.Context, ids []string) (map[string]OwnerView, error)
}
