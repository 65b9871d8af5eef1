package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxNameLength     = 64

	// ownerViewCacheSize bounds the owner projection cache
	// Projections are immutable once registered so entries never go stale
	ownerViewCacheSize = 4096
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo   UserRepository
	views      *lru.Cache[string, OwnerView]
	logger     *slog.Logger
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, logger *slog.Logger) Service {
	return newUserService(userRepo, logger, bcrypt.DefaultCost)
}

func newUserService(userRepo UserRepository, logger *slog.Logger, cost int) *userService {
	if logger == nil {
		logger = slog.Default()
	}
	views, err := lru.New[string, OwnerView](ownerViewCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &userService{
		userRepo:   userRepo,
		views:      views,
		logger:     logger,
		bcryptCost: cost,
	}
}

// Register creates a new account with a bcrypt password hash
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Avatar = strings.TrimSpace(req.Avatar)

	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Avatar:       req.Avatar,
		PasswordHash: string(hash),
		Posts:        []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Repository reports ErrEmailTaken if a concurrent registration won the race
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user", user.ID)
	return user, nil
}

// Authenticate verifies credentials for the local login strategy
func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected", "user", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by id
func (s *userService) GetUser(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile retrieves the public profile of a user
func (s *userService) GetProfile(ctx context.Context, id string) (*ProfileView, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	posts := user.Posts
	if posts == nil {
		posts = []string{}
	}
	return &ProfileView{
		ID:        user.ID,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Posts:     posts,
		PostCount: len(posts),
		CreatedAt: user.CreatedAt,
	}, nil
}

// GetOwnerViews resolves owner projections, consulting the LRU before the repository
func (s *userService) GetOwnerViews(ctx context.Context, ids []string) (map[string]OwnerView, error) {
	result := make(map[string]OwnerView, len(ids))
	var missing []string
	for _, id := range ids {
		if view, ok := s.views.Get(id); ok {
			result[id] = view
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result, nil
	}

	found, err := s.userRepo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owners: %w", err)
	}
	for id, user := range found {
		view := user.View()
		s.views.Add(id, view)
		result[id] = view
	}
	return result, nil
}

func validateRegisterRequest(req RegisterRequest) error {
	if req.Name == "" {
		return &InvalidFieldError{Field: "name", Reason: "name is required"}
	}
	if len(req.Name) > maxNameLength {
		return &InvalidFieldError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}
	if !emailRegex.MatchString(req.Email) {
		return &InvalidFieldError{Field: "email", Reason: "invalid email format"}
	}
	if len(req.Password) < minPasswordLength {
		return &InvalidFieldError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	return nil
}
