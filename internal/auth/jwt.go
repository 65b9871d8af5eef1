// Package auth issues and verifies the bearer tokens handed out at login.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// DefaultIssuer is the iss claim stamped on every token
const DefaultIssuer = "lposts2"

var (
	// ErrInvalidToken is returned for malformed, tampered or foreign tokens
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the exp claim is in the past
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the principal snapshot taken at login
type Claims struct {
	jwt.RegisteredClaims
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// TokenService issues and verifies HS256 access tokens
type TokenService struct {
	now    func() time.Time
	issuer string
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with secret
func NewTokenService(secret []byte, ttl time.Duration, issuer string) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenService{
		secret: secret,
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue signs a token for user and reports when it expires
func (s *TokenService) Issue(user *users.User) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, fmt.Errorf("cannot issue token without a user id")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name:   user.Name,
		Avatar: user.Avatar,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses and validates a token, accepting an optional "Bearer " prefix
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
