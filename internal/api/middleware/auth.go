package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/khaledtf19/Lposts2-Backend/internal/auth"
)

// Context keys for storing caller information
type contextKey string

const (
	PrincipalKey contextKey = "principal"
	JWTClaimsKey contextKey = "jwt_claims"
)

// Principal is the authenticated caller as seen by handlers and services
type Principal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// TokenVerifier validates bearer tokens
// Satisfied by *auth.TokenService
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// JWTAuthMiddleware enforces bearer token authentication for protected routes
type JWTAuthMiddleware struct {
	verifier TokenVerifier
}

// NewJWTAuthMiddleware creates a new auth middleware
func NewJWTAuthMiddleware(verifier TokenVerifier) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{verifier: verifier}
}

// RequireAuth middleware ensures the caller presents a valid token
// If not authenticated, returns 401
// If authenticated, injects the principal and JWT claims into context
func (m *JWTAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := m.verifier.Verify(token)
		if err != nil {
			log.Printf("[AUTH_FAILURE] type=verification_failed ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		if claims.Subject == "" {
			writeAuthError(w, "Missing user id in token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth middleware loads the principal if a valid token is present,
// but lets anonymous requests through
func (m *JWTAuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.verifier.Verify(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
		if err != nil || claims.Subject == "" {
			log.Printf("Optional auth failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, PrincipalKey, Principal{
		ID:     claims.Subject,
		Name:   claims.Name,
		Avatar: claims.Avatar,
	})
	return context.WithValue(ctx, JWTClaimsKey, claims)
}

// GetPrincipal extracts the authenticated caller from the request context
// ok is false for anonymous requests
func GetPrincipal(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(PrincipalKey).(Principal)
	return p, ok && p.ID != ""
}

// GetUserID extracts the caller's id from the request context
// Returns empty string if not authenticated
func GetUserID(r *http.Request) string {
	p, _ := GetPrincipal(r)
	return p.ID
}

// GetJWTClaims extracts the JWT claims from the request context
// Returns nil if not authenticated
func GetJWTClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(JWTClaimsKey).(*auth.Claims)
	return claims
}

// SetTestPrincipal sets the principal in the context for testing purposes
// This function should ONLY be used in tests to mock authenticated users
func SetTestPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthenticationRequired",
		"message": message,
	}); err != nil {
		log.Printf("Failed to write auth error response: %v", err)
	}
}
