package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/khaledtf19/Lposts2-Backend/internal/api/middleware"
	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

type mockUserService struct {
	registerFunc func(ctx context.Context, req users.RegisterRequest) (*users.User, error)
	profileFunc  func(ctx context.Context, id string) (*users.ProfileView, error)
}

func (m *mockUserService) Register(ctx context.Context, req users.RegisterRequest) (*users.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return &users.User{ID: "u1", Name: req.Name, Email: req.Email, PasswordHash: "hash", Posts: []string{}}, nil
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	return nil, users.ErrInvalidCredentials
}

func (m *mockUserService) GetUser(ctx context.Context, id string) (*users.User, error) {
	return nil, users.ErrUserNotFound
}

func (m *mockUserService) GetProfile(ctx context.Context, id string) (*users.ProfileView, error) {
	if m.profileFunc != nil {
		return m.profileFunc(ctx, id)
	}
	return nil, users.ErrUserNotFound
}

func (m *mockUserService) GetOwnerViews(ctx context.Context, ids []string) (map[string]users.OwnerView, error) {
	return map[string]users.OwnerView{}, nil
}

func newRouter(service users.Service) chi.Router {
	r := chi.NewRouter()
	profile := NewProfileHandler(service)
	r.Post("/users", NewRegisterHandler(service).HandleRegister)
	r.Get("/users/me", profile.HandleMe)
	r.Get("/users/{id}", profile.HandleGetProfile)
	return r
}

func TestHandleRegister(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"Alice","email":"a@example.com","password":"secret1"}`))
	w := httptest.NewRecorder()
	newRouter(&mockUserService{}).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "hash") {
		t.Errorf("password hash leaked: %s", w.Body.String())
	}
}

func TestHandleRegister_Errors(t *testing.T) {
	tests := []struct {
		err        error
		name       string
		wantStatus int
	}{
		{name: "duplicate email", err: users.ErrEmailTaken, wantStatus: http.StatusConflict},
		{name: "bad field", err: &users.InvalidFieldError{Field: "email", Reason: "invalid email format"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockUserService{
				registerFunc: func(ctx context.Context, req users.RegisterRequest) (*users.User, error) {
					return nil, tt.err
				},
			}
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"x"}`))
			w := httptest.NewRecorder()
			newRouter(service).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestHandleMe(t *testing.T) {
	service := &mockUserService{
		profileFunc: func(ctx context.Context, id string) (*users.ProfileView, error) {
			return &users.ProfileView{ID: id, Name: "Alice", Posts: []string{}}, nil
		},
	}

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(service).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req = req.WithContext(middleware.SetTestPrincipal(req.Context(), middleware.Principal{ID: "u42"}))
		w := httptest.NewRecorder()
		newRouter(service).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var profile users.ProfileView
		if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if profile.ID != "u42" {
			t.Errorf("expected u42, got %s", profile.ID)
		}
	})
}

func TestHandleGetProfile_NotFound(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&mockUserService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/nobody", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
