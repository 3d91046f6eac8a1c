package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubSessions struct {
	repository.SessionRepository
	sessions map[string]*entity.Session
	err      error
}

func (s *stubSessions) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions[token], nil
}

type stubUsers struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

func newAuthStubs(roles []string, active bool) (*stubSessions, *stubUsers, string, uuid.UUID) {
	userID := uuid.New()
	token := uuid.New()

	sessions := &stubSessions{sessions: map[string]*entity.Session{
		token.String(): {UserID: userID, Token: token},
	}}
	users := &stubUsers{users: map[uuid.UUID]*entity.User{
		userID: {Base: entity.Base{ID: userID}, Roles: roles, IsActive: active},
	}}
	return sessions, users, token.String(), userID
}

func TestAuthSession(t *testing.T) {
	sessions, users, token, userID := newAuthStubs([]string{"customer"}, true)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"unknown token", "Bearer " + uuid.NewString(), http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			var gotToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = utils.GetUserIDFromContext(r.Context())
				gotToken, _ = utils.GetTokenFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthSession(sessions, users, zap.NewNop())(next).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK {
				if gotID != userID {
					t.Errorf("user id = %s, want %s", gotID, userID)
				}
				if gotToken != token {
					t.Errorf("token = %q, want %q", gotToken, token)
				}
			}
		})
	}
}

func TestAuthSessionRejectsInactiveUser(t *testing.T) {
	sessions, users, token, _ := newAuthStubs([]string{"customer"}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})
	AuthSession(sessions, users, zap.NewNop())(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthSessionStoreFailure(t *testing.T) {
	sessions, users, token, _ := newAuthStubs(nil, true)
	sessions.err = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthSession(sessions, users, zap.NewNop())(http.NotFoundHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		auth  bool
		want  int
	}{
		{"anonymous", nil, false, http.StatusUnauthorized},
		{"customer on staff route", []string{"customer"}, true, http.StatusForbidden},
		{"cashier", []string{"cashier"}, true, http.StatusOK},
		{"one of many", []string{"customer", "manager"}, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cashier/orders", nil)
			if tt.auth {
				req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), tt.roles))
			}
			rec := httptest.NewRecorder()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			RequireRole(zap.NewNop(), "admin", "manager", "cashier")(next).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
