package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/handlers"
	"github.com/iudanet/blogapi/internal/server/jwt"
	"github.com/iudanet/blogapi/internal/server/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStore мок хранилища пользователей для тестов middleware
type mockUserStore struct {
	users map[string]*models.User
}

func (m *mockUserStore) CreateUser(_ context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) GetUserByUsername(_ context.Context, _ string) (*models.User, error) {
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStore) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStore) UsernameExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func setupAuthTest(t *testing.T, isAdmin bool) (*jwt.Service, *mockUserStore, *models.User, string) {
	t.Helper()

	tokens := jwt.NewService("test-secret-key", 15*time.Minute, time.Hour)
	user := &models.User{
		ID:       "user-123",
		Username: "alice",
		IsAdmin:  isAdmin,
	}
	users := &mockUserStore{users: map[string]*models.User{user.ID: user}}

	accessToken, _, err := tokens.GenerateAccessToken(user)
	require.NoError(t, err)

	return tokens, users, user, accessToken
}

// echoUser терминальный handler, отдающий 200 и фиксирующий пользователя из контекста
func echoUser(captured **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := handlers.GetUser(r.Context()); ok {
			*captured = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	tokens, users, user, accessToken := setupAuthTest(t, false)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUser   bool
	}{
		{name: "valid token", authHeader: "Bearer " + accessToken, wantStatus: http.StatusOK, wantUser: true},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", authHeader: "Basic abc123", wantStatus: http.StatusUnauthorized},
		{name: "empty token", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *models.User
			handler := RequireAuth(testLogger(), tokens, users)(echoUser(&captured))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUser {
				require.NotNil(t, captured)
				assert.Equal(t, user.ID, captured.ID)
			} else {
				assert.Nil(t, captured)
			}
		})
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	tokens, users, user, accessToken := setupAuthTest(t, false)
	delete(users.users, user.ID)

	var captured *models.User
	handler := RequireAuth(testLogger(), tokens, users)(echoUser(&captured))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// токен валиден, но пользователь удален после его выпуска
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestAttachUser_AnonymousPassThrough(t *testing.T) {
	tokens, users, user, accessToken := setupAuthTest(t, false)

	tests := []struct {
		name       string
		authHeader string
		wantUser   bool
	}{
		{name: "valid token attaches user", authHeader: "Bearer " + accessToken, wantUser: true},
		{name: "no header passes anonymously", authHeader: ""},
		{name: "invalid token passes anonymously", authHeader: "Bearer garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *models.User
			handler := AttachUser(testLogger(), tokens, users)(echoUser(&captured))

			req := httptest.NewRequest(http.MethodGet, "/articles", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			// анонимность никогда не приводит к отказу
			assert.Equal(t, http.StatusOK, rec.Code)
			if tt.wantUser {
				require.NotNil(t, captured)
				assert.Equal(t, user.ID, captured.ID)
			} else {
				assert.Nil(t, captured)
			}
		})
	}
}

func TestRequireRefresh(t *testing.T) {
	tokens, users, user, _ := setupAuthTest(t, false)

	refreshToken, _, err := tokens.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	accessToken, _, err := tokens.GenerateAccessToken(user)
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
	}{
		{name: "valid refresh cookie", cookie: refreshToken, wantStatus: http.StatusOK},
		{name: "missing cookie", cookie: "", wantStatus: http.StatusUnauthorized},
		{name: "access token is not a refresh token", cookie: accessToken, wantStatus: http.StatusUnauthorized},
		{name: "garbage cookie", cookie: "garbage", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *models.User
			handler := RequireRefresh(testLogger(), tokens, users)(echoUser(&captured))

			req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: handlers.RefreshCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, captured)
				assert.Equal(t, user.ID, captured.ID)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := &models.User{ID: "admin-1", Username: "root", IsAdmin: true}
	regular := &models.User{ID: "user-1", Username: "alice"}

	tests := []struct {
		user       *models.User
		name       string
		wantStatus int
	}{
		{name: "admin allowed", user: admin, wantStatus: http.StatusOK},
		{name: "regular user forbidden", user: regular, wantStatus: http.StatusForbidden},
		{name: "anonymous unauthorized", user: nil, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *models.User
			handler := RequireAdmin(testLogger())(echoUser(&captured))

			req := httptest.NewRequest(http.MethodGet, "/admin/articles", nil)
			if tt.user != nil {
				req = req.WithContext(handlers.WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
