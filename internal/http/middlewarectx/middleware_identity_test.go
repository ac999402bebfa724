package middlewarectx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VagueKEK/P-inz/internal/config"
	"github.com/VagueKEK/P-inz/internal/models"
	authservice "github.com/VagueKEK/P-inz/internal/services/auth"
)

type IdentifierMock struct {
	mock.Mock
}

func (m *IdentifierMock) Identify(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func sessionConfig() config.Session {
	return config.Session{CookieName: "sessionid", CSRFCookieName: "csrftoken"}
}

func TestIdentity(t *testing.T) {
	cfg := sessionConfig()

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(user.Username))
	})

	t.Run("no cookie passes through as anonymous", func(t *testing.T) {
		identifier := new(IdentifierMock)
		mw := Identity(newNoopLogger(), identifier, cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()

		mw(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
		identifier.AssertNotCalled(t, "Identify")
	})

	t.Run("valid session resolves identity", func(t *testing.T) {
		identifier := new(IdentifierMock)
		identifier.On("Identify", mock.Anything, "tok-1").
			Return(&models.User{ID: 1, Username: "user1", IsActive: true}, nil).Once()
		mw := Identity(newNoopLogger(), identifier, cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "tok-1"})
		rec := httptest.NewRecorder()

		mw(echo).ServeHTTP(rec, req)

		assert.Equal(t, "user1", rec.Body.String())
		identifier.AssertExpectations(t)
	})

	t.Run("stale session is cleared and treated as anonymous", func(t *testing.T) {
		identifier := new(IdentifierMock)
		identifier.On("Identify", mock.Anything, "tok-stale").Return(nil, nil).Once()
		mw := Identity(newNoopLogger(), identifier, cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "tok-stale"})
		rec := httptest.NewRecorder()

		mw(echo).ServeHTTP(rec, req)

		assert.Equal(t, "anonymous", rec.Body.String())

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cfg.CookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
		identifier.AssertExpectations(t)
	})

	t.Run("disabled account session is terminated with 403", func(t *testing.T) {
		identifier := new(IdentifierMock)
		identifier.On("Identify", mock.Anything, "tok-2").
			Return(nil, authservice.ErrAccountDisabled).Once()
		mw := Identity(newNoopLogger(), identifier, cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "tok-2"})
		rec := httptest.NewRecorder()

		mw(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, false, got["isAuthenticated"])
		assert.Nil(t, got["user"])
		assert.Equal(t, DisabledAccountMessage, got["error"])
		identifier.AssertExpectations(t)
	})
}

func TestRequireActive(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := RequireActive(newNoopLogger())

	t.Run("anonymous gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Authentication credentials were not provided.", got["error"])
	})

	t.Run("active user passes", func(t *testing.T) {
		user := &models.User{ID: 1, Username: "user1", IsActive: true}
		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
		req = req.WithContext(context.WithValue(req.Context(), User, user))
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := RequireAdmin(newNoopLogger())

	t.Run("regular user gets 403", func(t *testing.T) {
		user := &models.User{ID: 1, Username: "user1", IsActive: true}
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req = req.WithContext(context.WithValue(req.Context(), User, user))
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "You do not have permission to perform this action.", got["error"])
	})

	t.Run("staff user passes", func(t *testing.T) {
		user := &models.User{ID: 1, Username: "admin", IsActive: true, IsStaff: true}
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req = req.WithContext(context.WithValue(req.Context(), User, user))
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCSRFProtect(t *testing.T) {
	cfg := sessionConfig()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := CSRFProtect(newNoopLogger(), cfg)

	token, err := NewCSRFToken()
	require.NoError(t, err)

	t.Run("safe method skips the check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("matching cookie and header pass", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CSRFCookieName, Value: token})
		req.Header.Set(CSRFHeaderName, token)
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CSRFCookieName, Value: token})
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "CSRF Failed: CSRF token missing or incorrect.", got["error"])
	})

	t.Run("mismatched token is rejected", func(t *testing.T) {
		other, err := NewCSRFToken()
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CSRFCookieName, Value: token})
		req.Header.Set(CSRFHeaderName, other)
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
