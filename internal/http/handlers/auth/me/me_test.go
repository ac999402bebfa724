package me

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
	"github.com/VagueKEK/P-inz/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestMeHandler_ServeHTTP(t *testing.T) {
	handler := New(newNoopLogger())

	t.Run("anonymous request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, false, got["isAuthenticated"])
		assert.Nil(t, got["user"])
	})

	t.Run("authenticated request", func(t *testing.T) {
		user := &models.User{ID: 1, Username: "user1", IsStaff: true, IsActive: true}
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, user))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, true, got["isAuthenticated"])
		gotUser, ok := got["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "user1", gotUser["username"])
		assert.Equal(t, true, gotUser["isAdmin"])
	})
}
