package clearsubs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VagueKEK/P-inz/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ClearSubscriptions(ctx context.Context, targetID int64) (int64, error) {
	args := m.Called(ctx, targetID)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func doRequest(handler *Handler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/"+id+"/clear-subscriptions", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestClearSubsHandler_ServeHTTP(t *testing.T) {
	t.Run("returns amount of deleted subscriptions", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("ClearSubscriptions", mock.Anything, int64(2)).Return(int64(3), nil).Once()

		rec := doRequest(New(newNoopLogger(), serviceMock), "2")

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, true, got["ok"])
		assert.Equal(t, float64(3), got["deleted"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("ClearSubscriptions", mock.Anything, int64(99)).
			Return(int64(0), repository.ErrNotFound).Once()

		rec := doRequest(New(newNoopLogger(), serviceMock), "99")

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "User not found", got["error"])
		serviceMock.AssertExpectations(t)
	})
}
