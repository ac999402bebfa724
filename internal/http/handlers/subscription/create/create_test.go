package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
	"github.com/VagueKEK/P-inz/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, ownerID int64, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, ownerID, req)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	owner := &models.User{ID: 1, Username: "user1", IsActive: true}

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantError      string
		checkBody      func(t *testing.T, got map[string]any)
	}{
		{
			name: "valid subscription",
			body: `{"name":"Netflix","price":"29.99","next_payment":"2026-09-15"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(req models.DummySubscription) bool {
					return req.Name == "Netflix" && req.Price.Equal(decimal.RequireFromString("29.99"))
				})).Return(&models.Subscription{
					ID:     10,
					UserID: 1,
					Name:   "Netflix",
					Price:  decimal.RequireFromString("29.99"),
					Active: true,
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			checkBody: func(t *testing.T, got map[string]any) {
				assert.Equal(t, float64(10), got["id"])
				assert.Equal(t, "Netflix", got["name"])
				assert.Equal(t, "29.99", got["price"])
				assert.Nil(t, got["next_payment"])
				assert.Equal(t, true, got["active"])
			},
		},
		{
			// Цена принимается и числом, и строкой.
			name: "numeric price",
			body: `{"name":"Spotify","price":19.99}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(req models.DummySubscription) bool {
					return req.Price.Equal(decimal.RequireFromString("19.99"))
				})).Return(&models.Subscription{
					ID:     11,
					UserID: 1,
					Name:   "Spotify",
					Price:  decimal.RequireFromString("19.99"),
					Active: true,
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			checkBody: func(t *testing.T, got map[string]any) {
				assert.Equal(t, "19.99", got["price"])
			},
		},
		{
			name:           "invalid json body",
			body:           `not a json`,
			setupMock:      func(m *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "missing name",
			body:           `{"price":"29.99"}`,
			setupMock:      func(m *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Name is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)

			handler := New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", bytes.NewReader([]byte(tt.body)))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, owner))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				tt.checkBody(t, got)
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
