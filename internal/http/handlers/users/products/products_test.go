package products

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

	"github.com/magabrotheeeer/accounts-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/accounts-service/internal/models"
	"github.com/magabrotheeeer/accounts-service/internal/services"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListOwnProducts(ctx context.Context, userID string) ([]*models.Product, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]*models.Product)
	return list, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(middlewarectx.WithUser(r.Context(), &models.User{ID: "uid-1", Role: models.RoleHost}))
}

func TestProductsHandler_ServeHTTP(t *testing.T) {
	t.Run("own products", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListOwnProducts", mock.Anything, "uid-1").
			Return([]*models.Product{{ID: "p1", Name: "Cabin", Price: 100, Poster: "uid-1"}}, nil).Once()

		rr := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rr, authed(httptest.NewRequest(http.MethodGet, "/users/me/products", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, "p1", got[0]["_id"])
		assert.Equal(t, "uid-1", got[0]["poster"])
		svc.AssertExpectations(t)
	})

	t.Run("subject vanished", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListOwnProducts", mock.Anything, "uid-1").Return(nil, services.ErrNotFound).Once()

		rr := httptest.NewRecorder()
		New(newNoopLogger(), svc).ServeHTTP(rr, authed(httptest.NewRequest(http.MethodGet, "/users/me/products", nil)))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var got map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "User not found", got["message"])
	})

	t.Run("no identity", func(t *testing.T) {
		rr := httptest.NewRecorder()
		New(newNoopLogger(), new(ServiceMock)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/me/products", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
