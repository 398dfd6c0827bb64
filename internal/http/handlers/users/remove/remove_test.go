package remove

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
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

func (m *ServiceMock) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRemoveHandler_Self(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("DeleteUser", mock.Anything, "uid-1").Return(nil).Once()
	handler := NewSelf(newNoopLogger(), svc)

	req := httptest.NewRequest(http.MethodDelete, "/users/me", nil)
	req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{ID: "uid-1"}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestRemoveHandler_ByID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		mockErr     error
		wantStatus  int
		wantMessage string
	}{
		{name: "deleted", id: "uid-2", wantStatus: http.StatusOK, wantMessage: "User deleted successfully!"},
		{name: "not found", id: "missing", mockErr: services.ErrNotFound, wantStatus: http.StatusNotFound, wantMessage: "User with id missing not found!"},
		{name: "store failure", id: "uid-2", mockErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantMessage: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("DeleteUser", mock.Anything, tt.id).Return(tt.mockErr).Once()

			r := chi.NewRouter()
			r.Delete("/users/{userId}", NewByID(newNoopLogger(), svc, "userId").ServeHTTP)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/"+tt.id, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			var got map[string]string
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.Equal(t, tt.wantMessage, got["message"])
			svc.AssertExpectations(t)
		})
	}
}
