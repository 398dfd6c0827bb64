package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/accounts-service/internal/config"
	"github.com/magabrotheeeer/accounts-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/accounts-service/internal/lib/jwt"
	"github.com/magabrotheeeer/accounts-service/internal/models"
	"github.com/magabrotheeeer/accounts-service/internal/services"
	"github.com/magabrotheeeer/accounts-service/internal/storage"
)

// memStore хранилище в памяти для проверки маршрутизации.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	products []*models.Product
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]models.User)}
}

func (s *memStore) CreateUser(_ context.Context, user models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return "", storage.ErrUserExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &u, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (s *memStore) UpdateUser(_ context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Surname != nil {
		u.Surname = *upd.Surname
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return &u, nil
}

func (s *memStore) DeleteUser(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

func (s *memStore) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, &u)
	}
	return out, nil
}

func (s *memStore) ListProductsByPoster(_ context.Context, posterID string) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Product, 0)
	for _, p := range s.products {
		if p.Poster == posterID {
			out = append(out, p)
		}
	}
	return out, nil
}

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *memStore
}

func newTestServer(t *testing.T, users config.Users) *testServer {
	t.Helper()
	cfg := &config.Config{
		HTTPServer: config.HTTPServer{RateLimit: 1000, RateBurst: 1000},
		Users:      users,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemStore()
	svc := services.NewUserService(store, store, jwt.NewJWTMaker("test-secret", time.Hour), logger,
		services.WithHostSignup(users.AllowHostSignup))

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, svc, middlewarectx.NewMetrics(prometheus.NewRegistry()))
	return &testServer{t: t, router: router, store: store}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) register(email, role string) string {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/users/register", "", map[string]string{
		"name": "Test", "surname": "User", "email": email, "password": "secret123", "role": role,
	})
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())
	var got map[string]string
	require.NoError(s.t, json.NewDecoder(rr.Body).Decode(&got))
	return got["_id"]
}

// promote выдаёт роль host напрямую в хранилище, минуя HTTP.
func (s *testServer) promote(id string) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	u := s.store.users[id]
	u.Role = models.RoleHost
	s.store.users[id] = u
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/users/login", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())
	var got map[string]string
	require.NoError(s.t, json.NewDecoder(rr.Body).Decode(&got))
	return got["accessToken"]
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var got map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	return got["message"]
}

func TestRoutes_RegisterTwice(t *testing.T) {
	s := newTestServer(t, config.Users{})
	s.register("ann@example.com", "")

	rr := s.do(http.MethodPost, "/users/register", "", map[string]string{
		"name": "Ann", "surname": "Lee", "email": "ANN@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "User already exists", decodeMessage(t, rr))
}

func TestRoutes_LoginFailuresLookTheSame(t *testing.T) {
	s := newTestServer(t, config.Users{})
	s.register("ann@example.com", "")

	wrong := s.do(http.MethodPost, "/users/login", "", map[string]string{"email": "ann@example.com", "password": "nope"})
	unknown := s.do(http.MethodPost, "/users/login", "", map[string]string{"email": "ghost@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestRoutes_MeLifecycle(t *testing.T) {
	s := newTestServer(t, config.Users{})
	id := s.register("ann@example.com", "")
	token := s.login("ann@example.com")

	rr := s.do(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&me))
	assert.Equal(t, id, me["_id"])
	assert.NotContains(t, me, "password")
	assert.NotContains(t, me, "passwordHash")

	rr = s.do(http.MethodPut, "/users/me", token, map[string]string{"name": "X"})
	require.Equal(t, http.StatusOK, rr.Code)
	var updated map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
	assert.Equal(t, "X", updated["name"])
	assert.Equal(t, "ann@example.com", updated["email"])
	assert.Equal(t, models.RoleGuest, updated["role"])

	rr = s.do(http.MethodGet, "/users/me/products", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = s.do(http.MethodPost, "/users/logout", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Logout successful", decodeMessage(t, rr))

	rr = s.do(http.MethodDelete, "/users/me", token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "token of a deleted user is rejected")
}

func TestRoutes_AdminList(t *testing.T) {
	s := newTestServer(t, config.Users{})
	s.promote(s.register("host@example.com", ""))
	s.register("g1@example.com", "")
	s.register("g2@example.com", "")

	rr := s.do(http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodGet, "/users", s.login("g1@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodGet, "/users", s.login("host@example.com"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&all))
	assert.Len(t, all, 3)
}

func TestRoutes_HostSignupDisabledByDefault(t *testing.T) {
	s := newTestServer(t, config.Users{})
	s.register("g1@example.com", "")

	rr := s.do(http.MethodPost, "/users/register", "", map[string]string{
		"name": "Mallory", "surname": "M", "email": "mallory@example.com", "password": "secret123", "role": models.RoleHost,
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Forbidden", decodeMessage(t, rr))

	rr = s.do(http.MethodPost, "/users/login", "", map[string]string{"email": "mallory@example.com", "password": "secret123"})
	require.Equal(t, http.StatusUnauthorized, rr.Code, "no account was created")

	// Гость, зарегистрированный обычным путём, в админский список не попадает.
	s.register("mallory@example.com", "")
	rr = s.do(http.MethodGet, "/users", s.login("mallory@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRoutes_HostSignupAllowed(t *testing.T) {
	s := newTestServer(t, config.Users{AllowHostSignup: true})
	s.register("host@example.com", models.RoleHost)
	s.register("g1@example.com", "")

	rr := s.do(http.MethodGet, "/users", s.login("host@example.com"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&all))
	assert.Len(t, all, 2)
}

func TestRoutes_MultibytePasswordLimit(t *testing.T) {
	s := newTestServer(t, config.Users{})

	rr := s.do(http.MethodPost, "/users/register", "", map[string]string{
		"name": "Ann", "surname": "Lee", "email": "ann@example.com", "password": strings.Repeat("п", 40),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "field Password must be at most 72 bytes", decodeMessage(t, rr))

	s.register("ann@example.com", "")
	rr = s.do(http.MethodPut, "/users/me", s.login("ann@example.com"), map[string]string{"password": strings.Repeat("п", 40)})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRoutes_ByIDGuarded(t *testing.T) {
	s := newTestServer(t, config.Users{})
	s.promote(s.register("host@example.com", ""))
	guestID := s.register("g1@example.com", "")
	hostToken := s.login("host@example.com")

	rr := s.do(http.MethodGet, "/users/"+guestID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodGet, "/users/"+guestID, s.login("g1@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodGet, "/users/"+guestID, hostToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodPut, "/users/"+guestID, hostToken, map[string]string{"role": models.RoleHost})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.RoleHost, s.store.users[guestID].Role)

	rr = s.do(http.MethodDelete, "/users/"+guestID, hostToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "User deleted successfully!", decodeMessage(t, rr))

	rr = s.do(http.MethodGet, "/users/"+guestID, hostToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User with id "+guestID+" not found!", decodeMessage(t, rr))
}

func TestRoutes_ByIDPublic(t *testing.T) {
	s := newTestServer(t, config.Users{PublicByIDRoutes: true})
	id := s.register("g1@example.com", "")

	rr := s.do(http.MethodGet, "/users/"+id, "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodPut, "/users/"+id, "", map[string]string{"role": models.RoleHost})
	assert.Equal(t, http.StatusForbidden, rr.Code, "anonymous callers cannot change roles")

	rr = s.do(http.MethodDelete, "/users/"+id, "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_Health(t *testing.T) {
	s := newTestServer(t, config.Users{})
	rr := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
