// Package services содержит бизнес-логику учётных записей: регистрацию, вход,
// проверку токенов и управление профилем.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/accounts-service/internal/lib/jwt"
	"github.com/magabrotheeeer/accounts-service/internal/lib/password"
	"github.com/magabrotheeeer/accounts-service/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-service/internal/models"
	"github.com/magabrotheeeer/accounts-service/internal/storage"
)

// Ключи маршрутизации событий пользователей.
const (
	EventUserRegistered = "user.registered"
	EventUserUpdated    = "user.updated"
	EventUserDeleted    = "user.deleted"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email без учёта регистра.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUser применяет изменения и возвращает обновлённую запись.
	UpdateUser(ctx context.Context, userID string, upd models.UserUpdate) (*models.User, error)
	// DeleteUser удаляет пользователя; false если удалять было нечего.
	DeleteUser(ctx context.Context, userID string) (bool, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// ProductRepository читает объявления пользователей.
type ProductRepository interface {
	ListProductsByPoster(ctx context.Context, posterID string) ([]*models.Product, error)
}

// LoginGuard ограничивает число неудачных попыток входа.
type LoginGuard interface {
	Allowed(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// EventPublisher отправляет события во внешнюю шину.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// UserEvent тело события жизненного цикла пользователя.
type UserEvent struct {
	ID    string    `json:"_id"`
	Email string    `json:"email,omitempty"`
	Role  string    `json:"role,omitempty"`
	At    time.Time `json:"at"`
}

// UserService реализует бизнес-логику работы с учётными записями.
type UserService struct {
	users    UserRepository
	products ProductRepository
	jwtMaker jwt.Maker
	guard    LoginGuard
	events   EventPublisher
	log      *slog.Logger

	allowHostSignup bool
}

// Option настраивает необязательные зависимости UserService.
type Option func(*UserService)

// WithLoginGuard включает ограничение попыток входа.
func WithLoginGuard(g LoginGuard) Option {
	return func(s *UserService) { s.guard = g }
}

// WithEventPublisher включает публикацию событий.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *UserService) { s.events = p }
}

// WithHostSignup разрешает регистрацию сразу с ролью host.
func WithHostSignup(allow bool) Option {
	return func(s *UserService) { s.allowHostSignup = allow }
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, products ProductRepository, jwtMaker jwt.Maker, log *slog.Logger, opts ...Option) *UserService {
	s := &UserService{
		users:    users,
		products: products,
		jwtMaker: jwtMaker,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает пользователя и возвращает его ID.
// Занятый email возвращает ErrConflict, роль host без WithHostSignup даёт ErrForbidden.
func (s *UserService) Register(ctx context.Context, candidate models.NewUser) (string, error) {
	const op = "services.Register"

	role := candidate.Role
	if role == "" {
		role = models.RoleGuest
	}
	if role == models.RoleHost && !s.allowHostSignup {
		return "", fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	// bcrypt ограничивает пароль в байтах, а валидатор считает символы.
	if len(candidate.Password) > password.MaxBytes {
		return "", fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}

	email := normalizeEmail(candidate.Email)
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return "", fmt.Errorf("%s: %w", op, ErrConflict)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(candidate.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.users.CreateUser(ctx, models.User{
		Name:         candidate.Name,
		Surname:      candidate.Surname,
		Email:        email,
		Avatar:       candidate.Avatar,
		Role:         role,
		PasswordHash: hashed,
	})
	if errors.Is(err, storage.ErrUserExists) {
		return "", fmt.Errorf("%s: %w", op, ErrConflict)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, EventUserRegistered, UserEvent{ID: id, Email: email, Role: role})
	return id, nil
}

// VerifyCredentials возвращает пользователя, если пароль совпадает.
// Неизвестный email и неверный пароль дают одну и ту же ErrInvalidCredentials,
// в обоих случаях выполняется сравнение bcrypt.
func (s *UserService) VerifyCredentials(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "services.VerifyCredentials"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrUserNotFound) {
		_ = password.CompareDummy(rawPassword)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	return user, nil
}

// Login проверяет учётные данные и выпускает токен доступа.
func (s *UserService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "services.Login"
	email = normalizeEmail(email)

	if s.guard != nil {
		allowed, err := s.guard.Allowed(ctx, email)
		switch {
		case err != nil:
			s.log.Warn("login guard unavailable", sl.Err(err))
		case !allowed:
			return "", fmt.Errorf("%s: %w", op, ErrTooManyAttempts)
		}
	}

	user, err := s.VerifyCredentials(ctx, email, rawPassword)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) && s.guard != nil {
			if gErr := s.guard.Fail(ctx, email); gErr != nil {
				s.log.Warn("failed to record login attempt", sl.Err(gErr))
			}
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if s.guard != nil {
		if err := s.guard.Reset(ctx, email); err != nil {
			s.log.Warn("failed to reset login attempts", sl.Err(err))
		}
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Authenticate проверяет токен и заново читает субъекта из хранилища.
// Роль берётся из хранилища, а не из токена.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "services.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	user, err := s.users.GetUser(ctx, claims.UserID())
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetUser возвращает пользователя по ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "services.GetUser"
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateUser применяет patch к пользователю userID.
// Новый пароль хешируется, новый email проверяется на уникальность.
func (s *UserService) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	const op = "services.UpdateUser"

	if patch.Password != nil && len(*patch.Password) > password.MaxBytes {
		return nil, fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}

	upd := models.UserUpdate{
		Name:    patch.Name,
		Surname: patch.Surname,
		Avatar:  patch.Avatar,
		Role:    patch.Role,
	}

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		existing, err := s.users.GetUserByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != userID:
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		case err != nil && !errors.Is(err, storage.ErrUserNotFound):
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		upd.Email = &email
	}

	if patch.Password != nil {
		hashed, err := password.GetHash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		upd.PasswordHash = &hashed
	}

	user, err := s.users.UpdateUser(ctx, userID, upd)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrUserExists):
		return nil, fmt.Errorf("%s: %w", op, ErrConflict)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !upd.Empty() {
		s.publish(ctx, EventUserUpdated, UserEvent{ID: user.ID, Email: user.Email, Role: user.Role})
	}
	return user, nil
}

// DeleteUser удаляет пользователя. Отсутствующий пользователь даёт ErrNotFound.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	const op = "services.DeleteUser"
	deleted, err := s.users.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !deleted {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	s.publish(ctx, EventUserDeleted, UserEvent{ID: userID})
	return nil
}

// ListUsers возвращает всех пользователей.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "services.ListUsers"
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// ListOwnProducts возвращает объявления пользователя userID.
// Если пользователь уже удалён, возвращается ErrNotFound.
func (s *UserService) ListOwnProducts(ctx context.Context, userID string) ([]*models.Product, error) {
	const op = "services.ListOwnProducts"
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := s.products.ListProductsByPoster(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *UserService) publish(ctx context.Context, routingKey string, event UserEvent) {
	if s.events == nil {
		return
	}
	event.At = time.Now().UTC()
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		s.log.Error("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}
