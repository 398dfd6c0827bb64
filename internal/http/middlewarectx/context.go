package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/accounts-service/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID ключ для идентификатора пользователя в контексте.
	UserID Key = "user_id"
	// Role ключ для роли пользователя в контексте.
	Role Key = "role"
	// CurrentUser ключ для *models.User, прочитанного из хранилища.
	CurrentUser Key = "current_user"
)

// WithUser кладёт пользователя, его ID и роль в контекст.
func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserID, user.ID)
	ctx = context.WithValue(ctx, Role, user.Role)
	return context.WithValue(ctx, CurrentUser, user)
}

// UserIDFrom возвращает ID аутентифицированного пользователя.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserID).(string)
	return id, ok && id != ""
}

// RoleFrom возвращает роль аутентифицированного пользователя.
func RoleFrom(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(Role).(string)
	return role, ok && role != ""
}

// UserFrom возвращает пользователя, прочитанного JWTMiddleware.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CurrentUser).(*models.User)
	return user, ok && user != nil
}
