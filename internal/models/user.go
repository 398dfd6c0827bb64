// Package models содержит доменные структуры сервиса учётных записей:
// пользователя, изменения профиля и объявления (products), которыми владеет
// пользователь.
package models

import "time"

// Роли пользователей. RoleHost обладает административными правами.
const (
	RoleGuest = "guest"
	RoleHost  = "host"
)

// User представляет зарегистрированного пользователя системы.
// PasswordHash никогда не попадает в JSON-ответы.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser содержит данные кандидата при регистрации. Пароль здесь ещё открытый.
type NewUser struct {
	Name     string
	Surname  string
	Email    string
	Avatar   string
	Role     string
	Password string
}

// UserPatch перечисляет поля профиля, которые разрешено менять.
// nil означает "не менять"; любые другие поля запроса игнорируются.
type UserPatch struct {
	Name     *string
	Surname  *string
	Email    *string
	Avatar   *string
	Role     *string
	Password *string
}

// UserUpdate передаётся в хранилище: пароль уже заменён хешем.
type UserUpdate struct {
	Name         *string
	Surname      *string
	Email        *string
	Avatar       *string
	Role         *string
	PasswordHash *string
}

// Empty сообщает, что обновлять нечего.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Surname == nil && u.Email == nil &&
		u.Avatar == nil && u.Role == nil && u.PasswordHash == nil
}
