// Package target определяет, к какому пользователю относится запрос:
// к текущему (/users/me) или к указанному в пути (/users/{userId}).
package target

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/accounts-service/internal/http/middlewarectx"
)

// Target извлекает ID пользователя из запроса.
type Target interface {
	// ID возвращает идентификатор; false если его нет в запросе.
	ID(r *http.Request) (string, bool)
	// NotFound текст ответа 404 для id.
	NotFound(id string) string
}

type self struct{}

// Self целевой пользователь это владелец токена.
func Self() Target { return self{} }

func (self) ID(r *http.Request) (string, bool) {
	return middlewarectx.UserIDFrom(r.Context())
}

func (self) NotFound(string) string { return "User not found" }

type param struct {
	name string
}

// Param целевой пользователь берётся из параметра пути name.
func Param(name string) Target { return param{name: name} }

func (p param) ID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, p.name)
	return id, id != ""
}

func (param) NotFound(id string) string {
	return fmt.Sprintf("User with id %s not found!", id)
}
