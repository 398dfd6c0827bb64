// Package list реализует HTTP-обработчик списка всех пользователей.
// Маршрут доступен только роли host.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/accounts-service/internal/http/response"
	"github.com/magabrotheeeer/accounts-service/internal/models"
)

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Handler обрабатывает запросы на список пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех пользователей. Только для роли host.
// @Tags Users
// @Produce  json
// @Success 200 {array} models.User
// @Failure 401 {object} response.MessageResponse "Пользователь не авторизован"
// @Failure 403 {object} response.MessageResponse "Недостаточно прав"
// @Failure 500 {object} response.MessageResponse "Внутренняя ошибка сервера"
// @Router /users [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("users listed", slog.Int("count", len(users)))
	response.JSON(w, r, http.StatusOK, users)
}
