// Package read реализует HTTP-обработчик получения профиля пользователя.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/target"
	"github.com/magabrotheeeer/accounts-service/internal/http/response"
	"github.com/magabrotheeeer/accounts-service/internal/models"
	"github.com/magabrotheeeer/accounts-service/internal/services"
)

// Service описывает интерфейс бизнес-логики чтения пользователя.
type Service interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Handler обрабатывает запросы на получение пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
	target  target.Target
}

// New создает новый Handler; target выбирает текущего или указанного пользователя.
func New(log *slog.Logger, service Service, t target.Target) *Handler {
	return &Handler{
		log:     log,
		service: service,
		target:  t,
	}
}

// ServeHTTP godoc
// @Summary Получить пользователя
// @Description Возвращает профиль текущего пользователя (/users/me) или пользователя по ID.
// @Tags Users
// @Produce  json
// @Param userId path string false "ID пользователя (для /users/{userId})"
// @Success 200 {object} models.User
// @Failure 401 {object} response.MessageResponse "Пользователь не авторизован"
// @Failure 403 {object} response.MessageResponse "Недостаточно прав"
// @Failure 404 {object} response.MessageResponse "Пользователь не найден"
// @Failure 500 {object} response.MessageResponse "Внутренняя ошибка сервера"
// @Router /users/me [get]
// @Router /users/{userId} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := h.target.ID(r)
	if !ok {
		response.Fail(w, r, log, services.ErrUnauthorized)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		log.Info("user not found", slog.String("user_id", id))
		response.JSON(w, r, http.StatusNotFound, response.Error(h.target.NotFound(id)))
		return
	}
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	response.JSON(w, r, http.StatusOK, user)
}
