// Package remove реализует HTTP-обработчики удаления пользователя.
//
// Удаление себя отвечает 204 без тела, удаление по ID отвечает 200 с сообщением.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/target"
	"github.com/magabrotheeeer/accounts-service/internal/http/response"
	"github.com/magabrotheeeer/accounts-service/internal/services"
)

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	DeleteUser(ctx context.Context, userID string) error
}

// Handler обрабатывает запросы на удаление пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
	target  target.Target
	success func(w http.ResponseWriter, r *http.Request)
}

// NewSelf создает Handler для DELETE /users/me.
func NewSelf(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		target:  target.Self(),
		success: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	}
}

// NewByID создает Handler для DELETE /users/{param}.
func NewByID(log *slog.Logger, service Service, param string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		target:  target.Param(param),
		success: func(w http.ResponseWriter, r *http.Request) {
			response.JSON(w, r, http.StatusOK, response.Message("User deleted successfully!"))
		},
	}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Description Удаляет текущего пользователя (/users/me, ответ 204) или пользователя по ID (ответ 200).
// @Tags Users
// @Produce  json
// @Param userId path string false "ID пользователя (для /users/{userId})"
// @Success 200 {object} response.MessageResponse "Пользователь удален"
// @Success 204 "Текущий пользователь удален"
// @Failure 401 {object} response.MessageResponse "Пользователь не авторизован"
// @Failure 403 {object} response.MessageResponse "Недостаточно прав"
// @Failure 404 {object} response.MessageResponse "Пользователь не найден"
// @Failure 500 {object} response.MessageResponse "Внутренняя ошибка сервера"
// @Router /users/me [delete]
// @Router /users/{userId} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := h.target.ID(r)
	if !ok {
		response.Fail(w, r, log, services.ErrUnauthorized)
		return
	}

	err := h.service.DeleteUser(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		log.Info("user not found", slog.String("user_id", id))
		response.JSON(w, r, http.StatusNotFound, response.Error(h.target.NotFound(id)))
		return
	}
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("user deleted", slog.String("user_id", id))
	h.success(w, r)
}
