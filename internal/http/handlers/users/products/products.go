// Package products реализует HTTP-обработчик списка объявлений текущего пользователя.
package products

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/accounts-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/accounts-service/internal/http/response"
	"github.com/magabrotheeeer/accounts-service/internal/models"
	"github.com/magabrotheeeer/accounts-service/internal/services"
)

// Service описывает интерфейс бизнес-логики объявлений пользователя.
type Service interface {
	ListOwnProducts(ctx context.Context, userID string) ([]*models.Product, error)
}

// Handler обрабатывает GET /users/me/products.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Объявления текущего пользователя
// @Description Возвращает объявления, у которых poster совпадает с ID текущего пользователя.
// @Tags Users
// @Produce  json
// @Success 200 {array} models.Product
// @Failure 401 {object} response.MessageResponse "Пользователь не авторизован"
// @Failure 404 {object} response.MessageResponse "Пользователь не найден"
// @Failure 500 {object} response.MessageResponse "Внутренняя ошибка сервера"
// @Router /users/me/products [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.products"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		response.Fail(w, r, log, services.ErrUnauthorized)
		return
	}

	list, err := h.service.ListOwnProducts(r.Context(), userID)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	response.JSON(w, r, http.StatusOK, list)
}
