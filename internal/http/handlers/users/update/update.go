// Package update реализует HTTP-обработчик изменения профиля пользователя.
//
// Принимаются только поля из Request; остальные поля тела игнорируются.
// Смена роли разрешена только пользователю с ролью host.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/target"
	"github.com/magabrotheeeer/accounts-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/accounts-service/internal/http/response"
	"github.com/magabrotheeeer/accounts-service/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-service/internal/lib/validate"
	"github.com/magabrotheeeer/accounts-service/internal/models"
	"github.com/magabrotheeeer/accounts-service/internal/services"
)

// Request изменяемые поля профиля. Отсутствующее поле не меняется.
type Request struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Surname  *string `json:"surname,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=guest host"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72,maxbytes=72"`
}

func (req Request) patch() models.UserPatch {
	return models.UserPatch{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Role:     req.Role,
		Password: req.Password,
	}
}

// Service описывает интерфейс бизнес-логики изменения пользователя.
type Service interface {
	UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error)
}

// Handler обрабатывает запросы на изменение пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	target   target.Target
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, t target.Target) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		target:   t,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить пользователя
// @Description Частично обновляет профиль текущего пользователя (/users/me) или пользователя по ID.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param userId path string false "ID пользователя (для /users/{userId})"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} models.User
// @Failure 400 {object} response.MessageResponse "Некорректный JSON или email уже занят"
// @Failure 401 {object} response.MessageResponse "Пользователь не авторизован"
// @Failure 403 {object} response.MessageResponse "Недостаточно прав"
// @Failure 404 {object} response.MessageResponse "Пользователь не найден"
// @Failure 422 {object} response.MessageResponse "Ошибка валидации"
// @Failure 500 {object} response.MessageResponse "Внутренняя ошибка сервера"
// @Router /users/me [put]
// @Router /users/{userId} [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := h.target.ID(r)
	if !ok {
		response.Fail(w, r, log, services.ErrUnauthorized)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.JSON(w, r, http.StatusUnprocessableEntity, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if req.Role != nil {
		if role, _ := middlewarectx.RoleFrom(r.Context()); role != models.RoleHost {
			response.Fail(w, r, log, services.ErrForbidden)
			return
		}
	}

	user, err := h.service.UpdateUser(r.Context(), id, req.patch())
	if errors.Is(err, services.ErrNotFound) {
		log.Info("user not found", slog.String("user_id", id))
		response.JSON(w, r, http.StatusNotFound, response.Error(h.target.NotFound(id)))
		return
	}
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("user updated", slog.String("user_id", id))
	response.JSON(w, r, http.StatusOK, user)
}
