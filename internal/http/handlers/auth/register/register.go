// Package register реализует HTTP-обработчик регистрации нового пользователя.
//
// Handler декодирует и валидирует данные кандидата, передаёт их сервису и
// возвращает идентификатор созданной записи. Занятый email даёт 400.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/accounts-service/internal/http/response"
	"github.com/magabrotheeeer/accounts-service/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-service/internal/lib/validate"
	"github.com/magabrotheeeer/accounts-service/internal/models"
)

// Request входные данные для регистрации.
type Request struct {
	Name     string `json:"name" validate:"required,max=100" example:"Ann"`
	Surname  string `json:"surname" validate:"required,max=100" example:"Lee"`
	Email    string `json:"email" validate:"required,email" example:"ann@example.com"`
	Password string `json:"password" validate:"required,min=6,max=72,maxbytes=72" example:"secret123"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url" example:"https://cdn.example.com/ann.png"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=guest host" example:"guest"`
}

// Response тело успешного ответа.
type Response struct {
	ID string `json:"_id" example:"6f1c1c8e-8a3e-4c55-9a7d-2b1f0c8f4a11"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, candidate models.NewUser) (string, error)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация нового пользователя
// @Description Создает учетную запись. Роль по умолчанию guest; host только при users.allow_host_signup.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} Response "Пользователь создан"
// @Failure 400 {object} response.MessageResponse "Некорректный JSON или email уже занят"
// @Failure 403 {object} response.MessageResponse "Регистрация с ролью host отключена"
// @Failure 422 {object} response.MessageResponse "Ошибка валидации"
// @Failure 500 {object} response.MessageResponse "Внутренняя ошибка сервера"
// @Router /users/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	id, err := h.service.Register(r.Context(), models.NewUser{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
		Role:     req.Role,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("user registered", slog.String("user_id", id))
	response.JSON(w, r, http.StatusCreated, Response{ID: id})
}
