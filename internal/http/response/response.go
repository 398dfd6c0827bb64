// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов HTTP-обработчиков: сообщений, ошибок и ошибок валидации.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/accounts-service/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-service/internal/services"
)

// MessageResponse тело ответа с единственным сообщением. Используется и для ошибок.
type MessageResponse struct {
	Message string `json:"message" example:"User already exists"`
}

// Error возвращает MessageResponse с переданным сообщением.
func Error(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// Message возвращает MessageResponse для успешных ответов без данных.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// JSON выставляет статус и отдаёт v в формате JSON.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// ValidationError формирует сообщение на основе ошибок валидации.
// Каждое нарушение формируется в человеко-читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) MessageResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		case "maxbytes":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s bytes", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return MessageResponse{Message: strings.Join(errsMsgs, ", ")}
}

// Status сопоставляет ошибку бизнес-уровня со статусом и текстом ответа.
// Неизвестные ошибки дают 500 с общим текстом: причина не раскрывается клиенту.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Username or password is incorrect"
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, services.ErrPasswordTooLong):
		return http.StatusUnprocessableEntity, "field Password must be at most 72 bytes"
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many login attempts, try again later"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// Fail логирует err и отдаёт клиенту соответствующий статус и {"message": ...}.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	JSON(w, r, status, Error(msg))
}
