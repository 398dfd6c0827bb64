// Package logout реализует выход пользователя.
//
// Токены не хранятся на сервере, поэтому выход только подтверждается:
// ранее выданный токен остаётся действительным до истечения срока.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/accounts-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/accounts-service/internal/http/response"
)

// Handler подтверждает выход пользователя.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Подтверждает выход. Токен не отзывается.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.MessageResponse "Выход выполнен"
// @Failure 401 {object} response.MessageResponse "Пользователь не авторизован"
// @Router /users/logout [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewarectx.UserIDFrom(r.Context())
	h.log.Info("user logged out",
		slog.String("op", "handlers.auth.logout"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("user_id", userID),
	)
	response.JSON(w, r, http.StatusOK, response.Message("Logout successful"))
}
