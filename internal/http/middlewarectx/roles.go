package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/accounts-service/internal/http/response"
	"github.com/magabrotheeeer/accounts-service/internal/services"
)

// RequireRoles пропускает запрос, только если роль из контекста входит в roles.
// Ставится после JWTMiddleware.
func RequireRoles(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := RoleFrom(r.Context())
			if _, ok := allowed[role]; !ok {
				log := log.With(
					slog.String("op", "middlewarectx.RequireRoles"),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				response.Fail(w, r, log, services.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
