package accounts

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/accounts-service/internal/config"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/products"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/read"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/remove"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/target"
	"github.com/magabrotheeeer/accounts-service/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/accounts-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/accounts-service/internal/models"
	"github.com/magabrotheeeer/accounts-service/internal/services"

	// swagger-спецификация
	_ "github.com/magabrotheeeer/accounts-service/docs"
)

const userIDParam = "userId"

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, userService *services.UserService, metrics *middlewarectx.Metrics) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	authenticate := middlewarectx.JWTMiddleware(userService, logger)
	hostOnly := middlewarectx.RequireRoles(logger, models.RoleHost)

	r.Route("/users", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(cfg.RateLimit), cfg.RateBurst))
			r.Post("/register", register.New(logger, userService).ServeHTTP)
			r.Post("/login", login.New(logger, userService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/logout", logout.New(logger).ServeHTTP)
			r.Get("/me", read.New(logger, userService, target.Self()).ServeHTTP)
			r.Put("/me", update.New(logger, userService, target.Self()).ServeHTTP)
			r.Delete("/me", remove.NewSelf(logger, userService).ServeHTTP)
			r.Get("/me/products", products.New(logger, userService).ServeHTTP)
			r.With(hostOnly).Get("/", list.New(logger, userService).ServeHTTP)
		})

		// Маршруты по ID
		r.Group(func(r chi.Router) {
			if !cfg.PublicByIDRoutes {
				r.Use(authenticate, hostOnly)
			}
			byID := "/{" + userIDParam + "}"
			r.Get(byID, read.New(logger, userService, target.Param(userIDParam)).ServeHTTP)
			r.Put(byID, update.New(logger, userService, target.Param(userIDParam)).ServeHTTP)
			r.Delete(byID, remove.NewByID(logger, userService, userIDParam).ServeHTTP)
		})
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
