// Package accounts собирает сервис учётных записей: хранилище, миграции,
// redis, RabbitMQ, бизнес-логику и HTTP-сервер.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/accounts-service/internal/cache"
	"github.com/magabrotheeeer/accounts-service/internal/config"
	"github.com/magabrotheeeer/accounts-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/accounts-service/internal/lib/jwt"
	"github.com/magabrotheeeer/accounts-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/accounts-service/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-service/internal/migrations"
	"github.com/magabrotheeeer/accounts-service/internal/services"
	"github.com/magabrotheeeer/accounts-service/internal/storage/repository"
)

const (
	amqpRetries     = 5
	amqpRetryDelay  = 2 * time.Second
	shutdownTimeout = 15 * time.Second
)

// App сервис учётных записей.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	// closers закрываются в обратном порядке при остановке.
	closers []io.Closer
}

// New подключает зависимости и собирает HTTP-сервер.
// redis и RabbitMQ необязательны: пустой адрес отключает соответствующую функцию.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.accounts.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	opts := []services.Option{services.WithHostSignup(cfg.AllowHostSignup)}

	if cfg.RedisAddress != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, cacheRedis)
		opts = append(opts, services.WithLoginGuard(cache.NewLoginGuard(cacheRedis, cfg.MaxAttempts, cfg.Window)))
	} else {
		logger.Warn("redis address is empty, login throttling disabled")
	}

	if cfg.RabbitMQURL != "" {
		pub, err := a.connectPublisher(cfg.RabbitMQURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		opts = append(opts, services.WithEventPublisher(pub))
	} else {
		logger.Warn("rabbitmq url is empty, user events disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	userService := services.NewUserService(db, db, jwtMaker, logger, opts...)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, userService, middlewarectx.NewMetrics(prometheus.DefaultRegisterer))

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) connectPublisher(url string) (*rabbitmq.Publisher, error) {
	conn, err := rabbitmq.Connect(url, amqpRetries, amqpRetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closerFunc(func() error { return conn.Close() }))

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.UsersExchange)
	if err != nil {
		return nil, err
	}
	pub := rabbitmq.NewPublisher(ch, rabbitmq.UsersExchange)
	a.closers = append(a.closers, pub)

	go a.watchConnection(conn.NotifyClose(make(chan *amqp.Error, 1)))
	return pub, nil
}

func (a *App) watchConnection(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		a.logger.Error("rabbitmq connection lost, user events will not be delivered", sl.Err(err))
	}
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close storage", sl.Err(err))
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
