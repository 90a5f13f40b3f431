// Package server собирает HTTP сервер: хранилище, обработчики,
// цепочки middleware и graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/blogapi/internal/config"
	"github.com/iudanet/blogapi/internal/server/handlers"
	"github.com/iudanet/blogapi/internal/server/jwt"
	"github.com/iudanet/blogapi/internal/server/middleware"
	"github.com/iudanet/blogapi/internal/server/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// App инкапсулирует запущенное приложение сервера
type App struct {
	config  *config.Config
	logger  *slog.Logger
	storage *sqlite.Storage
	httpSrv *http.Server
}

// NewApp создает приложение: открывает хранилище, прогоняет миграции,
// строит роутер с цепочками middleware
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := newLogger(cfg.Server.LogLevel)

	store, err := sqlite.New(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	app := &App{
		config:  cfg,
		logger:  logger,
		storage: store,
	}

	app.httpSrv = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.buildHandler(tokens),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return app, nil
}

// buildHandler строит роутер и навешивает цепочки middleware.
// Порядок на каждом маршруте: auth -> валидация (внутри обработчика) ->
// операция хранилища -> формирование ответа; ошибки стекаются
// в единый нормализатор.
func (app *App) buildHandler(tokens *jwt.Service) http.Handler {
	logger := app.logger
	store := app.storage

	authHandler := handlers.NewAuthHandler(logger, store, tokens)
	articleHandler := handlers.NewArticleHandler(logger, store)
	commentHandler := handlers.NewCommentHandler(logger, store, store)
	healthHandler := handlers.NewHealthHandler(logger)

	attachUser := middleware.AttachUser(logger, tokens, store)
	requireAuth := middleware.RequireAuth(logger, tokens, store)
	requireRefresh := middleware.RequireRefresh(logger, tokens, store)
	requireAdmin := middleware.RequireAdmin(logger)
	authRate := middleware.RateLimit(app.config.RateLimit.AuthRequests, app.config.RateLimit.AuthWindow, logger)

	mux := http.NewServeMux()

	// auth
	mux.Handle("POST /auth/signup", chain(handlers.Handle(logger, authHandler.Signup), authRate))
	mux.Handle("POST /auth/login", chain(handlers.Handle(logger, authHandler.Login), authRate))
	mux.Handle("POST /auth/refresh-token", chain(handlers.Handle(logger, authHandler.Refresh), authRate, requireRefresh))

	// чтение статей и комментариев: анонимно или с опциональным пользователем
	mux.Handle("GET /articles", chain(handlers.Handle(logger, articleHandler.List), attachUser))
	mux.Handle("GET /articles/{id}", chain(handlers.Handle(logger, articleHandler.GetByID), attachUser))
	mux.Handle("GET /articles/{articleId}/comments", chain(handlers.Handle(logger, commentHandler.List), attachUser))

	// комментарии: любой аутентифицированный пользователь
	mux.Handle("POST /articles/{articleId}/comments", chain(handlers.Handle(logger, commentHandler.Create), requireAuth))
	mux.Handle("PUT /articles/{articleId}/comments/{id}", chain(handlers.Handle(logger, commentHandler.Update), requireAuth))
	mux.Handle("DELETE /articles/{articleId}/comments/{id}", chain(handlers.Handle(logger, commentHandler.Delete), requireAuth))

	// админский доступ к статьям
	mux.Handle("GET /admin/articles", chain(handlers.Handle(logger, articleHandler.List), requireAuth, requireAdmin))
	mux.Handle("GET /admin/articles/{id}", chain(handlers.Handle(logger, articleHandler.GetByID), requireAuth, requireAdmin))
	mux.Handle("POST /admin/articles", chain(handlers.Handle(logger, articleHandler.Create), requireAuth, requireAdmin))
	mux.Handle("PUT /admin/articles/{id}", chain(handlers.Handle(logger, articleHandler.Update), requireAuth, requireAdmin))
	mux.Handle("DELETE /admin/articles/{id}", chain(handlers.Handle(logger, articleHandler.Delete), requireAuth, requireAdmin))

	// мониторинг
	mux.HandleFunc("GET /health", healthHandler.Health)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewMetrics(registry)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// внешняя цепочка для всех маршрутов
	return chain(mux,
		middleware.Recovery(app.logger),
		middleware.Logging(app.logger),
		metrics.Middleware(),
		middleware.CORS(app.config.Server.CORSOrigin),
	)
}

// Run запускает HTTP сервер и блокируется до отмены контекста,
// после чего выполняет graceful shutdown
func (app *App) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		app.logger.Info("HTTP server starting", "addr", app.config.Server.Addr)
		if err := app.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		app.storage.Close()
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.httpSrv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("graceful shutdown failed", "error", err)
	}

	if err := app.storage.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}

	return nil
}

// chain оборачивает handler в middleware; первый элемент списка
// оказывается самым внешним в цепочке
func chain(h http.Handler, mw ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// newLogger создает slog логгер с уровнем из конфигурации
func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
