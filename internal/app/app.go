package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/VagueKEK/P-inz/internal/config"
	"github.com/VagueKEK/P-inz/internal/migrations"
	adminservice "github.com/VagueKEK/P-inz/internal/services/admin"
	authservice "github.com/VagueKEK/P-inz/internal/services/auth"
	settingsservice "github.com/VagueKEK/P-inz/internal/services/settings"
	subservice "github.com/VagueKEK/P-inz/internal/services/subscription"
	"github.com/VagueKEK/P-inz/internal/session"
	"github.com/VagueKEK/P-inz/internal/storage/repository"
)

// App объединяет HTTP-сервер и его зависимости.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	sessions *session.Store
}

// New собирает приложение: подключается к Postgres и Redis, применяет
// миграции, создаёт сервисы и настраивает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	sessions, err := session.New(ctx, cfg.RedisConnection, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	authService := authservice.New(db, db, sessions, logger)
	subService := subservice.New(db, logger)
	settingsService := settingsservice.New(db, logger)
	adminService := adminservice.New(db, db, sessions, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, subService, settingsService, adminService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		sessions: sessions,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены ctx или ошибки
// сервера. При отмене выполняется graceful shutdown.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.sessions.Db.Close()
		_ = a.db.DB.Close()
		return err
	}
}
