// Package app собирает приложение: хранилище, сессии, сервисы,
// маршруты и жизненный цикл HTTP-сервера.
package app

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/VagueKEK/P-inz/internal/config"
	"github.com/VagueKEK/P-inz/internal/http/handlers/admin/clearsubs"
	"github.com/VagueKEK/P-inz/internal/http/handlers/admin/removeuser"
	"github.com/VagueKEK/P-inz/internal/http/handlers/admin/resetpassword"
	"github.com/VagueKEK/P-inz/internal/http/handlers/admin/setactive"
	"github.com/VagueKEK/P-inz/internal/http/handlers/admin/userlist"
	"github.com/VagueKEK/P-inz/internal/http/handlers/auth/login"
	"github.com/VagueKEK/P-inz/internal/http/handlers/auth/logout"
	"github.com/VagueKEK/P-inz/internal/http/handlers/auth/me"
	"github.com/VagueKEK/P-inz/internal/http/handlers/auth/register"
	"github.com/VagueKEK/P-inz/internal/http/handlers/csrf"
	"github.com/VagueKEK/P-inz/internal/http/handlers/health"
	settingsread "github.com/VagueKEK/P-inz/internal/http/handlers/settings/read"
	settingsupdate "github.com/VagueKEK/P-inz/internal/http/handlers/settings/update"
	"github.com/VagueKEK/P-inz/internal/http/handlers/subscription/create"
	"github.com/VagueKEK/P-inz/internal/http/handlers/subscription/deactivate"
	"github.com/VagueKEK/P-inz/internal/http/handlers/subscription/list"
	"github.com/VagueKEK/P-inz/internal/http/handlers/subscription/read"
	"github.com/VagueKEK/P-inz/internal/http/handlers/subscription/remove"
	"github.com/VagueKEK/P-inz/internal/http/handlers/subscription/update"
	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
	adminservice "github.com/VagueKEK/P-inz/internal/services/admin"
	authservice "github.com/VagueKEK/P-inz/internal/services/auth"
	settingsservice "github.com/VagueKEK/P-inz/internal/services/settings"
	subservice "github.com/VagueKEK/P-inz/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	authService *authservice.Service,
	subService *subservice.Service,
	settingsService *settingsservice.Service,
	adminService *adminservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middleware.StripSlashes,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middlewarectx.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", health.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.Identity(logger, authService, cfg.Session))
		r.Use(middlewarectx.CSRFProtect(logger, cfg.Session))

		r.Get("/csrf", csrf.New(logger, cfg.Session).ServeHTTP)
		r.Get("/auth/me", me.New(logger).ServeHTTP)

		// Открытые конечные точки с ограничением частоты запросов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/auth/register", register.New(logger, authService, cfg.Session).ServeHTTP)
			r.Post("/auth/login", login.New(logger, authService, cfg.Session).ServeHTTP)
		})

		// Группа для аутентифицированных активных пользователей
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireActive(logger))

			r.Post("/auth/logout", logout.New(logger, authService, cfg.Session).ServeHTTP)

			r.Get("/settings/me", settingsread.New(logger, settingsService).ServeHTTP)
			r.Patch("/settings/me", settingsupdate.New(logger, settingsService).ServeHTTP)

			r.Get("/subscriptions", list.New(logger, subService).ServeHTTP)
			r.Post("/subscriptions", create.New(logger, subService).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, subService).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, subService).ServeHTTP)
			r.Patch("/subscriptions/{id}", update.New(logger, subService).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, subService).ServeHTTP)
			r.Post("/subscriptions/{id}/deactivate", deactivate.New(logger, subService).ServeHTTP)

			// Админ-консоль
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Get("/admin/users", userlist.New(logger, adminService).ServeHTTP)
				r.Patch("/admin/users/{id}", setactive.New(logger, adminService).ServeHTTP)
				r.Delete("/admin/users/{id}", removeuser.New(logger, adminService).ServeHTTP)
				r.Post("/admin/users/{id}/reset-password", resetpassword.New(logger, adminService).ServeHTTP)
				r.Post("/admin/users/{id}/clear-subscriptions", clearsubs.New(logger, adminService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
