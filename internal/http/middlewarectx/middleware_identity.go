// Package middlewarectx содержит HTTP middleware для разрешения личности
// по сессионной cookie и проверки прав доступа.
//
// Identity читает сессионную cookie, разрешает её в пользователя через
// сервис аутентификации и кладёт пользователя и токен в контекст запроса.
// Протухшая сессия деактивированного пользователя завершается на месте
// с ответом 403. RequireActive и RequireAdmin — проверки доступа,
// навешиваемые на защищённые группы маршрутов.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/config"
	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/models"
	authservice "github.com/VagueKEK/P-inz/internal/services/auth"
	"github.com/VagueKEK/P-inz/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для текущего пользователя в контексте
	User Key = "user"
	// Token — ключ для сессионного токена в контексте
	Token Key = "session_token"
)

// DisabledAccountMessage — текст ошибки для деактивированной учётной записи.
const DisabledAccountMessage = "This account has been deactivated. Contact the administrator."

// Identifier описывает интерфейс сервиса разрешения личности по токену.
type Identifier interface {
	Identify(ctx context.Context, token string) (*models.User, error)
}

// UserFromContext возвращает текущего пользователя запроса или nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(User).(*models.User)
	return user
}

// TokenFromContext возвращает сессионный токен запроса или пустую строку.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(Token).(string)
	return token
}

// Identity возвращает HTTP middleware, разрешающее сессионную cookie
// в пользователя.
//
// Анонимные запросы проходят дальше без личности. Сессия, ссылающаяся
// на деактивированного пользователя, завершается сервером: cookie
// гасится и возвращается 403.
func Identity(log *slog.Logger, identifier Identifier, cfg config.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Identity"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := identifier.Identify(r.Context(), cookie.Value)
			if errors.Is(err, authservice.ErrAccountDisabled) {
				log.Warn("stale session of disabled account terminated")
				session.ClearCookie(w, cfg)
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, map[string]any{
					"isAuthenticated": false,
					"user":            nil,
					"error":           DisabledAccountMessage,
				})
				return
			}
			if err != nil {
				log.Error("failed to resolve session", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if user == nil {
				// Токен протух или пользователь удалён.
				session.ClearCookie(w, cfg)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			ctx = context.WithValue(ctx, Token, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
