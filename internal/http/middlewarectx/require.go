package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/http/response"
)

// RequireActive пропускает только запросы с живой сессией активного
// пользователя. Анонимные запросы получают 401.
func RequireActive(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				log.Info("unauthenticated request rejected", slog.String("path", r.URL.Path))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Authentication credentials were not provided."))
				return
			}
			if !user.IsActive {
				// Identity завершает такие сессии раньше, но проверка замкнута.
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error(DisabledAccountMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin пропускает только пользователей с флагом is_staff.
// Навешивается поверх RequireActive.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || !user.IsStaff {
				log.Info("non-staff request to admin endpoint rejected", slog.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("You do not have permission to perform this action."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
