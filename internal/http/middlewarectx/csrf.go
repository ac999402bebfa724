package middlewarectx

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/config"
	"github.com/VagueKEK/P-inz/internal/http/response"
)

// CSRFHeaderName — заголовок, в котором клиент передаёт анти-CSRF токен.
const CSRFHeaderName = "X-CSRF-Token"

const csrfTokenLength = 32

// NewCSRFToken генерирует случайный анти-CSRF токен.
func NewCSRFToken() (string, error) {
	const op = "middlewarectx.NewCSRFToken"
	buf := make([]byte, csrfTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}

// SetCSRFCookie выставляет cookie с анти-CSRF токеном. Cookie доступна
// скриптам: фронтенд читает её и возвращает токен в заголовке.
func SetCSRFCookie(w http.ResponseWriter, cfg config.Session, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CSRFCookieName,
		Value:    token,
		Path:     "/",
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CSRFProtect возвращает middleware двойной отправки cookie: мутирующие
// запросы обязаны нести в заголовке X-CSRF-Token значение, совпадающее
// с cookie. Безопасные методы проходят без проверки.
func CSRFProtect(log *slog.Logger, cfg config.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(cfg.CSRFCookieName)
			header := r.Header.Get(CSRFHeaderName)
			if err != nil || cookie.Value == "" || header == "" ||
				subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				log.Warn("CSRF check failed", slog.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("CSRF Failed: CSRF token missing or incorrect."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
