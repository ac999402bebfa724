// Package csrf реализует HTTP-обработчик выдачи анти-CSRF cookie.
// Фронтенд вызывает его перед первым мутирующим запросом и затем
// возвращает значение cookie в заголовке X-CSRF-Token.
package csrf

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/config"
	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы выдачи анти-CSRF cookie.
type Handler struct {
	log    *slog.Logger
	cookie config.Session
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, cookie config.Session) *Handler {
	return &Handler{
		log:    log,
		cookie: cookie,
	}
}

// ServeHTTP godoc
// @Summary Выдача анти-CSRF cookie
// @Description Выставляет cookie с токеном для защиты мутирующих запросов.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]string "Cookie выставлена"
// @Router /api/csrf [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.csrf"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, err := middlewarectx.NewCSRFToken()
	if err != nil {
		log.Error("failed to generate CSRF token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}
	middlewarectx.SetCSRFCookie(w, h.cookie, token)

	render.JSON(w, r, map[string]string{"detail": "CSRF cookie set"})
}
