// Package me реализует HTTP-обработчик текущей личности.
//
// Обработчик открыт для анонимных запросов: личность (или её отсутствие)
// уже разрешена middleware Identity. Протухшие сессии деактивированных
// учётных записей завершаются там же и сюда не доходят.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
)

// Handler обрабатывает HTTP-запросы текущей личности.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущая личность
// @Description Возвращает признак аутентификации и краткие данные пользователя.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Личность текущего запроса"
// @Router /api/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := middlewarectx.UserFromContext(r.Context())
	if user == nil {
		render.JSON(w, r, map[string]any{
			"isAuthenticated": false,
			"user":            nil,
		})
		return
	}
	render.JSON(w, r, map[string]any{
		"isAuthenticated": true,
		"user":            user.Summary(),
	})
}
