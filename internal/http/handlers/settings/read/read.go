// Package read реализует HTTP-обработчик чтения настроек пользователя.
// Запись настроек создаётся лениво при первом обращении.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/models"
)

// Service описывает интерфейс бизнес-логики настроек.
type Service interface {
	Get(ctx context.Context, userID int64) (*models.Settings, error)
}

// Handler обрабатывает HTTP-запросы чтения настроек.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Настройки текущего пользователя
// @Description Возвращает настройки, создавая запись по умолчанию при первом обращении.
// @Tags Settings
// @Produce  json
// @Success 200 {object} models.Settings "Настройки пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/settings/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user := middlewarectx.UserFromContext(r.Context())

	settings, err := h.service.Get(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to get settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}
	render.JSON(w, r, settings)
}
