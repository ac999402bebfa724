// Package deactivate реализует HTTP-обработчик дополнительного действия
// деактивации подписки.
//
// Действие идемпотентно: повторный вызов оставляет active = false и
// возвращает тот же статус подтверждения.
package deactivate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики деактивации подписки.
type Service interface {
	Deactivate(ctx context.Context, ownerID, id int64) error
}

// Handler обрабатывает HTTP-запросы деактивации подписки.
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
// @Summary Деактивировать подписку
// @Description Идемпотентно выставляет active = false и возвращает статус подтверждения.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID подписки"
// @Success 200 {object} map[string]any "Подписка деактивирована"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/subscriptions/{id}/deactivate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.deactivate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Not found"))
		return
	}

	user := middlewarectx.UserFromContext(r.Context())

	err = h.service.Deactivate(r.Context(), user.ID, id)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Not found"))
		return
	}
	if err != nil {
		log.Error("failed to deactivate subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("deactivated subscription", slog.Int64("id", id), sl.User(user.ID))
	render.JSON(w, r, map[string]any{
		"ok":     true,
		"status": "deactivated",
	})
}
