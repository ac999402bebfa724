// Package clearsubs реализует HTTP-обработчик массового удаления
// подписок пользователя в админ-консоли.
package clearsubs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики массового удаления подписок.
type Service interface {
	ClearSubscriptions(ctx context.Context, targetID int64) (int64, error)
}

// Handler обрабатывает HTTP-запросы массового удаления подписок.
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
// @Summary Удалить все подписки пользователя
// @Description Удаляет все подписки целевого пользователя и возвращает их количество.
// @Tags Admin
// @Produce  json
// @Param id path int true "ID пользователя"
// @Success 200 {object} map[string]any "Количество удалённых подписок"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/users/{id}/clear-subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.clearsubs"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found"))
		return
	}

	deleted, err := h.service.ClearSubscriptions(r.Context(), targetID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found"))
		return
	case err != nil:
		log.Error("failed to clear subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("cleared user subscriptions", sl.User(targetID), slog.Int64("deleted", deleted))
	render.JSON(w, r, map[string]any{
		"ok":      true,
		"deleted": deleted,
	})
}
