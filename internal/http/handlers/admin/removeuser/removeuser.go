// Package removeuser реализует HTTP-обработчик удаления пользователя
// в админ-консоли. Удаление собственной учётной записи запрещено.
package removeuser

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
	adminservice "github.com/VagueKEK/P-inz/internal/services/admin"
	"github.com/VagueKEK/P-inz/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	DeleteUser(ctx context.Context, actorID, targetID int64) error
}

// Handler обрабатывает HTTP-запросы удаления пользователя.
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
// @Summary Удалить пользователя
// @Description Удаляет учётную запись вместе с подписками, настройками и сессиями. Удаление себя запрещено.
// @Tags Admin
// @Produce  json
// @Param id path int true "ID пользователя"
// @Success 200 {object} response.Response "Пользователь удалён"
// @Failure 400 {object} response.ErrorResponse "Попытка удалить себя"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.removeuser"

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

	actor := middlewarectx.UserFromContext(r.Context())

	err = h.service.DeleteUser(r.Context(), actor.ID, targetID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found"))
		return
	case errors.Is(err, adminservice.ErrSelfDelete):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("You cannot delete your own account."))
		return
	case err != nil:
		log.Error("failed to delete user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("deleted user", sl.User(targetID))
	render.JSON(w, r, response.OK())
}
