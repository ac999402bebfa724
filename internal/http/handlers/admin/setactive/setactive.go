// Package setactive реализует HTTP-обработчик смены флага активности
// пользователя в админ-консоли.
//
// Поле is_active принимает булевы значения и распространённые строковые
// и числовые кодировки. Деактивация собственной учётной записи
// отклоняется правилом самозащиты.
package setactive

import (
	"context"
	"encoding/json"
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
	"github.com/VagueKEK/P-inz/internal/models"
	adminservice "github.com/VagueKEK/P-inz/internal/services/admin"
	"github.com/VagueKEK/P-inz/internal/storage/repository"
)

// Request — структура входных данных смены флага активности.
// IsActive принимается как any ради поддержки строковых и числовых кодировок.
type Request struct {
	IsActive any `json:"is_active"`
}

// Service описывает интерфейс бизнес-логики смены флага активности.
type Service interface {
	SetActive(ctx context.Context, actorID, targetID int64, isActive bool) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы смены флага активности.
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
// @Summary Сменить флаг активности пользователя
// @Description Активирует или деактивирует пользователя. Деактивация себя запрещена.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID пользователя"
// @Param request body Request true "Новое значение is_active"
// @Success 200 {object} map[string]any "Флаг обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или самозащита"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/users/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.setactive"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if req.IsActive == nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Missing is_active"))
		return
	}

	isActive, err := models.ParseBool(req.IsActive)
	if err != nil {
		log.Info("unrecognized is_active encoding", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid is_active"))
		return
	}

	actor := middlewarectx.UserFromContext(r.Context())

	target, err := h.service.SetActive(r.Context(), actor.ID, targetID, isActive)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found"))
		return
	case errors.Is(err, adminservice.ErrSelfDeactivate):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("You cannot deactivate your own account."))
		return
	case err != nil:
		log.Error("failed to change active flag", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("changed active flag", sl.User(targetID), slog.Bool("is_active", isActive))
	render.JSON(w, r, map[string]any{
		"ok": true,
		"user": map[string]any{
			"id":        target.ID,
			"is_active": target.IsActive,
		},
	})
}
