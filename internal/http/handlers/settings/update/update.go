// Package update реализует HTTP-обработчик частичного обновления
// настроек пользователя. Отсутствующие поля сохраняют текущие значения,
// некорректные значения отклоняются как 400.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/models"
	settingsservice "github.com/VagueKEK/P-inz/internal/services/settings"
)

// Service описывает интерфейс бизнес-логики обновления настроек.
type Service interface {
	Update(ctx context.Context, userID int64, req models.DummySettings) (*models.Settings, error)
}

// Handler обрабатывает HTTP-запросы обновления настроек.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновление настроек текущего пользователя
// @Description Частично обновляет настройки. Отсутствующие поля не меняются.
// @Tags Settings
// @Accept  json
// @Produce  json
// @Param request body models.DummySettings true "Изменяемые поля настроек"
// @Success 200 {object} models.Settings "Обновлённые настройки"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/settings/me [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user := middlewarectx.UserFromContext(r.Context())

	settings, err := h.service.Update(r.Context(), user.ID, req)
	if errors.Is(err, settingsservice.ErrNegativeLimit) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid limit_val"))
		return
	}
	if err != nil {
		log.Error("failed to update settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("settings updated", sl.User(user.ID))
	render.JSON(w, r, settings)
}
