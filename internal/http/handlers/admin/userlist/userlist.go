// Package userlist реализует HTTP-обработчик списка пользователей
// для админ-консоли. Необязательный параметр q фильтрует список
// подстрокой по имени пользователя или email без учёта регистра.
package userlist

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/models"
)

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	ListUsers(ctx context.Context, q string) ([]*models.User, error)
}

// Handler обрабатывает HTTP-запросы списка пользователей.
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
// @Summary Список пользователей
// @Description Возвращает пользователей по возрастанию ID, опционально отфильтрованных подстрокой.
// @Tags Admin
// @Produce  json
// @Param q query string false "Подстрока для поиска по имени или email"
// @Success 200 {array} models.AdminUserView "Пользователи"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := strings.TrimSpace(r.URL.Query().Get("q"))

	users, err := h.service.ListUsers(r.Context(), q)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	views := make([]models.AdminUserView, 0, len(users))
	for _, user := range users {
		views = append(views, user.AdminView())
	}
	render.JSON(w, r, views)
}
