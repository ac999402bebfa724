// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Обработчик принимает JSON с учётными данными, делегирует создание
// учётной записи сервису аутентификации, открывает сессию и выставляет
// сессионную cookie. Ошибки бизнес-правил (пустой логин, короткий пароль,
// занятое имя) возвращаются как 400 с человеко-читаемым текстом.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/config"
	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/password"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/models"
	"github.com/VagueKEK/P-inz/internal/services/auth"
	"github.com/VagueKEK/P-inz/internal/session"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, username, rawPassword, email string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log     *slog.Logger   // Логгер для записи операций и ошибок
	service Service        // Сервис бизнес-логики аутентификации
	cookie  config.Session // Параметры сессионной cookie
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, cookie config.Session) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cookie:  cookie,
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает учётную запись, настройки по умолчанию и открывает сессию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные нового пользователя"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	user, token, err := h.service.Register(r.Context(), req.Username, req.Password, req.Email)
	switch {
	case errors.Is(err, auth.ErrUsernameRequired):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Username is required"))
		return
	case errors.Is(err, password.ErrTooShort):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Password is too short (min 8)"))
		return
	case errors.Is(err, auth.ErrUsernameTaken):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Username already taken"))
		return
	case err != nil:
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	session.SetCookie(w, h.cookie, token)

	log.Info("user registered", sl.User(user.ID), slog.String("username", user.Username))
	render.JSON(w, r, map[string]any{
		"ok":   true,
		"user": user.Summary(),
	})
}
