// Package login реализует HTTP-обработчик входа пользователей.
//
// Поиск учётной записи идёт без учёта регистра. Деактивированная учётная
// запись получает 403 до проверки пароля; неверные учётные данные — 401.
// При успехе открывается сессия и выставляется сессионная cookie.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VagueKEK/P-inz/internal/config"
	"github.com/VagueKEK/P-inz/internal/http/middlewarectx"
	"github.com/VagueKEK/P-inz/internal/http/response"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/models"
	"github.com/VagueKEK/P-inz/internal/services/auth"
	"github.com/VagueKEK/P-inz/internal/session"
)

// Request — структура входных данных для авторизации.
type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, username, rawPassword string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы входа.
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по имени и паролю и открывает сессию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 403 {object} response.ErrorResponse "Учётная запись деактивирована"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrAccountDisabled):
		log.Info("login attempt of disabled account", slog.String("username", req.Username))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error(middlewarectx.DisabledAccountMessage))
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Info("invalid credentials", slog.String("username", req.Username))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Invalid username or password."))
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	session.SetCookie(w, h.cookie, token)

	log.Info("login success", sl.User(user.ID), slog.String("username", user.Username))
	render.JSON(w, r, map[string]any{
		"ok":   true,
		"user": user.Summary(),
	})
}
