// Package auth содержит бизнес-логику регистрации, входа, выхода
// и разрешения личности по сессионному токену.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/VagueKEK/P-inz/internal/lib/password"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/models"
	"github.com/VagueKEK/P-inz/internal/session"
	"github.com/VagueKEK/P-inz/internal/storage/repository"
)

// Ошибки уровня бизнес-логики аутентификации.
var (
	// ErrUsernameRequired — пустое имя пользователя при регистрации.
	ErrUsernameRequired = errors.New("username is required")
	// ErrUsernameTaken — имя пользователя уже занято (точное совпадение).
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials — неверная пара логин/пароль или пользователь не найден.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled — учётная запись существует, но деактивирована.
	ErrAccountDisabled = errors.New("account is disabled")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// FindUserByUsernameFold возвращает пользователя по имени без учёта регистра.
	FindUserByUsernameFold(ctx context.Context, username string) (*models.User, error)
	// ExistsUsername проверяет занятость имени (точное совпадение).
	ExistsUsername(ctx context.Context, username string) (bool, error)
	// TouchLastLogin выставляет отметку последнего входа.
	TouchLastLogin(ctx context.Context, id int64) error
}

// SettingsRepository описывает контракт для ленивого создания настроек.
type SettingsRepository interface {
	GetOrCreateSettings(ctx context.Context, userID int64) (*models.Settings, error)
}

// SessionStore описывает контракт хранилища сессий.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	Destroy(ctx context.Context, token string) error
	DestroyAllForUser(ctx context.Context, userID int64) error
}

// Service отвечает за регистрацию, вход, выход и разрешение личности.
type Service struct {
	users    UserRepository
	settings SettingsRepository
	sessions SessionStore
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, settings SettingsRepository, sessions SessionStore, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		settings: settings,
		sessions: sessions,
		log:      log,
	}
}

// Register создает нового пользователя, настройки по умолчанию и сессию.
// Возвращает пользователя и токен открытой сессии.
func (s *Service) Register(ctx context.Context, username, rawPassword, email string) (*models.User, string, error) {
	const op = "auth.Register"

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, "", ErrUsernameRequired
	}
	if err := password.Validate(rawPassword); err != nil {
		return nil, "", err
	}
	taken, err := s.users.ExistsUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, "", ErrUsernameTaken
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		IsActive:     true,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.settings.GetOrCreateSettings(ctx, id); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.TouchLastLogin(ctx, id); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.sessions.Create(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", sl.User(id), slog.String("username", username))
	return created, token, nil
}

// Login проверяет учётные данные и открывает сессию.
//
// Поиск пользователя идёт без учёта регистра. Деактивированная учётная
// запись отклоняется до проверки пароля и отличима от неверных учётных
// данных.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (*models.User, string, error) {
	const op = "auth.Login"

	username = strings.TrimSpace(username)

	user, err := s.users.FindUserByUsernameFold(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("login success", sl.User(user.ID), slog.String("username", user.Username))
	return user, token, nil
}

// Logout безусловно завершает сессию по токену.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Identify разрешает сессионный токен в пользователя.
//
// Возвращает (nil, nil) для отсутствующей или протухшей сессии. Если
// сессия ссылается на деактивированного пользователя, все его сессии
// принудительно завершаются и возвращается ErrAccountDisabled. Сессии
// удалённых пользователей зачищаются и трактуются как анонимные.
func (s *Service) Identify(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.Identify"

	userID, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		if destroyErr := s.sessions.Destroy(ctx, token); destroyErr != nil {
			s.log.Warn("failed to destroy orphaned session", sl.Err(destroyErr))
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsActive {
		if destroyErr := s.sessions.DestroyAllForUser(ctx, userID); destroyErr != nil {
			s.log.Warn("failed to destroy sessions of disabled user", sl.User(userID), sl.Err(destroyErr))
		}
		return nil, ErrAccountDisabled
	}
	return user, nil
}
