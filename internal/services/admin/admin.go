// Package admin содержит бизнес-логику админ-консоли: управление
// учётными записями и массовое удаление подписок.
//
// Правило самозащиты: администратор не может деактивировать или удалить
// собственную учётную запись, какими бы правами он ни обладал.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/VagueKEK/P-inz/internal/lib/password"
	"github.com/VagueKEK/P-inz/internal/lib/sl"
	"github.com/VagueKEK/P-inz/internal/models"
)

// Ошибки уровня бизнес-логики админ-консоли.
var (
	// ErrSelfDeactivate — попытка администратора деактивировать себя.
	ErrSelfDeactivate = errors.New("cannot deactivate own account")
	// ErrSelfDelete — попытка администратора удалить себя.
	ErrSelfDelete = errors.New("cannot delete own account")
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// ListUsers возвращает пользователей, опционально отфильтрованных подстрокой.
	ListUsers(ctx context.Context, q string) ([]*models.User, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// SetUserActive выставляет флаг активности.
	SetUserActive(ctx context.Context, id int64, isActive bool) error
	// UpdateUserPassword заменяет хэш пароля.
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	// DeleteUser удаляет пользователя вместе с его данными.
	DeleteUser(ctx context.Context, id int64) error
}

// SubscriptionRepository определяет метод массового удаления подписок.
type SubscriptionRepository interface {
	DeleteAllSubscriptionsForUser(ctx context.Context, userID int64) (int64, error)
}

// SessionStore определяет метод принудительного завершения сессий.
type SessionStore interface {
	DestroyAllForUser(ctx context.Context, userID int64) error
}

// Service реализует операции админ-консоли.
type Service struct {
	users    UserRepository
	subs     SubscriptionRepository
	sessions SessionStore
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, subs SubscriptionRepository, sessions SessionStore, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		subs:     subs,
		sessions: sessions,
		log:      log,
	}
}

// ListUsers возвращает пользователей по возрастанию ID. Непустой q
// фильтрует список подстрокой по имени или email без учёта регистра.
func (s *Service) ListUsers(ctx context.Context, q string) ([]*models.User, error) {
	return s.users.ListUsers(ctx, q)
}

// SetActive выставляет флаг активности целевого пользователя.
// Деактивация собственной учётной записи запрещена; при деактивации
// чужой все её сессии принудительно завершаются.
func (s *Service) SetActive(ctx context.Context, actorID, targetID int64, isActive bool) (*models.User, error) {
	target, err := s.users.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.ID == actorID && !isActive {
		return nil, ErrSelfDeactivate
	}

	if err := s.users.SetUserActive(ctx, targetID, isActive); err != nil {
		return nil, err
	}
	target.IsActive = isActive

	if !isActive {
		if err := s.sessions.DestroyAllForUser(ctx, targetID); err != nil {
			s.log.Warn("failed to destroy sessions of deactivated user", sl.User(targetID), sl.Err(err))
		}
	}

	s.log.Info("changed user active flag", sl.User(targetID), slog.Bool("is_active", isActive))
	return target, nil
}

// DeleteUser удаляет целевого пользователя. Подписки и настройки
// удаляются каскадно, сессии завершаются. Удаление себя запрещено.
func (s *Service) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	target, err := s.users.GetUser(ctx, targetID)
	if err != nil {
		return err
	}
	if target.ID == actorID {
		return ErrSelfDelete
	}

	if err := s.users.DeleteUser(ctx, targetID); err != nil {
		return err
	}
	if err := s.sessions.DestroyAllForUser(ctx, targetID); err != nil {
		s.log.Warn("failed to destroy sessions of deleted user", sl.User(targetID), sl.Err(err))
	}

	s.log.Info("deleted user", sl.User(targetID))
	return nil
}

// ResetPassword задаёт целевому пользователю новый пароль.
func (s *Service) ResetPassword(ctx context.Context, targetID int64, newPassword string) error {
	const op = "admin.ResetPassword"

	if err := password.Validate(newPassword); err != nil {
		return err
	}
	if _, err := s.users.GetUser(ctx, targetID); err != nil {
		return err
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateUserPassword(ctx, targetID, hashed); err != nil {
		return err
	}

	s.log.Info("reset user password", sl.User(targetID))
	return nil
}

// ClearSubscriptions удаляет все подписки целевого пользователя
// и возвращает количество удалённых записей.
func (s *Service) ClearSubscriptions(ctx context.Context, targetID int64) (int64, error) {
	if _, err := s.users.GetUser(ctx, targetID); err != nil {
		return 0, err
	}

	deleted, err := s.subs.DeleteAllSubscriptionsForUser(ctx, targetID)
	if err != nil {
		return 0, err
	}

	s.log.Info("cleared user subscriptions", sl.User(targetID), slog.Int64("deleted", deleted))
	return deleted, nil
}
