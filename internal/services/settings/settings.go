// Package settings содержит бизнес-логику персональных настроек
// пользователя: ленивое создание записи и частичное обновление.
package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/VagueKEK/P-inz/internal/models"
)

// ErrNegativeLimit — отрицательное значение лимита расходов.
var ErrNegativeLimit = errors.New("limit_val must not be negative")

// Repository определяет методы для работы с настройками в хранилище.
type Repository interface {
	// GetOrCreateSettings возвращает настройки, создавая запись при первом обращении.
	GetOrCreateSettings(ctx context.Context, userID int64) (*models.Settings, error)
	// UpdateSettings сохраняет настройки целиком.
	UpdateSettings(ctx context.Context, settings models.Settings) error
}

// Service реализует бизнес-логику настроек пользователя.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Get возвращает настройки пользователя, создавая запись по умолчанию
// при первом обращении.
func (s *Service) Get(ctx context.Context, userID int64) (*models.Settings, error) {
	return s.repo.GetOrCreateSettings(ctx, userID)
}

// Update частично обновляет настройки: отсутствующие поля сохраняют
// текущие значения.
func (s *Service) Update(ctx context.Context, userID int64, req models.DummySettings) (*models.Settings, error) {
	current, err := s.repo.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.CurrencyCode != nil {
		current.CurrencyCode = *req.CurrencyCode
	}
	if req.CurrencySymbol != nil {
		current.CurrencySymbol = *req.CurrencySymbol
	}
	if req.LimitOn != nil {
		current.LimitOn = *req.LimitOn
	}
	if req.LimitVal != nil {
		if req.LimitVal.IsNegative() {
			return nil, ErrNegativeLimit
		}
		current.LimitVal = *req.LimitVal
	}

	if err := s.repo.UpdateSettings(ctx, *current); err != nil {
		return nil, err
	}

	s.log.Info("updated user settings", slog.Int64("user_id", userID))
	return current, nil
}
