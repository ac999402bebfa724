// Package subscription содержит бизнес-логику управления подписками
// пользователя. Все операции выполняются строго в рамках владельца:
// подписки других пользователей недоступны даже администратору.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/VagueKEK/P-inz/internal/models"
)

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error)
	// ReadSubscription возвращает подписку по ID в рамках владельца.
	ReadSubscription(ctx context.Context, id, userID int64) (*models.Subscription, error)
	// ListSubscriptions возвращает все подписки владельца по возрастанию ID.
	ListSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error)
	// UpdateSubscription обновляет подписку в рамках владельца.
	UpdateSubscription(ctx context.Context, sub models.Subscription) error
	// DeleteSubscription удаляет подписку в рамках владельца.
	DeleteSubscription(ctx context.Context, id, userID int64) error
	// DeactivateSubscription идемпотентно выставляет active = false.
	DeactivateSubscription(ctx context.Context, id, userID int64) error
}

// Service реализует бизнес-логику работы с подписками.
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

func parseNextPayment(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(models.DateLayout, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid next_payment date: %w", err)
	}
	return &parsed, nil
}

// Create создает новую подписку для владельца и возвращает её.
// Владелец назначается из вызывающего, а не из входных данных.
func (s *Service) Create(ctx context.Context, ownerID int64, req models.DummySubscription) (*models.Subscription, error) {
	nextPayment, err := parseNextPayment(req.NextPayment)
	if err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	sub := models.Subscription{
		UserID:      ownerID,
		Name:        req.Name,
		Price:       req.Price,
		NextPayment: nextPayment,
		Active:      active,
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	s.log.Info("created new subscription", slog.Int64("id", id), slog.Int64("user_id", ownerID))
	return &sub, nil
}

// List возвращает подписки владельца по возрастанию ID.
func (s *Service) List(ctx context.Context, ownerID int64) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, ownerID)
}

// Read возвращает подписку владельца по ID.
func (s *Service) Read(ctx context.Context, ownerID, id int64) (*models.Subscription, error) {
	return s.repo.ReadSubscription(ctx, id, ownerID)
}

// Replace полностью заменяет данные подписки владельца.
func (s *Service) Replace(ctx context.Context, ownerID, id int64, req models.DummySubscription) (*models.Subscription, error) {
	current, err := s.repo.ReadSubscription(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	nextPayment, err := parseNextPayment(req.NextPayment)
	if err != nil {
		return nil, err
	}
	active := current.Active
	if req.Active != nil {
		active = *req.Active
	}
	sub := models.Subscription{
		ID:          id,
		UserID:      ownerID,
		Name:        req.Name,
		Price:       req.Price,
		NextPayment: nextPayment,
		Active:      active,
	}
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Patch частично обновляет подписку владельца: отсутствующие поля
// сохраняют текущие значения.
func (s *Service) Patch(ctx context.Context, ownerID, id int64, req models.DummySubscriptionPatch) (*models.Subscription, error) {
	current, err := s.repo.ReadSubscription(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Price != nil {
		current.Price = *req.Price
	}
	if req.NextPayment != nil {
		nextPayment, err := parseNextPayment(req.NextPayment)
		if err != nil {
			return nil, err
		}
		current.NextPayment = nextPayment
	}
	if req.Active != nil {
		current.Active = *req.Active
	}

	if err := s.repo.UpdateSubscription(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete удаляет подписку владельца.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	return s.repo.DeleteSubscription(ctx, id, ownerID)
}

// Deactivate идемпотентно выставляет active = false для подписки владельца.
func (s *Service) Deactivate(ctx context.Context, ownerID, id int64) error {
	return s.repo.DeactivateSubscription(ctx, id, ownerID)
}
