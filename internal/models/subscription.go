package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout — формат дат в JSON-запросах и ответах API.
const DateLayout = "2006-01-02"

// Subscription представляет подписку пользователя.
// Каждая подписка принадлежит ровно одному пользователю,
// NextPayment равен nil, если дата следующего платежа не задана.
type Subscription struct {
	ID          int64
	UserID      int64
	Name        string
	Price       decimal.Decimal
	NextPayment *time.Time
	Active      bool
}

// SubscriptionView — представление подписки в JSON-ответах API.
// Цена сериализуется строкой, дата платежа — строкой "2006-01-02" или null.
type SubscriptionView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	NextPayment *string         `json:"next_payment"`
	Active      bool            `json:"active"`
}

// View возвращает представление подписки для JSON-ответа.
func (s *Subscription) View() SubscriptionView {
	var nextPayment *string
	if s.NextPayment != nil {
		formatted := s.NextPayment.Format(DateLayout)
		nextPayment = &formatted
	}
	return SubscriptionView{
		ID:          s.ID,
		Name:        s.Name,
		Price:       s.Price,
		NextPayment: nextPayment,
		Active:      s.Active,
	}
}

// DummySubscription используется для приёма данных подписки из JSON-запроса
// при создании и полном обновлении. Дата приходит строкой, чтобы её можно
// было валидировать и парсить вручную.
type DummySubscription struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	NextPayment *string         `json:"next_payment" validate:"omitempty,datetime=2006-01-02"`
	Active      *bool           `json:"active"`
}

// DummySubscriptionPatch используется для частичного обновления подписки.
// Отсутствующие поля сохраняют текущие значения.
type DummySubscriptionPatch struct {
	Name        *string          `json:"name" validate:"omitempty,max=120"`
	Price       *decimal.Decimal `json:"price"`
	NextPayment *string          `json:"next_payment" validate:"omitempty,datetime=2006-01-02"`
	Active      *bool            `json:"active"`
}
