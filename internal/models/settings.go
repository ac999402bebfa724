package models

import "github.com/shopspring/decimal"

// Settings представляет персональные настройки пользователя.
// Запись создаётся лениво при первом обращении с значениями по умолчанию.
type Settings struct {
	UserID         int64           `json:"-"`
	CurrencyCode   string          `json:"currency_code"`
	CurrencySymbol string          `json:"currency_symbol"`
	LimitOn        bool            `json:"limit_on"`
	LimitVal       decimal.Decimal `json:"limit_val"`
}

// DefaultSettings возвращает настройки по умолчанию для нового пользователя.
func DefaultSettings(userID int64) Settings {
	return Settings{
		UserID:         userID,
		CurrencyCode:   "PLN",
		CurrencySymbol: "zł",
		LimitOn:        false,
		LimitVal:       decimal.Zero,
	}
}

// DummySettings используется для частичного обновления настроек
// из JSON-запроса. Отсутствующие поля сохраняют текущие значения.
type DummySettings struct {
	CurrencyCode   *string          `json:"currency_code" validate:"omitempty,len=3"`
	CurrencySymbol *string          `json:"currency_symbol" validate:"omitempty,max=8"`
	LimitOn        *bool            `json:"limit_on"`
	LimitVal       *decimal.Decimal `json:"limit_val"`
}
