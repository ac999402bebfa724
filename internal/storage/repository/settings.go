package repository

import (
	"context"
	"fmt"

	"github.com/VagueKEK/P-inz/internal/models"
)

// GetOrCreateSettings возвращает настройки пользователя, создавая запись
// со значениями по умолчанию при первом обращении.
func (s *Storage) GetOrCreateSettings(ctx context.Context, userID int64) (*models.Settings, error) {
	const op = "storage.GetOrCreateSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	insert := `INSERT INTO user_settings (user_id)
			   VALUES ($1)
			   ON CONFLICT (user_id) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT user_id, currency_code, currency_symbol, limit_on, limit_val
			  FROM user_settings
			  WHERE user_id = $1`
	result := &models.Settings{}
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&result.UserID,
		&result.CurrencyCode, &result.CurrencySymbol, &result.LimitOn, &result.LimitVal); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSettings сохраняет настройки пользователя целиком.
func (s *Storage) UpdateSettings(ctx context.Context, settings models.Settings) error {
	const op = "storage.UpdateSettings"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_settings
			  SET currency_code = $1, currency_symbol = $2, limit_on = $3, limit_val = $4
			  WHERE user_id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		settings.CurrencyCode, settings.CurrencySymbol, settings.LimitOn,
		settings.LimitVal, settings.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
