// Package session реализует серверные cookie-сессии поверх Redis.
//
// Для каждой сессии хранится ключ session:<token> со значением ID
// пользователя и TTL. Дополнительно ведётся множество usersessions:<id>
// со всеми токенами пользователя — оно позволяет принудительно завершить
// все сессии при деактивации или удалении учётной записи.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/VagueKEK/P-inz/internal/config"
)

// ErrNoSession возвращается, когда токен не соответствует живой сессии.
var ErrNoSession = errors.New("session not found")

// Store хранит сессии в Redis.
type Store struct {
	Db  *redis.Client
	ttl time.Duration
}

// New подключается к Redis и возвращает хранилище сессий с заданным TTL.
func New(ctx context.Context, cfg config.RedisConnection, ttl time.Duration) (*Store, error) {
	const op = "session.New"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db, ttl: ttl}, nil
}

func sessionKey(token string) string {
	return "session:" + token
}

func userKey(userID int64) string {
	return fmt.Sprintf("usersessions:%d", userID)
}

// Create открывает новую сессию для пользователя и возвращает её токен.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	const op = "session.Create"
	token := uuid.NewString()

	if err := s.Db.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.SAdd(ctx, userKey(userID), token).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	// Индекс живёт не дольше самой длинной сессии пользователя.
	if err := s.Db.Expire(ctx, userKey(userID), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Resolve возвращает ID пользователя, которому принадлежит сессия.
func (s *Store) Resolve(ctx context.Context, token string) (int64, error) {
	const op = "session.Resolve"
	val, err := s.Db.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return userID, nil
}

// Destroy завершает одну сессию по токену.
func (s *Store) Destroy(ctx context.Context, token string) error {
	const op = "session.Destroy"
	val, err := s.Db.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if userID, convErr := strconv.ParseInt(val, 10, 64); convErr == nil {
		_ = s.Db.SRem(ctx, userKey(userID), token).Err()
	}
	if err := s.Db.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DestroyAllForUser принудительно завершает все сессии пользователя.
func (s *Store) DestroyAllForUser(ctx context.Context, userID int64) error {
	const op = "session.DestroyAllForUser"
	tokens, err := s.Db.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, token := range tokens {
		if err := s.Db.Del(ctx, sessionKey(token)).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := s.Db.Del(ctx, userKey(userID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
