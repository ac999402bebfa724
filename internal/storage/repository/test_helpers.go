package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase поднимает контейнер PostgreSQL и применяет схему.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err, "failed to get container host")
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get mapped port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for i := 0; i < 10; i++ {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        CREATE TABLE users (
            id BIGSERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            is_staff BOOLEAN NOT NULL DEFAULT FALSE,
            is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
            date_joined TIMESTAMPTZ NOT NULL DEFAULT now(),
            last_login TIMESTAMPTZ
        );

        CREATE TABLE user_settings (
            user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            currency_code TEXT NOT NULL DEFAULT 'PLN',
            currency_symbol TEXT NOT NULL DEFAULT 'zł',
            limit_on BOOLEAN NOT NULL DEFAULT FALSE,
            limit_val NUMERIC(10, 2) NOT NULL DEFAULT 0
        );

        CREATE TABLE subscriptions (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            name TEXT NOT NULL,
            price NUMERIC(10, 2) NOT NULL,
            next_payment DATE,
            active BOOLEAN NOT NULL DEFAULT TRUE
        );

        CREATE INDEX idx_subscriptions_user_id ON subscriptions(user_id);
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		_ = pgContainer.Terminate(ctx)
	}

	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, username string, isActive, isStaff bool) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (username, email, password_hash, is_active, is_staff)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		username, username+"@example.com", "hashedpassword", isActive, isStaff).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSubscription создает тестовую подписку и возвращает её ID.
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID int64, name, price string, active bool) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions (user_id, name, price, active)
        VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, name, decimal.RequireFromString(price), active).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов.
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов.
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// CountSubscriptions возвращает количество подписок пользователя.
func (v *TestVerification) CountSubscriptions(t *testing.T, userID int64) int {
	t.Helper()
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM subscriptions WHERE user_id = $1", userID).Scan(&count)
	require.NoError(t, err)
	return count
}

// GetSubscriptionActive возвращает флаг active подписки.
func (v *TestVerification) GetSubscriptionActive(t *testing.T, id int64) bool {
	t.Helper()
	var active bool
	err := v.storage.DB.QueryRow("SELECT active FROM subscriptions WHERE id = $1", id).Scan(&active)
	require.NoError(t, err)
	return active
}

// HasLastLogin проверяет, выставлена ли отметка последнего входа.
func (v *TestVerification) HasLastLogin(t *testing.T, id int64) bool {
	t.Helper()
	var has bool
	err := v.storage.DB.QueryRow("SELECT last_login IS NOT NULL FROM users WHERE id = $1", id).Scan(&has)
	require.NoError(t, err)
	return has
}
