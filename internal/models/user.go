// Package models содержит доменные структуры приложения: пользователи,
// их настройки и подписки, а также вспомогательные типы для приёма
// данных из JSON-запросов до их валидации.
package models

import "time"

// User представляет учётную запись пользователя.
// LastLogin равен nil, если пользователь ещё ни разу не входил.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	DateJoined   time.Time
	LastLogin    *time.Time
}

// UserSummary — краткое представление пользователя, возвращаемое
// эндпоинтами аутентификации.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Summary возвращает краткое представление пользователя.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		IsAdmin:  u.IsStaff,
	}
}

// AdminUserView — представление пользователя для админ-консоли.
type AdminUserView struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	IsActive    bool       `json:"is_active"`
	DateJoined  time.Time  `json:"date_joined"`
	LastLogin   *time.Time `json:"last_login"`
}

// AdminView возвращает представление пользователя для админ-консоли.
func (u *User) AdminView() AdminUserView {
	return AdminUserView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		DateJoined:  u.DateJoined,
		LastLogin:   u.LastLogin,
	}
}
