package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VagueKEK/P-inz/internal/lib/password"
	"github.com/VagueKEK/P-inz/internal/models"
	authservice "github.com/VagueKEK/P-inz/internal/services/auth"
	"github.com/VagueKEK/P-inz/internal/session"
	"github.com/VagueKEK/P-inz/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) FindUserByUsernameFold(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ExistsUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) TouchLastLogin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Мок для SettingsRepository
type SettingsRepoMock struct {
	mock.Mock
}

func (m *SettingsRepoMock) GetOrCreateSettings(ctx context.Context, userID int64) (*models.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

// Мок для SessionStore
type SessionStoreMock struct {
	mock.Mock
}

func (m *SessionStoreMock) Create(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *SessionStoreMock) Resolve(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SessionStoreMock) Destroy(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *SessionStoreMock) DestroyAllForUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAuthService_Register(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		username   string
		password   string
		email      string
		setupMocks func(u *UserRepoMock, s *SettingsRepoMock, ss *SessionStoreMock)
		wantErr    error
		wantToken  string
	}{
		{
			name:     "successful registration",
			username: "newuser",
			password: "password123",
			email:    "new@example.com",
			setupMocks: func(u *UserRepoMock, s *SettingsRepoMock, ss *SessionStoreMock) {
				u.On("ExistsUsername", mock.Anything, "newuser").Return(false, nil).Once()
				u.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Username == "newuser" &&
						user.Email == "new@example.com" &&
						user.PasswordHash != "" &&
						user.IsActive
				})).Return(int64(7), nil).Once()
				defaults := models.DefaultSettings(7)
				s.On("GetOrCreateSettings", mock.Anything, int64(7)).
					Return(&defaults, nil).Once()
				u.On("TouchLastLogin", mock.Anything, int64(7)).Return(nil).Once()
				u.On("GetUser", mock.Anything, int64(7)).
					Return(&models.User{ID: 7, Username: "newuser", IsActive: true, DateJoined: now}, nil).Once()
				ss.On("Create", mock.Anything, int64(7)).Return("tok-7", nil).Once()
			},
			wantToken: "tok-7",
		},
		{
			name:       "empty username",
			username:   "   ",
			password:   "password123",
			setupMocks: func(u *UserRepoMock, s *SettingsRepoMock, ss *SessionStoreMock) {},
			wantErr:    authservice.ErrUsernameRequired,
		},
		{
			name:       "password too short",
			username:   "newuser",
			password:   "short",
			setupMocks: func(u *UserRepoMock, s *SettingsRepoMock, ss *SessionStoreMock) {},
			wantErr:    password.ErrTooShort,
		},
		{
			name:     "username already taken",
			username: "taken",
			password: "password123",
			setupMocks: func(u *UserRepoMock, s *SettingsRepoMock, ss *SessionStoreMock) {
				u.On("ExistsUsername", mock.Anything, "taken").Return(true, nil).Once()
			},
			wantErr: authservice.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			settings := new(SettingsRepoMock)
			sessions := new(SessionStoreMock)
			svc := authservice.New(users, settings, sessions, newNoopLogger())

			tt.setupMocks(users, settings, sessions)

			user, token, err := svc.Register(context.Background(), tt.username, tt.password, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.wantToken, token)
			}

			users.AssertExpectations(t)
			settings.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(u *UserRepoMock, ss *SessionStoreMock)
		wantErr    error
	}{
		{
			name:     "successful login",
			username: "User1",
			password: rawPassword,
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				u.On("FindUserByUsernameFold", mock.Anything, "User1").
					Return(&models.User{ID: 1, Username: "user1", PasswordHash: hash, IsActive: true}, nil).Once()
				u.On("TouchLastLogin", mock.Anything, int64(1)).Return(nil).Once()
				ss.On("Create", mock.Anything, int64(1)).Return("tok-1", nil).Once()
			},
		},
		{
			name:     "unknown username",
			username: "ghost",
			password: rawPassword,
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				u.On("FindUserByUsernameFold", mock.Anything, "ghost").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: authservice.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "user1",
			password: "wrongpassword",
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				u.On("FindUserByUsernameFold", mock.Anything, "user1").
					Return(&models.User{ID: 1, Username: "user1", PasswordHash: hash, IsActive: true}, nil).Once()
			},
			wantErr: authservice.ErrInvalidCredentials,
		},
		{
			// Деактивация проверяется до пароля: даже верный пароль
			// возвращает ошибку деактивации, а не неверных учётных данных.
			name:     "disabled account rejected before password check",
			username: "user1",
			password: rawPassword,
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				u.On("FindUserByUsernameFold", mock.Anything, "user1").
					Return(&models.User{ID: 1, Username: "user1", PasswordHash: "not-a-hash", IsActive: false}, nil).Once()
			},
			wantErr: authservice.ErrAccountDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionStoreMock)
			svc := authservice.New(users, new(SettingsRepoMock), sessions, newNoopLogger())

			tt.setupMocks(users, sessions)

			user, token, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, user)
				assert.NotEmpty(t, token)
			}

			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Identify(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		setupMocks func(u *UserRepoMock, ss *SessionStoreMock)
		wantUser   bool
		wantErr    error
	}{
		{
			name:  "active user",
			token: "tok-1",
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				ss.On("Resolve", mock.Anything, "tok-1").Return(int64(1), nil).Once()
				u.On("GetUser", mock.Anything, int64(1)).
					Return(&models.User{ID: 1, Username: "user1", IsActive: true}, nil).Once()
			},
			wantUser: true,
		},
		{
			name:  "expired session is anonymous",
			token: "tok-stale",
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				ss.On("Resolve", mock.Anything, "tok-stale").Return(int64(0), session.ErrNoSession).Once()
			},
		},
		{
			name:  "session of deleted user is destroyed",
			token: "tok-orphan",
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				ss.On("Resolve", mock.Anything, "tok-orphan").Return(int64(9), nil).Once()
				u.On("GetUser", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound).Once()
				ss.On("Destroy", mock.Anything, "tok-orphan").Return(nil).Once()
			},
		},
		{
			name:  "disabled user loses all sessions",
			token: "tok-2",
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				ss.On("Resolve", mock.Anything, "tok-2").Return(int64(2), nil).Once()
				u.On("GetUser", mock.Anything, int64(2)).
					Return(&models.User{ID: 2, Username: "user2", IsActive: false}, nil).Once()
				ss.On("DestroyAllForUser", mock.Anything, int64(2)).Return(nil).Once()
			},
			wantErr: authservice.ErrAccountDisabled,
		},
		{
			name:  "storage failure is surfaced",
			token: "tok-3",
			setupMocks: func(u *UserRepoMock, ss *SessionStoreMock) {
				ss.On("Resolve", mock.Anything, "tok-3").Return(int64(3), nil).Once()
				u.On("GetUser", mock.Anything, int64(3)).Return(nil, errors.New("db down")).Once()
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionStoreMock)
			svc := authservice.New(users, new(SettingsRepoMock), sessions, newNoopLogger())

			tt.setupMocks(users, sessions)

			user, err := svc.Identify(context.Background(), tt.token)
			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, user)
			case tt.wantUser:
				assert.NoError(t, err)
				assert.NotNil(t, user)
			default:
				assert.NoError(t, err)
				assert.Nil(t, user)
			}

			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}
