package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"homefinder/internal/auth"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, *model.User) *model.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockSessionStore is a mock implementation of SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, session auth.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*auth.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository, *MockSessionStore)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Username: "test", Email: "test@example.com", Password: "password123", Role: model.RoleSeller},
			setupMock: func(m *MockUserRepository, s *MockSessionStore) {
				m.On("GetUserByUsername", mock.Anything, "test").Return(nil, nil)
				m.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				m.On("CreateUser", mock.Anything, mock.AnythingOfType("*model.User")).
					Return(func(_ context.Context, u *model.User) *model.User {
						u.ID = 1
						return u
					}, nil)
				s.On("Create", mock.Anything, mock.MatchedBy(func(sess auth.Session) bool {
					return sess.UserID == 1 && sess.Role == model.RoleSeller
				})).Return(nil)
			},
		},
		{
			name:  "username taken",
			input: RegisterInput{Username: "existing", Email: "new@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository, _ *MockSessionStore) {
				m.On("GetUserByUsername", mock.Anything, "existing").Return(&model.User{Username: "existing"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:  "email taken",
			input: RegisterInput{Username: "fresh", Email: "existing@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository, _ *MockSessionStore) {
				m.On("GetUserByUsername", mock.Anything, "fresh").Return(nil, nil)
				m.On("GetUserByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockSessions := new(MockSessionStore)
			tt.setupMock(mockRepo, mockSessions)

			service := NewAuthService(mockRepo, auth.NewTokenService("test-secret", time.Hour), mockSessions)
			result, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input.Username, result.User.Username)
				assert.NotEqual(t, tt.input.Password, result.User.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte(tt.input.Password)))
				assert.NotEmpty(t, result.Token)
			}

			mockRepo.AssertExpectations(t)
			mockSessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_RejectsPrivilegedRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewAuthService(mockRepo, auth.NewTokenService("test-secret", time.Hour), new(MockSessionStore))

	_, err := service.Register(context.Background(), RegisterInput{Username: "eve", Email: "eve@example.com", Password: "password123", Role: model.RoleAdmin})

	var httpErr *apperrors.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "VALIDATION_ERROR", httpErr.Code)
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestAuthService_LoginFailsWhenSessionIsNotStored(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	stored := &model.User{ID: 4, Username: "test", PasswordHash: string(hashedPassword), Role: model.RoleBuyer}
	redisDown := errors.New("dial tcp 127.0.0.1:6379: connection refused")

	mockRepo := new(MockUserRepository)
	mockSessions := new(MockSessionStore)
	mockRepo.On("GetUserByUsername", mock.Anything, "test").Return(stored, nil)
	mockSessions.On("Create", mock.Anything, mock.AnythingOfType("auth.Session")).Return(redisDown)

	service := NewAuthService(mockRepo, auth.NewTokenService("test-secret", time.Hour), mockSessions)
	result, err := service.Login(context.Background(), "test", "password123")

	assert.ErrorIs(t, err, redisDown)
	assert.Nil(t, result)
	assert.Equal(t, http.StatusInternalServerError, apperrors.MapErrorToHTTP(err).StatusCode)
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	stored := &model.User{ID: 4, Username: "test", PasswordHash: string(hashedPassword), Role: model.RoleBuyer}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository, *MockSessionStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "test",
			password: "password123",
			setupMock: func(m *MockUserRepository, s *MockSessionStore) {
				m.On("GetUserByUsername", mock.Anything, "test").Return(stored, nil)
				s.On("Create", mock.Anything, mock.AnythingOfType("auth.Session")).Return(nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			username: "nobody",
			password: "password123",
			setupMock: func(m *MockUserRepository, _ *MockSessionStore) {
				m.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			username: "test",
			password: "wrong",
			setupMock: func(m *MockUserRepository, _ *MockSessionStore) {
				m.On("GetUserByUsername", mock.Anything, "test").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockSessions := new(MockSessionStore)
			tt.setupMock(mockRepo, mockSessions)

			service := NewAuthService(mockRepo, auth.NewTokenService("test-secret", time.Hour), mockSessions)
			result, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, result.Token)
				assert.NotEmpty(t, result.SessionID)
				assert.Equal(t, uint(4), result.User.ID)
			}

			mockRepo.AssertExpectations(t)
			mockSessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	mockSessions := new(MockSessionStore)
	mockSessions.On("Delete", mock.Anything, "session-1").Return(nil)

	service := NewAuthService(new(MockUserRepository), auth.NewTokenService("test-secret", time.Hour), mockSessions)

	assert.NoError(t, service.Logout(context.Background(), "session-1"))
	assert.ErrorIs(t, service.Logout(context.Background(), ""), apperrors.ErrUnauthorized)
	mockSessions.AssertExpectations(t)
}
