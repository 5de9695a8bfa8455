package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"homefinder/internal/auth"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
	"homefinder/internal/repository"
)

const bcryptCost = 10

// RegisterInput holds the fields accepted at sign-up.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Phone     *string
	Role      model.Role
}

// LoginResult is the outcome of a successful register or login.
type LoginResult struct {
	User      *model.User
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*LoginResult, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	users    repository.UserRepository
	tokens   *auth.TokenService
	sessions auth.SessionStore
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, sessions auth.SessionStore) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
	}
}

// Register creates a buyer or seller account and logs it in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	if in.Role == "" {
		in.Role = model.RoleBuyer
	}
	if !in.Role.In(model.RoleBuyer, model.RoleSeller) {
		return nil, apperrors.Validation("role must be buyer or seller")
	}

	existing, err := s.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	existing, err = s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         in.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.startSession(ctx, user)
}

// Login verifies credentials and opens a session.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// Logout revokes the session.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.ErrUnauthorized
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) startSession(ctx context.Context, user *model.User) (*LoginResult, error) {
	session, token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &LoginResult{
		User:      user,
		Token:     token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
