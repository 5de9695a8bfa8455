package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"homefinder/internal/cache"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
	"homefinder/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UpdateProfileInput carries the profile fields a user may change; nil fields are kept.
type UpdateProfileInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
}

// UserService exposes user account operations.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uint, in UpdateProfileInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	users      repository.UserRepository
	properties repository.PropertyRepository
	cache      *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(users repository.UserRepository, properties repository.PropertyRepository, cache *cache.Client) UserService {
	return &userService{users: users, properties: properties, cache: cache}
}

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if cached, ok := cache.GetJSON[model.User](ctx, s.cache, userCacheKey(id)); ok {
		return cached, nil
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	_ = cache.SetJSON(ctx, s.cache, userCacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, in UpdateProfileInput) (*model.User, error) {
	patch := model.UserPatch{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Avatar:    in.Avatar,
	}
	if in.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash := string(hashed)
		patch.PasswordHash = &hash
	}

	user, err := s.users.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return user, nil
}

// DeleteUser removes the account and everything it owns.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	owned, err := s.properties.ListPropertiesByUser(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrUserNotFound
	}

	keys := []string{userCacheKey(id)}
	for _, p := range owned {
		keys = append(keys, propertyCacheKey(p.ID))
	}
	_ = s.cache.Delete(ctx, keys...)
	return nil
}
