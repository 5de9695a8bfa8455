package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) (bool, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return first[model.User](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return first[model.User](r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return first[model.User](r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *userRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Role == "" {
		user.Role = model.RoleBuyer
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translateError(err, apperrors.ErrUserAlreadyExists, nil)
	}
	return user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	patch.Apply(user)
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, translateError(err, apperrors.ErrUserAlreadyExists, nil)
	}
	return user, nil
}

// DeleteUser removes the user; the database cascades to their properties, inquiries and favorites.
func (r *userRepository) DeleteUser(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
