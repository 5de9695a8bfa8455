package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
)

// FavoriteRepository defines favorite persistence operations.
type FavoriteRepository interface {
	GetFavorite(ctx context.Context, id uint) (*model.Favorite, error)
	GetFavoriteByPair(ctx context.Context, userID, propertyID uint) (*model.Favorite, error)
	CreateFavorite(ctx context.Context, favorite *model.Favorite) (*model.Favorite, error)
	DeleteFavorite(ctx context.Context, id uint) (bool, error)
	ListFavoritesByUser(ctx context.Context, userID uint) ([]model.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) GetFavorite(ctx context.Context, id uint) (*model.Favorite, error) {
	return first[model.Favorite](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *favoriteRepository) GetFavoriteByPair(ctx context.Context, userID, propertyID uint) (*model.Favorite, error) {
	return first[model.Favorite](r.db.WithContext(ctx).Where("user_id = ? AND property_id = ?", userID, propertyID))
}

// CreateFavorite stores the pair; the unique index rejects a second copy with ErrDuplicateFavorite.
func (r *favoriteRepository) CreateFavorite(ctx context.Context, favorite *model.Favorite) (*model.Favorite, error) {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		return nil, translateError(err, apperrors.ErrDuplicateFavorite, apperrors.ErrPropertyNotFound)
	}
	return favorite, nil
}

func (r *favoriteRepository) DeleteFavorite(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Favorite{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) ListFavoritesByUser(ctx context.Context, userID uint) ([]model.Favorite, error) {
	var favorites []model.Favorite
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}
