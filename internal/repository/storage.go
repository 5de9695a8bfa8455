package repository

import (
	"errors"

	"gorm.io/gorm"
)

// DefaultFeaturedLimit is used when FeaturedProperties is asked for a non-positive limit.
const DefaultFeaturedLimit = 6

// Storage is the full persistence surface of the application. Lookups return (nil, nil)
// when the record does not exist; errors are reserved for storage failures and
// constraint violations.
type Storage interface {
	UserRepository
	PropertyRepository
	InquiryRepository
	FavoriteRepository
}

// GormStorage is the database-backed Storage.
type GormStorage struct {
	UserRepository
	PropertyRepository
	InquiryRepository
	FavoriteRepository
}

// Ensure GormStorage implements Storage
var _ Storage = (*GormStorage)(nil)

// NewGormStorage builds a Storage over a migrated GORM connection.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{
		UserRepository:     NewUserRepository(db),
		PropertyRepository: NewPropertyRepository(db),
		InquiryRepository:  NewInquiryRepository(db),
		FavoriteRepository: NewFavoriteRepository(db),
	}
}

// first runs q and returns the first row, or nil when there is none.
func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// translateError maps gorm's translated constraint errors onto domain errors.
func translateError(err, onDuplicate, onForeignKey error) error {
	switch {
	case err == nil:
		return nil
	case onDuplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return onDuplicate
	case onForeignKey != nil && errors.Is(err, gorm.ErrForeignKeyViolated):
		return onForeignKey
	default:
		return err
	}
}
