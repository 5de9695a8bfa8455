package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
)

// PropertyRepository defines property persistence operations.
type PropertyRepository interface {
	GetProperty(ctx context.Context, id uint) (*model.Property, error)
	CreateProperty(ctx context.Context, property *model.Property) (*model.Property, error)
	UpdateProperty(ctx context.Context, id uint, patch model.PropertyPatch) (*model.Property, error)
	DeleteProperty(ctx context.Context, id uint) (bool, error)
	ListProperties(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)
	ListPropertiesByUser(ctx context.Context, userID uint) ([]model.Property, error)
	FeaturedProperties(ctx context.Context, limit int) ([]model.Property, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) GetProperty(ctx context.Context, id uint) (*model.Property, error) {
	return first[model.Property](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *propertyRepository) CreateProperty(ctx context.Context, property *model.Property) (*model.Property, error) {
	normalizeLists(property)
	if property.Status == "" {
		property.Status = model.PropertyStatusForSale
	}
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		return nil, translateError(err, nil, apperrors.ErrOwnerNotFound)
	}
	return property, nil
}

// UpdateProperty merges patch onto the stored row; Save refreshes updated_at.
func (r *propertyRepository) UpdateProperty(ctx context.Context, id uint, patch model.PropertyPatch) (*model.Property, error) {
	property, err := r.GetProperty(ctx, id)
	if err != nil || property == nil {
		return nil, err
	}
	patch.Apply(property)
	normalizeLists(property)
	if err := r.db.WithContext(ctx).Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty removes the property; the database cascades to its inquiries and favorites.
func (r *propertyRepository) DeleteProperty(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Property{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *propertyRepository) ListProperties(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	var properties []model.Property
	err := r.db.WithContext(ctx).
		Scopes(PropertyFilterScope(filter)).
		Order("id").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) ListPropertiesByUser(ctx context.Context, userID uint) ([]model.Property, error) {
	var properties []model.Property
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) FeaturedProperties(ctx context.Context, limit int) ([]model.Property, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	var properties []model.Property
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// PropertyFilterScope translates a PropertyFilter into ANDed WHERE clauses.
func PropertyFilterScope(f model.PropertyFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.Location != "" {
			term := "%" + escapeLike(strings.ToLower(f.Location)) + "%"
			q = q.Where("(LOWER(city) LIKE ? OR LOWER(state) LIKE ?)", term, term)
		}
		if f.PropertyType != "" {
			q = q.Where("property_type = ?", f.PropertyType)
		}
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.PriceMin != nil {
			q = q.Where("price >= ?", *f.PriceMin)
		}
		if f.PriceMax != nil {
			q = q.Where("price <= ?", *f.PriceMax)
		}
		if f.Bedrooms != nil {
			q = q.Where("bedrooms >= ?", *f.Bedrooms)
		}
		if f.Bathrooms != nil {
			q = q.Where("bathrooms >= ?", *f.Bathrooms)
		}
		if f.AreaMin != nil {
			q = q.Where("area >= ?", *f.AreaMin)
		}
		if f.AreaMax != nil {
			q = q.Where("area <= ?", *f.AreaMax)
		}
		return q
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// normalizeLists stores empty JSON arrays instead of null.
func normalizeLists(p *model.Property) {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
}
