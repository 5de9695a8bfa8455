package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"homefinder/internal/cache"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
	"homefinder/internal/repository"
	"homefinder/internal/upload"
)

const propertyCacheTTL = 5 * time.Minute

// PropertyService holds the listing rules: who may create, change and remove properties.
type PropertyService interface {
	List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)
	Featured(ctx context.Context, limit int) ([]model.Property, error)
	Get(ctx context.Context, id uint) (*model.Property, error)
	ListByOwner(ctx context.Context, userID uint) ([]model.Property, error)
	Create(ctx context.Context, actor *model.User, property *model.Property, images []*multipart.FileHeader) (*model.Property, error)
	Update(ctx context.Context, actor *model.User, id uint, patch model.PropertyPatch, images []*multipart.FileHeader) (*model.Property, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
}

type propertyService struct {
	properties    repository.PropertyRepository
	cache         *cache.Client
	uploads       upload.Store
	featuredLimit int
}

// NewPropertyService wires the property rules to storage, the read cache and image uploads.
func NewPropertyService(properties repository.PropertyRepository, cache *cache.Client, uploads upload.Store, featuredLimit int) PropertyService {
	return &propertyService{
		properties:    properties,
		cache:         cache,
		uploads:       uploads,
		featuredLimit: featuredLimit,
	}
}

func propertyCacheKey(id uint) string {
	return fmt.Sprintf("property:%d", id)
}

// CanListProperties reports whether role may publish listings.
func CanListProperties(role model.Role) bool {
	return role.In(model.RoleSeller, model.RoleAgent, model.RoleAdmin)
}

// CanManageProperty reports whether user may change or remove p.
func CanManageProperty(user *model.User, p *model.Property) bool {
	return user != nil && (user.Role == model.RoleAdmin || user.ID == p.UserID)
}

func (s *propertyService) List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	return s.properties.ListProperties(ctx, filter)
}

func (s *propertyService) Featured(ctx context.Context, limit int) ([]model.Property, error) {
	if limit <= 0 {
		limit = s.featuredLimit
	}
	return s.properties.FeaturedProperties(ctx, limit)
}

func (s *propertyService) Get(ctx context.Context, id uint) (*model.Property, error) {
	if cached, ok := cache.GetJSON[model.Property](ctx, s.cache, propertyCacheKey(id)); ok {
		return cached, nil
	}

	property, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperrors.ErrPropertyNotFound
	}

	_ = cache.SetJSON(ctx, s.cache, propertyCacheKey(id), property, propertyCacheTTL)
	return property, nil
}

func (s *propertyService) ListByOwner(ctx context.Context, userID uint) ([]model.Property, error) {
	return s.properties.ListPropertiesByUser(ctx, userID)
}

// Create publishes a listing owned by actor.
func (s *propertyService) Create(ctx context.Context, actor *model.User, property *model.Property, images []*multipart.FileHeader) (*model.Property, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !CanListProperties(actor.Role) {
		return nil, apperrors.ErrForbidden
	}

	urls, err := s.saveImages(ctx, images)
	if err != nil {
		return nil, err
	}
	property.Images = append(property.Images, urls...)
	property.UserID = actor.ID
	property.ID = 0

	created, err := s.properties.CreateProperty(ctx, property)
	if err != nil {
		upload.RemoveAll(ctx, s.uploads, urls)
		return nil, err
	}
	return created, nil
}

// Update applies patch when actor owns the property or is an admin. Uploaded images are
// appended after the patched image list.
func (s *propertyService) Update(ctx context.Context, actor *model.User, id uint, patch model.PropertyPatch, images []*multipart.FileHeader) (*model.Property, error) {
	existing, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	urls, err := s.saveImages(ctx, images)
	if err != nil {
		return nil, err
	}
	if len(urls) > 0 {
		base := patch.Images
		if base == nil {
			base = existing.Images
		}
		patch.Images = append(append([]string{}, base...), urls...)
	}

	updated, err := s.properties.UpdateProperty(ctx, id, patch)
	if err == nil && updated == nil {
		err = apperrors.ErrPropertyNotFound
	}
	if err != nil {
		upload.RemoveAll(ctx, s.uploads, urls)
		return nil, err
	}
	_ = s.cache.Delete(ctx, propertyCacheKey(id))
	return updated, nil
}

// Delete removes the property when actor owns it or is an admin.
func (s *propertyService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	deleted, err := s.properties.DeleteProperty(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrPropertyNotFound
	}
	_ = s.cache.Delete(ctx, propertyCacheKey(id))
	return nil
}

// authorize loads the property from storage, bypassing the cache, and checks ownership.
func (s *propertyService) authorize(ctx context.Context, actor *model.User, id uint) (*model.Property, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	property, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperrors.ErrPropertyNotFound
	}
	if !CanManageProperty(actor, property) {
		return nil, apperrors.ErrForbidden
	}
	return property, nil
}

func (s *propertyService) saveImages(ctx context.Context, images []*multipart.FileHeader) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if s.uploads == nil {
		return nil, fmt.Errorf("%w: uploads are not configured", apperrors.ErrInvalidUpload)
	}
	return upload.SaveImages(ctx, s.uploads, images)
}
