package service

import (
	"context"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
	"homefinder/internal/repository"
)

// FavoriteView is a favorite together with the property it points at.
type FavoriteView struct {
	model.Favorite
	Property *model.Property `json:"property"`
}

// FavoriteService manages a user's saved properties.
type FavoriteService interface {
	Add(ctx context.Context, actor *model.User, propertyID uint) (*model.Favorite, error)
	List(ctx context.Context, actor *model.User) ([]FavoriteView, error)
	Remove(ctx context.Context, actor *model.User, id uint) error
}

type favoriteService struct {
	favorites  repository.FavoriteRepository
	properties repository.PropertyRepository
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favorites repository.FavoriteRepository, properties repository.PropertyRepository) FavoriteService {
	return &favoriteService{favorites: favorites, properties: properties}
}

// Add saves propertyID for actor. Saving the same property twice fails with ErrDuplicateFavorite.
func (s *favoriteService) Add(ctx context.Context, actor *model.User, propertyID uint) (*model.Favorite, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	property, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperrors.ErrPropertyNotFound
	}

	existing, err := s.favorites.GetFavoriteByPair(ctx, actor.ID, propertyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateFavorite
	}

	return s.favorites.CreateFavorite(ctx, &model.Favorite{UserID: actor.ID, PropertyID: propertyID})
}

func (s *favoriteService) List(ctx context.Context, actor *model.User) ([]FavoriteView, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	favorites, err := s.favorites.ListFavoritesByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	views := make([]FavoriteView, 0, len(favorites))
	for _, fav := range favorites {
		property, err := s.properties.GetProperty(ctx, fav.PropertyID)
		if err != nil {
			return nil, err
		}
		views = append(views, FavoriteView{Favorite: fav, Property: property})
	}
	return views, nil
}

// Remove deletes a favorite belonging to actor; admins may remove any favorite.
func (s *favoriteService) Remove(ctx context.Context, actor *model.User, id uint) error {
	if actor == nil {
		return apperrors.ErrUnauthorized
	}
	favorite, err := s.favorites.GetFavorite(ctx, id)
	if err != nil {
		return err
	}
	if favorite == nil {
		return apperrors.ErrFavoriteNotFound
	}
	if favorite.UserID != actor.ID && actor.Role != model.RoleAdmin {
		return apperrors.ErrForbidden
	}

	if _, err := s.favorites.DeleteFavorite(ctx, id); err != nil {
		return err
	}
	return nil
}
