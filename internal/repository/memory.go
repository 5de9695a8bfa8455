package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
)

// MemoryStorage is a process-local Storage. It enforces the same uniqueness,
// ownership and cascade rules as the database schema and hands out copies so callers
// never alias stored records.
type MemoryStorage struct {
	mu  sync.RWMutex
	now func() time.Time

	users      map[uint]*model.User
	properties map[uint]*model.Property
	inquiries  map[uint]*model.Inquiry
	favorites  map[uint]*model.Favorite

	nextUserID     uint
	nextPropertyID uint
	nextInquiryID  uint
	nextFavoriteID uint
}

// Ensure MemoryStorage implements Storage
var _ Storage = (*MemoryStorage)(nil)

// MemoryOption configures a MemoryStorage.
type MemoryOption func(*MemoryStorage)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStorage) {
		s.now = now
	}
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage(opts ...MemoryOption) *MemoryStorage {
	s := &MemoryStorage{
		now:        time.Now,
		users:      make(map[uint]*model.User),
		properties: make(map[uint]*model.Property),
		inquiries:  make(map[uint]*model.Inquiry),
		favorites:  make(map[uint]*model.Favorite),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sortedIDs[T any](m map[uint]T) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Properties, c.Inquiries, c.Favorites = nil, nil, nil
	return &c
}

func cloneInquiry(i *model.Inquiry) *model.Inquiry {
	c := *i
	return &c
}

func cloneFavorite(f *model.Favorite) *model.Favorite {
	c := *f
	return &c
}

// Users

func (s *MemoryStorage) GetUser(_ context.Context, id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (s *MemoryStorage) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedIDs(s.users) {
		if u := s.users[id]; u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedIDs(s.users) {
		if u := s.users[id]; u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, apperrors.ErrUserAlreadyExists
		}
	}
	if user.Role == "" {
		user.Role = model.RoleBuyer
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = s.now()
	s.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (s *MemoryStorage) UpdateUser(_ context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	updated := cloneUser(stored)
	patch.Apply(updated)
	for otherID, other := range s.users {
		if otherID != id && other.Email == updated.Email {
			return nil, apperrors.ErrUserAlreadyExists
		}
	}
	s.users[id] = updated
	return cloneUser(updated), nil
}

// DeleteUser removes the user along with their properties, inquiries and favorites.
func (s *MemoryStorage) DeleteUser(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	for pid, p := range s.properties {
		if p.UserID == id {
			s.deletePropertyLocked(pid)
		}
	}
	for iid, inq := range s.inquiries {
		if inq.UserID != nil && *inq.UserID == id {
			delete(s.inquiries, iid)
		}
	}
	for fid, fav := range s.favorites {
		if fav.UserID == id {
			delete(s.favorites, fid)
		}
	}
	delete(s.users, id)
	return true, nil
}

func (s *MemoryStorage) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, id := range sortedIDs(s.users) {
		users = append(users, *cloneUser(s.users[id]))
	}
	return users, nil
}

// Properties

func (s *MemoryStorage) GetProperty(_ context.Context, id uint) (*model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.properties[id]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (s *MemoryStorage) CreateProperty(_ context.Context, property *model.Property) (*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[property.UserID]; !ok {
		return nil, apperrors.ErrOwnerNotFound
	}
	normalizeLists(property)
	if property.Status == "" {
		property.Status = model.PropertyStatusForSale
	}
	s.nextPropertyID++
	property.ID = s.nextPropertyID
	property.CreatedAt = s.now()
	property.UpdatedAt = property.CreatedAt
	s.properties[property.ID] = property.Clone()
	return property.Clone(), nil
}

func (s *MemoryStorage) UpdateProperty(_ context.Context, id uint, patch model.PropertyPatch) (*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.properties[id]
	if !ok {
		return nil, nil
	}
	updated := stored.Clone()
	patch.Apply(updated)
	normalizeLists(updated)
	updated.UpdatedAt = s.now()
	s.properties[id] = updated
	return updated.Clone(), nil
}

// DeleteProperty removes the property with its inquiries and favorites.
func (s *MemoryStorage) DeleteProperty(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return false, nil
	}
	s.deletePropertyLocked(id)
	return true, nil
}

func (s *MemoryStorage) deletePropertyLocked(id uint) {
	for iid, inq := range s.inquiries {
		if inq.PropertyID != nil && *inq.PropertyID == id {
			delete(s.inquiries, iid)
		}
	}
	for fid, fav := range s.favorites {
		if fav.PropertyID == id {
			delete(s.favorites, fid)
		}
	}
	delete(s.properties, id)
}

func (s *MemoryStorage) ListProperties(_ context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	properties := []model.Property{}
	for _, id := range sortedIDs(s.properties) {
		if p := s.properties[id]; filter.Matches(p) {
			properties = append(properties, *p.Clone())
		}
	}
	return properties, nil
}

func (s *MemoryStorage) ListPropertiesByUser(_ context.Context, userID uint) ([]model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	properties := []model.Property{}
	for _, id := range sortedIDs(s.properties) {
		if p := s.properties[id]; p.UserID == userID {
			properties = append(properties, *p.Clone())
		}
	}
	return properties, nil
}

// FeaturedProperties returns the newest listings; ids break ties between equal timestamps.
func (s *MemoryStorage) FeaturedProperties(_ context.Context, limit int) ([]model.Property, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	properties := make([]model.Property, 0, len(s.properties))
	for _, id := range sortedIDs(s.properties) {
		properties = append(properties, *s.properties[id].Clone())
	}
	sort.SliceStable(properties, func(i, j int) bool {
		if !properties[i].CreatedAt.Equal(properties[j].CreatedAt) {
			return properties[i].CreatedAt.After(properties[j].CreatedAt)
		}
		return properties[i].ID > properties[j].ID
	})
	if len(properties) > limit {
		properties = properties[:limit]
	}
	return properties, nil
}

// Inquiries

func (s *MemoryStorage) GetInquiry(_ context.Context, id uint) (*model.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inq, ok := s.inquiries[id]; ok {
		return cloneInquiry(inq), nil
	}
	return nil, nil
}

func (s *MemoryStorage) CreateInquiry(_ context.Context, inquiry *model.Inquiry) (*model.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inquiry.PropertyID != nil {
		if _, ok := s.properties[*inquiry.PropertyID]; !ok {
			return nil, apperrors.ErrPropertyNotFound
		}
	}
	if inquiry.UserID != nil {
		if _, ok := s.users[*inquiry.UserID]; !ok {
			return nil, apperrors.ErrUserNotFound
		}
	}
	s.nextInquiryID++
	inquiry.ID = s.nextInquiryID
	inquiry.Status = model.InquiryStatusPending
	inquiry.CreatedAt = s.now()
	s.inquiries[inquiry.ID] = cloneInquiry(inquiry)
	return cloneInquiry(inquiry), nil
}

func (s *MemoryStorage) UpdateInquiry(_ context.Context, id uint, patch model.InquiryPatch) (*model.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.inquiries[id]
	if !ok {
		return nil, nil
	}
	updated := cloneInquiry(stored)
	patch.Apply(updated)
	s.inquiries[id] = updated
	return cloneInquiry(updated), nil
}

func (s *MemoryStorage) DeleteInquiry(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inquiries[id]; !ok {
		return false, nil
	}
	delete(s.inquiries, id)
	return true, nil
}

func (s *MemoryStorage) ListInquiriesByProperty(_ context.Context, propertyID uint) ([]model.Inquiry, error) {
	return s.listInquiries(func(inq *model.Inquiry) bool {
		return inq.PropertyID != nil && *inq.PropertyID == propertyID
	}), nil
}

func (s *MemoryStorage) ListInquiriesByUser(_ context.Context, userID uint) ([]model.Inquiry, error) {
	return s.listInquiries(func(inq *model.Inquiry) bool {
		return inq.UserID != nil && *inq.UserID == userID
	}), nil
}

func (s *MemoryStorage) listInquiries(match func(*model.Inquiry) bool) []model.Inquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inquiries := []model.Inquiry{}
	for _, id := range sortedIDs(s.inquiries) {
		if inq := s.inquiries[id]; match(inq) {
			inquiries = append(inquiries, *cloneInquiry(inq))
		}
	}
	return inquiries
}

// Favorites

func (s *MemoryStorage) GetFavorite(_ context.Context, id uint) (*model.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fav, ok := s.favorites[id]; ok {
		return cloneFavorite(fav), nil
	}
	return nil, nil
}

func (s *MemoryStorage) GetFavoriteByPair(_ context.Context, userID, propertyID uint) (*model.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, fav := range s.favorites {
		if fav.UserID == userID && fav.PropertyID == propertyID {
			return cloneFavorite(fav), nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) CreateFavorite(_ context.Context, favorite *model.Favorite) (*model.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[favorite.UserID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if _, ok := s.properties[favorite.PropertyID]; !ok {
		return nil, apperrors.ErrPropertyNotFound
	}
	for _, fav := range s.favorites {
		if fav.UserID == favorite.UserID && fav.PropertyID == favorite.PropertyID {
			return nil, apperrors.ErrDuplicateFavorite
		}
	}
	s.nextFavoriteID++
	favorite.ID = s.nextFavoriteID
	favorite.CreatedAt = s.now()
	s.favorites[favorite.ID] = cloneFavorite(favorite)
	return cloneFavorite(favorite), nil
}

func (s *MemoryStorage) DeleteFavorite(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favorites[id]; !ok {
		return false, nil
	}
	delete(s.favorites, id)
	return true, nil
}

// ListFavoritesByUser returns the user's favorites, most recent first.
func (s *MemoryStorage) ListFavoritesByUser(_ context.Context, userID uint) ([]model.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favorites := []model.Favorite{}
	for _, id := range sortedIDs(s.favorites) {
		if fav := s.favorites[id]; fav.UserID == userID {
			favorites = append(favorites, *cloneFavorite(fav))
		}
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		if !favorites[i].CreatedAt.Equal(favorites[j].CreatedAt) {
			return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
		}
		return favorites[i].ID > favorites[j].ID
	})
	return favorites, nil
}
