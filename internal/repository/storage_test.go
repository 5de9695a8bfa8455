package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homefinder/internal/db"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
)

// steppingClock returns a clock that advances one minute on every call.
func steppingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newMemoryStorage(*testing.T) Storage {
	return NewMemoryStorage(WithClock(steppingClock()))
}

// newSQLiteStorage migrates a fresh on-disk SQLite database with foreign keys enforced,
// so cascades and constraint errors come from the database itself.
func newSQLiteStorage(t *testing.T) Storage {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "homefinder.db") + "?_pragma=foreign_keys(1)"
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        steppingClock(),
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewGormStorage(gormDB)
}

func TestStorage(t *testing.T) {
	backends := map[string]func(*testing.T) Storage{
		"memory": newMemoryStorage,
		"gorm":   newSQLiteStorage,
	}
	for name, newStorage := range backends {
		t.Run(name, func(t *testing.T) {
			storageSuite(t, newStorage)
		})
	}
}

func storageSuite(t *testing.T, newStorage func(*testing.T) Storage) {
	tests := []struct {
		name string
		run  func(t *testing.T, s Storage, owner *model.User)
	}{
		{"property round trip", testPropertyRoundTrip},
		{"missing records", testMissingRecords},
		{"list by price", testListPropertiesByPrice},
		{"list by location", testListPropertiesByLocation},
		{"featured", testFeaturedProperties},
		{"update property", testUpdateProperty},
		{"update user", testUpdateUser},
		{"delete property cascades", testDeletePropertyCascades},
		{"delete user cascades", testDeleteUserCascades},
		{"constraints", testConstraints},
		{"inquiries", testInquiries},
		{"favorites", testFavorites},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStorage(t)
			owner, err := s.CreateUser(context.Background(), &model.User{
				Username:     "sally",
				Email:        "sally@example.com",
				PasswordHash: "hash",
				Role:         model.RoleSeller,
			})
			require.NoError(t, err)
			tt.run(t, s, owner)
		})
	}
}

func newProperty(ownerID uint, title string, price int64) *model.Property {
	return &model.Property{
		Title:        title,
		Description:  "A place to live",
		Price:        decimal.NewFromInt(price),
		Address:      "1 Main St",
		City:         "Austin",
		State:        "TX",
		ZipCode:      "73301",
		Country:      "USA",
		PropertyType: model.PropertyTypeHouse,
		Bedrooms:     3,
		Bathrooms:    2,
		Area:         1800,
		UserID:       ownerID,
	}
}

func testPropertyRoundTrip(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	year := 1998

	in := newProperty(owner.ID, "Cozy bungalow", 250000)
	in.Features = []string{"garage", "pool"}
	in.YearBuilt = &year
	created, err := s.CreateProperty(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.PropertyStatusForSale, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	got, err := s.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Cozy bungalow", got.Title)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(250000)), got.Price.String())
	assert.Equal(t, []string{"garage", "pool"}, []string(got.Features))
	assert.Empty(t, got.Images)
	require.NotNil(t, got.YearBuilt)
	assert.Equal(t, 1998, *got.YearBuilt)
	assert.Equal(t, owner.ID, got.UserID)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
}

func testMissingRecords(t *testing.T, s Storage, _ *model.User) {
	ctx := context.Background()

	user, err := s.GetUser(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.GetUserByUsername(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, user)

	property, err := s.GetProperty(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, property)

	updated, err := s.UpdateProperty(ctx, 42, model.PropertyPatch{})
	assert.NoError(t, err)
	assert.Nil(t, updated)

	favorite, err := s.GetFavoriteByPair(ctx, 1, 42)
	assert.NoError(t, err)
	assert.Nil(t, favorite)

	deleted, err := s.DeleteInquiry(ctx, 42)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func testListPropertiesByPrice(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	for _, price := range []int64{100000, 250000, 400000} {
		_, err := s.CreateProperty(ctx, newProperty(owner.ID, "listing", price))
		require.NoError(t, err)
	}

	priceMin, priceMax := decimal.NewFromInt(150000), decimal.NewFromInt(300000)
	got, err := s.ListProperties(ctx, model.PropertyFilter{PriceMin: &priceMin, PriceMax: &priceMax})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(250000)))

	exact := decimal.NewFromInt(400000)
	got, err = s.ListProperties(ctx, model.PropertyFilter{PriceMin: &exact})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	all, err := s.ListProperties(ctx, model.PropertyFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Less(t, all[0].ID, all[1].ID)
	assert.Less(t, all[1].ID, all[2].ID)
}

func testListPropertiesByLocation(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	austin := newProperty(owner.ID, "Austin house", 100000)
	denver := newProperty(owner.ID, "Denver condo", 200000)
	denver.City, denver.State = "Denver", "CO"
	denver.PropertyType = model.PropertyTypeCondo
	denver.Bedrooms = 1
	for _, p := range []*model.Property{austin, denver} {
		_, err := s.CreateProperty(ctx, p)
		require.NoError(t, err)
	}

	got, err := s.ListProperties(ctx, model.PropertyFilter{Location: "co"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Denver condo", got[0].Title)

	beds := 2
	got, err = s.ListProperties(ctx, model.PropertyFilter{Location: "tx", Bedrooms: &beds, PropertyType: model.PropertyTypeHouse})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Austin house", got[0].Title)

	got, err = s.ListProperties(ctx, model.PropertyFilter{Location: "tx", PropertyType: model.PropertyTypeCondo})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testFeaturedProperties(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	var ids []uint
	for _, title := range []string{"first", "second", "third"} {
		p, err := s.CreateProperty(ctx, newProperty(owner.ID, title, 100000))
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	featured, err := s.FeaturedProperties(ctx, 2)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, ids[2], featured[0].ID)
	assert.Equal(t, ids[1], featured[1].ID)

	defaulted, err := s.FeaturedProperties(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, defaulted, 3)
}

func testUpdateProperty(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	created, err := s.CreateProperty(ctx, newProperty(owner.ID, "Old title", 100000))
	require.NoError(t, err)
	createdAt, updatedAt := created.CreatedAt, created.UpdatedAt

	title := "New title"
	status := model.PropertyStatusSold
	updated, err := s.UpdateProperty(ctx, created.ID, model.PropertyPatch{Title: &title, Status: &status, Images: []string{"/uploads/a.jpg"}})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, model.PropertyStatusSold, updated.Status)
	assert.Equal(t, "Austin", updated.City)
	assert.True(t, updated.UpdatedAt.After(updatedAt))

	stored, err := s.GetProperty(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", stored.Title)
	assert.Equal(t, []string{"/uploads/a.jpg"}, []string(stored.Images))
	assert.True(t, stored.CreatedAt.Equal(createdAt))
	assert.True(t, stored.UpdatedAt.Equal(updated.UpdatedAt))
}

func testUpdateUser(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	phone := "555-0100"

	updated, err := s.UpdateUser(ctx, owner.ID, model.UserPatch{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	byEmail, err := s.GetUserByEmail(ctx, "sally@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	require.NotNil(t, byEmail.Phone)
	assert.Equal(t, phone, *byEmail.Phone)
	assert.Equal(t, "hash", byEmail.PasswordHash)
}

func testDeletePropertyCascades(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	p, err := s.CreateProperty(ctx, newProperty(owner.ID, "Doomed", 100000))
	require.NoError(t, err)
	fav, err := s.CreateFavorite(ctx, &model.Favorite{UserID: owner.ID, PropertyID: p.ID})
	require.NoError(t, err)
	inq, err := s.CreateInquiry(ctx, &model.Inquiry{Name: "Ann", Email: "ann@example.com", Message: "Hi", PropertyID: &p.ID})
	require.NoError(t, err)

	deleted, err := s.DeleteProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := s.ListProperties(ctx, model.PropertyFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	owned, err := s.ListPropertiesByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)
	favs, err := s.ListFavoritesByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
	goneFav, err := s.GetFavorite(ctx, fav.ID)
	require.NoError(t, err)
	assert.Nil(t, goneFav)
	goneInq, err := s.GetInquiry(ctx, inq.ID)
	require.NoError(t, err)
	assert.Nil(t, goneInq)

	again, err := s.DeleteProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, again)
}

func testDeleteUserCascades(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	p, err := s.CreateProperty(ctx, newProperty(owner.ID, "Owned", 100000))
	require.NoError(t, err)
	inq, err := s.CreateInquiry(ctx, &model.Inquiry{Name: "Sally", Email: "sally@example.com", Message: "Note", UserID: &owner.ID})
	require.NoError(t, err)

	deleted, err := s.DeleteUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := s.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	goneInq, err := s.GetInquiry(ctx, inq.ID)
	require.NoError(t, err)
	assert.Nil(t, goneInq)
	user, err := s.GetUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func testConstraints(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()

	_, err := s.CreateUser(ctx, &model.User{Username: "sally", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	_, err = s.CreateUser(ctx, &model.User{Username: "sal", Email: "sally@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	_, err = s.CreateProperty(ctx, newProperty(999, "Orphan", 100000))
	assert.ErrorIs(t, err, apperrors.ErrOwnerNotFound)

	p, err := s.CreateProperty(ctx, newProperty(owner.ID, "Loved", 100000))
	require.NoError(t, err)

	_, err = s.CreateFavorite(ctx, &model.Favorite{UserID: owner.ID, PropertyID: p.ID})
	require.NoError(t, err)
	_, err = s.CreateFavorite(ctx, &model.Favorite{UserID: owner.ID, PropertyID: p.ID})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateFavorite)

	favs, err := s.ListFavoritesByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	_, err = s.CreateFavorite(ctx, &model.Favorite{UserID: owner.ID, PropertyID: 999})
	assert.ErrorIs(t, err, apperrors.ErrPropertyNotFound)

	missing := uint(999)
	_, err = s.CreateInquiry(ctx, &model.Inquiry{Name: "Ann", Email: "ann@example.com", Message: "Hi", PropertyID: &missing})
	assert.ErrorIs(t, err, apperrors.ErrPropertyNotFound)
}

func testInquiries(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	p, err := s.CreateProperty(ctx, newProperty(owner.ID, "Asked about", 100000))
	require.NoError(t, err)

	inq, err := s.CreateInquiry(ctx, &model.Inquiry{
		Name:       "Bob",
		Email:      "bob@example.com",
		Message:    "Is it available?",
		PropertyID: &p.ID,
		UserID:     &owner.ID,
		Status:     model.InquiryStatusClosed,
	})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusPending, inq.Status)

	anonymous, err := s.CreateInquiry(ctx, &model.Inquiry{Name: "Guest", Email: "guest@example.com", Message: "General question"})
	require.NoError(t, err)
	assert.Nil(t, anonymous.PropertyID)
	assert.Nil(t, anonymous.UserID)

	byProperty, err := s.ListInquiriesByProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byProperty, 1)

	byUser, err := s.ListInquiriesByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	status := model.InquiryStatusResponded
	updated, err := s.UpdateInquiry(ctx, inq.ID, model.InquiryPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusResponded, updated.Status)

	stored, err := s.GetInquiry(ctx, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusResponded, stored.Status)

	deleted, err := s.DeleteInquiry(ctx, anonymous.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func testFavorites(t *testing.T, s Storage, owner *model.User) {
	ctx := context.Background()
	var favIDs []uint
	for _, title := range []string{"older", "newer"} {
		p, err := s.CreateProperty(ctx, newProperty(owner.ID, title, 100000))
		require.NoError(t, err)
		fav, err := s.CreateFavorite(ctx, &model.Favorite{UserID: owner.ID, PropertyID: p.ID})
		require.NoError(t, err)
		favIDs = append(favIDs, fav.ID)
	}

	favs, err := s.ListFavoritesByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, favIDs[1], favs[0].ID)

	byPair, err := s.GetFavoriteByPair(ctx, owner.ID, favs[1].PropertyID)
	require.NoError(t, err)
	require.NotNil(t, byPair)
	assert.Equal(t, favIDs[0], byPair.ID)

	deleted, err := s.DeleteFavorite(ctx, favIDs[0])
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.DeleteFavorite(ctx, favIDs[0])
	require.NoError(t, err)
	assert.False(t, deleted)
}
