package model

import "time"

// Favorite is a user's bookmark of a property. A (user, property) pair is stored at most once.
type Favorite struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"userId" gorm:"not null;uniqueIndex:idx_favorites_user_property"`
	PropertyID uint      `json:"propertyId" gorm:"not null;uniqueIndex:idx_favorites_user_property;index"`
	CreatedAt  time.Time `json:"createdAt"`
}
