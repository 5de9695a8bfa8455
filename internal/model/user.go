package model

import "time"

// Role is a user's permission level.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	FirstName    *string   `json:"firstName" gorm:"size:50"`
	LastName     *string   `json:"lastName" gorm:"size:50"`
	Phone        *string   `json:"phone" gorm:"size:20"`
	Avatar       *string   `json:"avatar" gorm:"size:255"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:'buyer'"`
	CreatedAt    time.Time `json:"createdAt"`

	// Cascades: removing a user removes what they own.
	Properties []Property `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Inquiries  []Inquiry  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Favorites  []Favorite `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserPatch carries the fields of a partial user update; nil fields are left untouched.
type UserPatch struct {
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Phone        *string
	Avatar       *string
	Role         *Role
}

// Apply merges the non-nil fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Avatar != nil {
		u.Avatar = p.Avatar
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
