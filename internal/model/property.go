package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// PropertyType is the kind of dwelling.
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeVilla     PropertyType = "villa"
)

// PropertyStatus is the market state of a listing.
type PropertyStatus string

const (
	PropertyStatusForSale PropertyStatus = "for_sale"
	PropertyStatusForRent PropertyStatus = "for_rent"
	PropertyStatusSold    PropertyStatus = "sold"
	PropertyStatusRented  PropertyStatus = "rented"
)

// Property is a real-estate listing owned by a user.
type Property struct {
	ID           uint                        `json:"id" gorm:"primaryKey"`
	Title        string                      `json:"title" gorm:"size:100;not null"`
	Description  string                      `json:"description" gorm:"type:text;not null"`
	Price        decimal.Decimal             `json:"price" gorm:"type:decimal(14,2);not null;index" swaggertype:"number"`
	Address      string                      `json:"address" gorm:"size:255;not null"`
	City         string                      `json:"city" gorm:"size:100;not null;index"`
	State        string                      `json:"state" gorm:"size:100;not null;index"`
	ZipCode      string                      `json:"zipCode" gorm:"size:20;not null"`
	Country      string                      `json:"country" gorm:"size:100;not null"`
	PropertyType PropertyType                `json:"propertyType" gorm:"size:20;not null;index"`
	Status       PropertyStatus              `json:"status" gorm:"size:20;not null;default:'for_sale';index"`
	Bedrooms     int                         `json:"bedrooms" gorm:"not null"`
	Bathrooms    int                         `json:"bathrooms" gorm:"not null"`
	Area         int                         `json:"area" gorm:"not null"` // square feet
	YearBuilt    *int                        `json:"yearBuilt"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Features     datatypes.JSONSlice[string] `json:"features"`
	UserID       uint                        `json:"userId" gorm:"not null;index"`
	CreatedAt    time.Time                   `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time                   `json:"updatedAt"`

	Inquiries []Inquiry  `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Favorites []Favorite `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// Clone returns a deep copy of p so the stored record can't be mutated through the result.
func (p *Property) Clone() *Property {
	c := *p
	c.Images = append(datatypes.JSONSlice[string]{}, p.Images...)
	c.Features = append(datatypes.JSONSlice[string]{}, p.Features...)
	if p.YearBuilt != nil {
		y := *p.YearBuilt
		c.YearBuilt = &y
	}
	c.Inquiries = nil
	c.Favorites = nil
	return &c
}

// PropertyPatch carries the fields of a partial property update; nil fields are left untouched.
type PropertyPatch struct {
	Title        *string
	Description  *string
	Price        *decimal.Decimal
	Address      *string
	City         *string
	State        *string
	ZipCode      *string
	Country      *string
	PropertyType *PropertyType
	Status       *PropertyStatus
	Bedrooms     *int
	Bathrooms    *int
	Area         *int
	YearBuilt    *int
	Images       []string
	Features     []string
}

// Apply merges the non-nil fields of patch onto p. Images and Features replace the
// stored lists when non-nil.
func (patch PropertyPatch) Apply(p *Property) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.State != nil {
		p.State = *patch.State
	}
	if patch.ZipCode != nil {
		p.ZipCode = *patch.ZipCode
	}
	if patch.Country != nil {
		p.Country = *patch.Country
	}
	if patch.PropertyType != nil {
		p.PropertyType = *patch.PropertyType
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Bedrooms != nil {
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		p.Bathrooms = *patch.Bathrooms
	}
	if patch.Area != nil {
		p.Area = *patch.Area
	}
	if patch.YearBuilt != nil {
		y := *patch.YearBuilt
		p.YearBuilt = &y
	}
	if patch.Images != nil {
		p.Images = append(datatypes.JSONSlice[string]{}, patch.Images...)
	}
	if patch.Features != nil {
		p.Features = append(datatypes.JSONSlice[string]{}, patch.Features...)
	}
}

// PropertyFilter narrows a property listing. Zero-valued fields do not filter.
type PropertyFilter struct {
	Location     string
	PropertyType PropertyType
	Status       PropertyStatus
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Bedrooms     *int
	Bathrooms    *int
	AreaMin      *int
	AreaMax      *int
}

// Matches reports whether p satisfies every filter that is set.
func (f PropertyFilter) Matches(p *Property) bool {
	if f.Location != "" {
		term := strings.ToLower(f.Location)
		if !strings.Contains(strings.ToLower(p.City), term) && !strings.Contains(strings.ToLower(p.State), term) {
			return false
		}
	}
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.PriceMin != nil && p.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	if f.Bedrooms != nil && p.Bedrooms < *f.Bedrooms {
		return false
	}
	if f.Bathrooms != nil && p.Bathrooms < *f.Bathrooms {
		return false
	}
	if f.AreaMin != nil && p.Area < *f.AreaMin {
		return false
	}
	if f.AreaMax != nil && p.Area > *f.AreaMax {
		return false
	}
	return true
}
