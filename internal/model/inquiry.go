package model

import "time"

// InquiryStatus tracks how far an inquiry has been handled.
type InquiryStatus string

const (
	InquiryStatusPending   InquiryStatus = "pending"
	InquiryStatusResponded InquiryStatus = "responded"
	InquiryStatusClosed    InquiryStatus = "closed"
)

// Inquiry is a contact message, optionally about a property and optionally from a logged-in user.
type Inquiry struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	Name       string        `json:"name" gorm:"size:100;not null"`
	Email      string        `json:"email" gorm:"size:100;not null"`
	Phone      *string       `json:"phone" gorm:"size:20"`
	Message    string        `json:"message" gorm:"type:text;not null"`
	PropertyID *uint         `json:"propertyId" gorm:"index"`
	UserID     *uint         `json:"userId" gorm:"index"`
	Status     InquiryStatus `json:"status" gorm:"size:20;not null;default:'pending';index"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// InquiryPatch carries the fields of a partial inquiry update.
type InquiryPatch struct {
	Status *InquiryStatus
}

// Apply merges the non-nil fields of p onto i.
func (p InquiryPatch) Apply(i *Inquiry) {
	if p.Status != nil {
		i.Status = *p.Status
	}
}
