package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
)

// InquiryRepository defines inquiry persistence operations.
type InquiryRepository interface {
	GetInquiry(ctx context.Context, id uint) (*model.Inquiry, error)
	CreateInquiry(ctx context.Context, inquiry *model.Inquiry) (*model.Inquiry, error)
	UpdateInquiry(ctx context.Context, id uint, patch model.InquiryPatch) (*model.Inquiry, error)
	DeleteInquiry(ctx context.Context, id uint) (bool, error)
	ListInquiriesByProperty(ctx context.Context, propertyID uint) ([]model.Inquiry, error)
	ListInquiriesByUser(ctx context.Context, userID uint) ([]model.Inquiry, error)
}

type inquiryRepository struct {
	db *gorm.DB
}

// NewInquiryRepository creates a new inquiry repository.
func NewInquiryRepository(db *gorm.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) GetInquiry(ctx context.Context, id uint) (*model.Inquiry, error) {
	return first[model.Inquiry](r.db.WithContext(ctx).Where("id = ?", id))
}

// CreateInquiry stores a new inquiry; new inquiries always start pending.
func (r *inquiryRepository) CreateInquiry(ctx context.Context, inquiry *model.Inquiry) (*model.Inquiry, error) {
	inquiry.Status = model.InquiryStatusPending
	if err := r.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		return nil, translateError(err, nil, apperrors.ErrPropertyNotFound)
	}
	return inquiry, nil
}

func (r *inquiryRepository) UpdateInquiry(ctx context.Context, id uint, patch model.InquiryPatch) (*model.Inquiry, error) {
	inquiry, err := r.GetInquiry(ctx, id)
	if err != nil || inquiry == nil {
		return nil, err
	}
	patch.Apply(inquiry)
	if err := r.db.WithContext(ctx).Save(inquiry).Error; err != nil {
		return nil, err
	}
	return inquiry, nil
}

func (r *inquiryRepository) DeleteInquiry(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Inquiry{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *inquiryRepository) ListInquiriesByProperty(ctx context.Context, propertyID uint) ([]model.Inquiry, error) {
	var inquiries []model.Inquiry
	if err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("id").Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *inquiryRepository) ListInquiriesByUser(ctx context.Context, userID uint) ([]model.Inquiry, error) {
	var inquiries []model.Inquiry
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}
