package service

import (
	"context"
	"fmt"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
	"homefinder/internal/repository"
)

// InquiryFilter selects which inquiries List returns.
type InquiryFilter struct {
	PropertyID *uint
	UserID     *uint
}

// InquiryService manages contact messages.
type InquiryService interface {
	Create(ctx context.Context, actor *model.User, inquiry *model.Inquiry) (*model.Inquiry, error)
	List(ctx context.Context, actor *model.User, filter InquiryFilter) ([]model.Inquiry, error)
	UpdateStatus(ctx context.Context, id uint, status model.InquiryStatus) (*model.Inquiry, error)
	Delete(ctx context.Context, id uint) error
}

type inquiryService struct {
	inquiries  repository.InquiryRepository
	properties repository.PropertyRepository
}

// NewInquiryService creates a new inquiry service.
func NewInquiryService(inquiries repository.InquiryRepository, properties repository.PropertyRepository) InquiryService {
	return &inquiryService{inquiries: inquiries, properties: properties}
}

// Create stores an inquiry. A logged-in actor is recorded as its sender.
func (s *inquiryService) Create(ctx context.Context, actor *model.User, inquiry *model.Inquiry) (*model.Inquiry, error) {
	if inquiry.PropertyID != nil {
		property, err := s.properties.GetProperty(ctx, *inquiry.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("check property: %w", err)
		}
		if property == nil {
			return nil, apperrors.ErrPropertyNotFound
		}
	}

	inquiry.ID = 0
	inquiry.UserID = nil
	if actor != nil {
		id := actor.ID
		inquiry.UserID = &id
	}
	return s.inquiries.CreateInquiry(ctx, inquiry)
}

// List returns inquiries for a property, for a user (admins only), or the actor's own.
func (s *inquiryService) List(ctx context.Context, actor *model.User, filter InquiryFilter) ([]model.Inquiry, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	switch {
	case filter.PropertyID != nil:
		return s.inquiries.ListInquiriesByProperty(ctx, *filter.PropertyID)
	case filter.UserID != nil:
		if actor.Role != model.RoleAdmin && *filter.UserID != actor.ID {
			return nil, apperrors.ErrForbidden
		}
		return s.inquiries.ListInquiriesByUser(ctx, *filter.UserID)
	default:
		return s.inquiries.ListInquiriesByUser(ctx, actor.ID)
	}
}

func (s *inquiryService) UpdateStatus(ctx context.Context, id uint, status model.InquiryStatus) (*model.Inquiry, error) {
	inquiry, err := s.inquiries.UpdateInquiry(ctx, id, model.InquiryPatch{Status: &status})
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, apperrors.ErrInquiryNotFound
	}
	return inquiry, nil
}

func (s *inquiryService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.inquiries.DeleteInquiry(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrInquiryNotFound
	}
	return nil
}
