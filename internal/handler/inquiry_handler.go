package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"homefinder/internal/auth"
	"homefinder/internal/model"
	"homefinder/internal/service"
)

// InquiryHandler serves contact message endpoints.
type InquiryHandler struct {
	svc service.InquiryService
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(svc service.InquiryService) *InquiryHandler {
	return &InquiryHandler{svc: svc}
}

// InquiryRequest represents a new inquiry.
type InquiryRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Message    string  `json:"message" validate:"required"`
	PropertyID *uint   `json:"propertyId"`
}

// InquiryStatusRequest changes an inquiry's status.
type InquiryStatusRequest struct {
	Status model.InquiryStatus `json:"status" validate:"required,oneof=pending responded closed"`
}

// CreateInquiry godoc
// @Summary Send an inquiry
// @Description Open to everyone; a logged-in sender is recorded on the inquiry.
// @Tags inquiries
// @Accept json
// @Produce json
// @Param request body InquiryRequest true "Inquiry"
// @Success 201 {object} model.Inquiry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inquiries [post]
func (h *InquiryHandler) CreateInquiry(c echo.Context) error {
	var req InquiryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inquiry, err := h.svc.Create(c.Request().Context(), auth.CurrentUser(c), &model.Inquiry{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
		PropertyID: req.PropertyID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, inquiry)
}

// ListInquiries godoc
// @Summary List inquiries
// @Description By property when propertyId is given, by user when userId is given (admins only), otherwise the caller's own.
// @Tags inquiries
// @Produce json
// @Security BearerAuth
// @Param propertyId query int false "Property ID"
// @Param userId query int false "User ID"
// @Success 200 {array} model.Inquiry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /inquiries [get]
func (h *InquiryHandler) ListInquiries(c echo.Context) error {
	propertyID, err := queryUint(c, "propertyId")
	if err != nil {
		return err
	}
	userID, err := queryUint(c, "userId")
	if err != nil {
		return err
	}

	inquiries, err := h.svc.List(c.Request().Context(), auth.CurrentUser(c), service.InquiryFilter{
		PropertyID: propertyID,
		UserID:     userID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(inquiries))
}

// UpdateInquiry godoc
// @Summary Update inquiry status
// @Tags inquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Inquiry ID"
// @Param request body InquiryStatusRequest true "New status"
// @Success 200 {object} model.Inquiry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inquiries/{id} [put]
func (h *InquiryHandler) UpdateInquiry(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req InquiryStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inquiry, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inquiry)
}

// DeleteInquiry godoc
// @Summary Delete inquiry
// @Tags inquiries
// @Security BearerAuth
// @Param id path int true "Inquiry ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /inquiries/{id} [delete]
func (h *InquiryHandler) DeleteInquiry(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
