package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"homefinder/internal/auth"
	"homefinder/internal/service"
)

// FavoriteHandler serves saved-property endpoints.
type FavoriteHandler struct {
	svc service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(svc service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

// FavoriteRequest names the property to save.
type FavoriteRequest struct {
	PropertyID uint `json:"propertyId" validate:"required"`
}

// AddFavorite godoc
// @Summary Save a property
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FavoriteRequest true "Property to save"
// @Success 201 {object} model.Favorite
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /favorites [post]
func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	var req FavoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	favorite, err := h.svc.Add(c.Request().Context(), auth.CurrentUser(c), req.PropertyID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, favorite)
}

// ListFavorites godoc
// @Summary Saved properties of the current user
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.FavoriteView
// @Failure 401 {object} errors.ErrorResponse
// @Router /favorites [get]
func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	favorites, err := h.svc.List(c.Request().Context(), auth.CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, favorites)
}

// RemoveFavorite godoc
// @Summary Remove a saved property
// @Tags favorites
// @Security BearerAuth
// @Param id path int true "Favorite ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /favorites/{id} [delete]
func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), auth.CurrentUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
