package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"homefinder/internal/auth"
	"homefinder/internal/model"
	"homefinder/internal/service"
)

const multipartMemory = 32 << 20

// PropertyHandler serves listing endpoints.
type PropertyHandler struct {
	svc service.PropertyService
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(svc service.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

// PropertyRequest is the body of a create request, as JSON or multipart form fields.
type PropertyRequest struct {
	Title        string               `json:"title" validate:"required,max=100"`
	Description  string               `json:"description" validate:"required"`
	Price        *decimal.Decimal     `json:"price" validate:"required" swaggertype:"number"`
	Address      string               `json:"address" validate:"required,max=255"`
	City         string               `json:"city" validate:"required,max=100"`
	State        string               `json:"state" validate:"required,max=100"`
	ZipCode      string               `json:"zipCode" validate:"required,max=20"`
	Country      string               `json:"country" validate:"required,max=100"`
	PropertyType model.PropertyType   `json:"propertyType" validate:"required,oneof=house apartment condo villa"`
	Status       model.PropertyStatus `json:"status" validate:"omitempty,oneof=for_sale for_rent sold rented"`
	Bedrooms     int                  `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int                  `json:"bathrooms" validate:"gte=0"`
	Area         int                  `json:"area" validate:"gte=0"`
	YearBuilt    *int                 `json:"yearBuilt" validate:"omitempty,gte=1800,lte=2100"`
	Images       []string             `json:"images"`
	Features     []string             `json:"features"`
}

func (r PropertyRequest) toModel() *model.Property {
	var price decimal.Decimal
	if r.Price != nil {
		price = *r.Price
	}
	return &model.Property{
		Title:        r.Title,
		Description:  r.Description,
		Price:        price,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		ZipCode:      r.ZipCode,
		Country:      r.Country,
		PropertyType: r.PropertyType,
		Status:       r.Status,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		Area:         r.Area,
		YearBuilt:    r.YearBuilt,
		Images:       r.Images,
		Features:     r.Features,
	}
}

// PropertyUpdateRequest is a partial update; omitted fields keep their values.
type PropertyUpdateRequest struct {
	Title        *string               `json:"title" validate:"omitempty,min=1,max=100"`
	Description  *string               `json:"description" validate:"omitempty,min=1"`
	Price        *decimal.Decimal      `json:"price" swaggertype:"number"`
	Address      *string               `json:"address" validate:"omitempty,min=1,max=255"`
	City         *string               `json:"city" validate:"omitempty,min=1,max=100"`
	State        *string               `json:"state" validate:"omitempty,min=1,max=100"`
	ZipCode      *string               `json:"zipCode" validate:"omitempty,min=1,max=20"`
	Country      *string               `json:"country" validate:"omitempty,min=1,max=100"`
	PropertyType *model.PropertyType   `json:"propertyType" validate:"omitempty,oneof=house apartment condo villa"`
	Status       *model.PropertyStatus `json:"status" validate:"omitempty,oneof=for_sale for_rent sold rented"`
	Bedrooms     *int                  `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *int                  `json:"bathrooms" validate:"omitempty,gte=0"`
	Area         *int                  `json:"area" validate:"omitempty,gte=0"`
	YearBuilt    *int                  `json:"yearBuilt" validate:"omitempty,gte=1800,lte=2100"`
	Images       []string              `json:"images"`
	Features     []string              `json:"features"`
}

func (r PropertyUpdateRequest) toPatch() model.PropertyPatch {
	return model.PropertyPatch{
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		ZipCode:      r.ZipCode,
		Country:      r.Country,
		PropertyType: r.PropertyType,
		Status:       r.Status,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		Area:         r.Area,
		YearBuilt:    r.YearBuilt,
		Images:       r.Images,
		Features:     r.Features,
	}
}

// ListProperties godoc
// @Summary List properties
// @Description Filters are ANDed. Pass page (and optionally pageSize) to slice the result; X-Total-Count carries the full count.
// @Tags properties
// @Produce json
// @Param location query string false "Substring of city or state"
// @Param propertyType query string false "house, apartment, condo or villa"
// @Param status query string false "for_sale, for_rent, sold or rented"
// @Param priceMin query number false "Minimum price"
// @Param priceMax query number false "Maximum price"
// @Param bedrooms query int false "Minimum bedrooms"
// @Param bathrooms query int false "Minimum bathrooms"
// @Param areaMin query int false "Minimum area"
// @Param areaMax query int false "Maximum area"
// @Param page query int false "Page number, from 1"
// @Param pageSize query int false "Page size"
// @Success 200 {array} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Router /properties [get]
func (h *PropertyHandler) ListProperties(c echo.Context) error {
	filter, err := parsePropertyFilter(c)
	if err != nil {
		return err
	}

	properties, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}
	page, err := paginate(c, nonNil(properties))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// FeaturedProperties godoc
// @Summary Newest properties
// @Tags properties
// @Produce json
// @Param limit query int false "How many to return"
// @Success 200 {array} model.Property
// @Router /properties/featured [get]
func (h *PropertyHandler) FeaturedProperties(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	properties, err := h.svc.Featured(c.Request().Context(), n)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(properties))
}

// GetProperty godoc
// @Summary Get property by id
// @Tags properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	property, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, property)
}

// MyProperties godoc
// @Summary Properties owned by the current user
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Property
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/properties [get]
func (h *PropertyHandler) MyProperties(c echo.Context) error {
	properties, err := h.svc.ListByOwner(c.Request().Context(), auth.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(properties))
}

// CreateProperty godoc
// @Summary Create property
// @Description Accepts JSON, or multipart/form-data with the same fields plus up to 10 files under "images". In forms, features may be a JSON array or a comma separated list.
// @Tags properties
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body PropertyRequest true "Property"
// @Success 201 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /properties [post]
func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	var (
		req    PropertyRequest
		images []*multipart.FileHeader
	)
	if isMultipart(c) {
		form, err := multipartForm(c)
		if err != nil {
			return err
		}
		if err := req.fromForm(form); err != nil {
			return err
		}
		images = form.File["images"]
	} else if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}
	if req.Price.IsNegative() {
		return badRequest("price must not be negative")
	}

	property, err := h.svc.Create(c.Request().Context(), auth.CurrentUser(c), req.toModel(), images)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, property)
}

// UpdateProperty godoc
// @Summary Update property
// @Description Owner or admin only. Uploaded images are appended to the existing list.
// @Tags properties
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param request body PropertyUpdateRequest true "Fields to change"
// @Success 200 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var (
		req    PropertyUpdateRequest
		images []*multipart.FileHeader
	)
	if isMultipart(c) {
		form, err := multipartForm(c)
		if err != nil {
			return err
		}
		if err := req.fromForm(form); err != nil {
			return err
		}
		images = form.File["images"]
	} else if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}
	if req.Price != nil && req.Price.IsNegative() {
		return badRequest("price must not be negative")
	}

	property, err := h.svc.Update(c.Request().Context(), auth.CurrentUser(c), id, req.toPatch(), images)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, property)
}

// DeleteProperty godoc
// @Summary Delete property
// @Description Owner or admin only. Removes the property's inquiries and favorites too.
// @Tags properties
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), auth.CurrentUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parsePropertyFilter(c echo.Context) (model.PropertyFilter, error) {
	filter := model.PropertyFilter{
		Location:     strings.TrimSpace(c.QueryParam("location")),
		PropertyType: model.PropertyType(c.QueryParam("propertyType")),
		Status:       model.PropertyStatus(c.QueryParam("status")),
	}

	var err error
	if filter.PriceMin, err = queryDecimal(c, "priceMin"); err != nil {
		return filter, err
	}
	if filter.PriceMax, err = queryDecimal(c, "priceMax"); err != nil {
		return filter, err
	}
	for name, dst := range map[string]**int{
		"bedrooms":  &filter.Bedrooms,
		"bathrooms": &filter.Bathrooms,
		"areaMin":   &filter.AreaMin,
		"areaMax":   &filter.AreaMax,
	} {
		if *dst, err = queryInt(c, name); err != nil {
			return filter, err
		}
	}
	return filter, nil
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, badRequest(name + " must be a number")
	}
	return &d, nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func multipartForm(c echo.Context) (*multipart.Form, error) {
	if err := c.Request().ParseMultipartForm(multipartMemory); err != nil {
		return nil, badRequest("invalid multipart form")
	}
	return c.Request().MultipartForm, nil
}

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// propertyForm holds the raw text fields of a multipart property form.
type propertyForm struct {
	Title        *string `schema:"title"`
	Description  *string `schema:"description"`
	Price        *string `schema:"price"`
	Address      *string `schema:"address"`
	City         *string `schema:"city"`
	State        *string `schema:"state"`
	ZipCode      *string `schema:"zipCode"`
	Country      *string `schema:"country"`
	PropertyType *string `schema:"propertyType"`
	Status       *string `schema:"status"`
	Bedrooms     *string `schema:"bedrooms"`
	Bathrooms    *string `schema:"bathrooms"`
	Area         *string `schema:"area"`
	YearBuilt    *string `schema:"yearBuilt"`
	Images       *string `schema:"images"`
	Features     *string `schema:"features"`
}

// blank reads absent and whitespace-only fields as nil.
func blank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func formInt(name string, raw *string) (*int, error) {
	if raw = blank(raw); raw == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, badRequest(name + " must be an integer")
	}
	return &v, nil
}

func formDecimal(name string, raw *string) (*decimal.Decimal, error) {
	if raw = blank(raw); raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, badRequest(name + " must be a number")
	}
	return &d, nil
}

func formList(raw *string) ([]string, error) {
	if raw = blank(raw); raw == nil {
		return nil, nil
	}
	return parseList(*raw)
}

// parseList accepts a JSON array of strings or a comma separated list.
func parseList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, badRequest("list must be a JSON array of strings")
		}
		return items, nil
	}
	items := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items, nil
}

func (r *PropertyRequest) fromForm(form *multipart.Form) error {
	var u PropertyUpdateRequest
	if err := u.fromForm(form); err != nil {
		return err
	}

	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	derefInt := func(i *int) int {
		if i == nil {
			return 0
		}
		return *i
	}

	r.Title = deref(u.Title)
	r.Description = deref(u.Description)
	r.Price = u.Price
	r.Address = deref(u.Address)
	r.City = deref(u.City)
	r.State = deref(u.State)
	r.ZipCode = deref(u.ZipCode)
	r.Country = deref(u.Country)
	if u.PropertyType != nil {
		r.PropertyType = *u.PropertyType
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	r.Bedrooms = derefInt(u.Bedrooms)
	r.Bathrooms = derefInt(u.Bathrooms)
	r.Area = derefInt(u.Area)
	r.YearBuilt = u.YearBuilt
	r.Images = u.Images
	r.Features = u.Features
	return nil
}

func (r *PropertyUpdateRequest) fromForm(form *multipart.Form) error {
	var f propertyForm
	if err := formDecoder.Decode(&f, form.Value); err != nil {
		return badRequest("invalid form fields")
	}
	var err error

	r.Title = blank(f.Title)
	r.Description = blank(f.Description)
	r.Address = blank(f.Address)
	r.City = blank(f.City)
	r.State = blank(f.State)
	r.ZipCode = blank(f.ZipCode)
	r.Country = blank(f.Country)
	if v := blank(f.PropertyType); v != nil {
		t := model.PropertyType(*v)
		r.PropertyType = &t
	}
	if v := blank(f.Status); v != nil {
		s := model.PropertyStatus(*v)
		r.Status = &s
	}
	if r.Price, err = formDecimal("price", f.Price); err != nil {
		return err
	}
	if r.Bedrooms, err = formInt("bedrooms", f.Bedrooms); err != nil {
		return err
	}
	if r.Bathrooms, err = formInt("bathrooms", f.Bathrooms); err != nil {
		return err
	}
	if r.Area, err = formInt("area", f.Area); err != nil {
		return err
	}
	if r.YearBuilt, err = formInt("yearBuilt", f.YearBuilt); err != nil {
		return err
	}
	if r.Images, err = formList(f.Images); err != nil {
		return err
	}
	if r.Features, err = formList(f.Features); err != nil {
		return err
	}
	return nil
}
