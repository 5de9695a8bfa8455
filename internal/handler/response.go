package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "homefinder/internal/errors"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// MessageResponse is returned by endpoints that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail converts err to an HTTP error response, logging anything that maps to a 500.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.ToEchoError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return httpErr
}

func badRequest(detail string) error {
	return apperrors.ToEchoError(apperrors.Validation(detail))
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return uint(id), nil
}

func queryUint(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, badRequest(name + " must be a positive integer")
	}
	out := uint(v)
	return &out, nil
}

func queryInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest(name + " must be an integer")
	}
	return &v, nil
}

// paginate slices items by the page and pageSize query parameters and reports the
// unsliced length in X-Total-Count. Without a page parameter every item is returned.
func paginate[T any](c echo.Context, items []T) ([]T, error) {
	c.Response().Header().Set("X-Total-Count", strconv.Itoa(len(items)))

	page, err := queryInt(c, "page")
	if err != nil || page == nil {
		return items, err
	}
	if *page < 1 {
		return nil, badRequest("page must be at least 1")
	}
	size := defaultPageSize
	if ps, err := queryInt(c, "pageSize"); err != nil {
		return nil, err
	} else if ps != nil {
		if *ps < 1 || *ps > maxPageSize {
			return nil, badRequest("pageSize must be between 1 and 100")
		}
		size = *ps
	}

	start := (*page - 1) * size
	if start >= len(items) {
		return []T{}, nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
