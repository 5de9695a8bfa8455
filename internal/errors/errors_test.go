package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", ErrPropertyNotFound, http.StatusNotFound, "PROPERTY_NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("get property 7: %w", ErrPropertyNotFound), http.StatusNotFound, "PROPERTY_NOT_FOUND"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"duplicate favorite", ErrDuplicateFavorite, http.StatusConflict, "DUPLICATE_FAVORITE"},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("dial tcp 10.0.0.5:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.Message)
}

func TestToEchoError(t *testing.T) {
	echoErr := ToEchoError(fmt.Errorf("load: %w", ErrForbidden))
	assert.Equal(t, http.StatusForbidden, echoErr.Code)
	assert.Equal(t, ErrorResponse{Error: ErrForbidden.Error(), Code: "FORBIDDEN"}, echoErr.Message)

	echoErr = ToEchoError(Validation("price must be a number"))
	assert.Equal(t, http.StatusBadRequest, echoErr.Code)
	assert.Equal(t, ErrorResponse{Error: "price must be a number", Code: "VALIDATION_ERROR"}, echoErr.Message)
}
