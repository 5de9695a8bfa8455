package handler

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homefinder/internal/model"
)

func form(values map[string]string) *multipart.Form {
	f := &multipart.Form{Value: map[string][]string{}}
	for k, v := range values {
		f.Value[k] = []string{v}
	}
	return f
}

func TestPropertyUpdateRequest_FromForm(t *testing.T) {
	var req PropertyUpdateRequest
	err := req.fromForm(form(map[string]string{
		"title":    "  Bright loft ",
		"city":     "",
		"price":    "310000.00",
		"bedrooms": "2",
		"status":   "for_rent",
		"features": `["balcony","gym"]`,
		"unknown":  "ignored",
	}))
	require.NoError(t, err)

	require.NotNil(t, req.Title)
	assert.Equal(t, "Bright loft", *req.Title)
	assert.Nil(t, req.City)
	require.NotNil(t, req.Price)
	assert.Equal(t, "310000", req.Price.String())
	require.NotNil(t, req.Bedrooms)
	assert.Equal(t, 2, *req.Bedrooms)
	require.NotNil(t, req.Status)
	assert.Equal(t, model.PropertyStatusForRent, *req.Status)
	assert.Equal(t, []string{"balcony", "gym"}, req.Features)
	assert.Nil(t, req.Images)
}

func TestPropertyUpdateRequest_FromFormRejectsBadNumbers(t *testing.T) {
	tests := []map[string]string{
		{"price": "a lot"},
		{"bedrooms": "two"},
		{"yearBuilt": "1990s"},
	}
	for _, values := range tests {
		var req PropertyUpdateRequest
		assert.Error(t, req.fromForm(form(values)), values)
	}
}

func TestPropertyRequest_FromForm(t *testing.T) {
	var req PropertyRequest
	require.NoError(t, req.fromForm(form(map[string]string{
		"title":        "Villa",
		"propertyType": "villa",
		"price":        "1200000",
		"area":         "4200",
		"features":     "pool, sauna",
	})))

	assert.Equal(t, "Villa", req.Title)
	assert.Equal(t, model.PropertyTypeVilla, req.PropertyType)
	require.NotNil(t, req.Price)
	assert.Equal(t, "1200000", req.Price.String())
	assert.Equal(t, 4200, req.Area)
	assert.Equal(t, 0, req.Bedrooms)
	assert.Equal(t, []string{"pool", "sauna"}, req.Features)
}

func TestPropertyRequest_FromFormWithoutPrice(t *testing.T) {
	var req PropertyRequest
	require.NoError(t, req.fromForm(form(map[string]string{"title": "Shack"})))
	assert.Nil(t, req.Price)
}
