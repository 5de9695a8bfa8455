package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestPropertyFilter_Matches(t *testing.T) {
	p := &Property{
		City:         "Austin",
		State:        "Texas",
		Price:        decimal.NewFromInt(250000),
		PropertyType: PropertyTypeHouse,
		Status:       PropertyStatusForSale,
		Bedrooms:     3,
		Bathrooms:    2,
		Area:         1800,
	}

	tests := []struct {
		name   string
		filter PropertyFilter
		want   bool
	}{
		{"empty filter", PropertyFilter{}, true},
		{"location matches city case-insensitively", PropertyFilter{Location: "aUs"}, true},
		{"location matches state", PropertyFilter{Location: "tex"}, true},
		{"location misses", PropertyFilter{Location: "denver"}, false},
		{"type mismatch", PropertyFilter{PropertyType: PropertyTypeCondo}, false},
		{"status match", PropertyFilter{Status: PropertyStatusForSale}, true},
		{"price bounds inclusive", PropertyFilter{PriceMin: decPtr(250000), PriceMax: decPtr(250000)}, true},
		{"price below min", PropertyFilter{PriceMin: decPtr(250001)}, false},
		{"price above max", PropertyFilter{PriceMax: decPtr(249999)}, false},
		{"bedrooms lower bound", PropertyFilter{Bedrooms: intPtr(3)}, true},
		{"too few bathrooms", PropertyFilter{Bathrooms: intPtr(3)}, false},
		{"area range", PropertyFilter{AreaMin: intPtr(1000), AreaMax: intPtr(2000)}, true},
		{"area above max", PropertyFilter{AreaMax: intPtr(1500)}, false},
		{"all anded", PropertyFilter{Location: "austin", Bedrooms: intPtr(4)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(p))
		})
	}
}

func TestPropertyPatch_Apply(t *testing.T) {
	p := &Property{Title: "Old", Bedrooms: 2, Features: []string{"garage"}}
	title := "New"
	PropertyPatch{Title: &title, Features: []string{"pool", "garden"}}.Apply(p)

	assert.Equal(t, "New", p.Title)
	assert.Equal(t, 2, p.Bedrooms)
	assert.Equal(t, []string{"pool", "garden"}, []string(p.Features))
}

func TestProperty_CloneIsDeep(t *testing.T) {
	year := 1999
	p := &Property{Images: []string{"/uploads/a.jpg"}, YearBuilt: &year}
	c := p.Clone()
	c.Images[0] = "/uploads/b.jpg"
	*c.YearBuilt = 2001

	assert.Equal(t, "/uploads/a.jpg", p.Images[0])
	assert.Equal(t, 1999, *p.YearBuilt)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAgent.Valid())
	assert.False(t, Role("landlord").Valid())
	assert.True(t, RoleSeller.In(RoleSeller, RoleAdmin))
	assert.False(t, RoleBuyer.In(RoleSeller, RoleAdmin))
}

func TestProperty_PriceIsJSONNumber(t *testing.T) {
	raw, err := json.Marshal(&Property{Price: decimal.RequireFromString("250000.50")})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, 250000.5, fields["price"])

	var back Property
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Price.Equal(decimal.RequireFromString("250000.5")))
}
