package services

import (
	"encoding/json"
	"testing"

	"golang-storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, price, listPrice int64, qty int) models.CartLine {
	l := models.CartLine{ProductID: id, UnitPrice: decimal.NewFromInt(price), Quantity: qty}
	if listPrice > 0 {
		l.ListPrice = decimal.NewNullDecimal(decimal.NewFromInt(listPrice))
	}
	return l
}

func TestPricingSummarize(t *testing.T) {
	tests := []struct {
		name         string
		cart         models.CartCollection
		promo        string
		wantSubtotal int64
		wantSavings  int64
		wantPromo    int64
		wantShipping int64
		wantTax      int64
		wantTotal    int64
		wantCode     string
	}{
		{
			name: "empty cart",
		},
		{
			name:         "small cart pays shipping",
			cart:         models.CartCollection{line("A", 40, 0, 2)},
			wantSubtotal: 80,
			wantShipping: 15,
			wantTax:      6, // 6.4
			wantTotal:    101,
		},
		{
			name:         "over the threshold ships free",
			cart:         models.CartCollection{line("A", 500, 600, 2), line("B", 100, 0, 1)},
			wantSubtotal: 1100,
			wantSavings:  200,
			wantTax:      88,
			wantTotal:    1188,
		},
		{
			name:         "promo is case-insensitive",
			cart:         models.CartCollection{line("A", 1000, 0, 1)},
			promo:        "save10",
			wantSubtotal: 1000,
			wantPromo:    50,
			wantTax:      76,
			wantTotal:    1026,
			wantCode:     "SAVE10",
		},
		{
			name:         "promo never exceeds subtotal",
			cart:         models.CartCollection{line("A", 60, 0, 1)},
			promo:        "NEWUSER",
			wantSubtotal: 60,
			wantPromo:    60,
			wantShipping: 15,
			wantTotal:    15,
			wantCode:     "NEWUSER",
		},
		{
			name:         "unknown promo ignored",
			cart:         models.CartCollection{line("A", 200, 0, 1)},
			promo:        "FREESTUFF",
			wantSubtotal: 200,
			wantTax:      16,
			wantTotal:    216,
		},
		{
			name:         "list price below unit price saves nothing",
			cart:         models.CartCollection{line("A", 200, 150, 1)},
			wantSubtotal: 200,
			wantTax:      16,
			wantTotal:    216,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultPricing().Summarize(tt.cart, tt.promo)

			assert.True(t, decimal.NewFromInt(tt.wantSubtotal).Equal(s.Subtotal), "subtotal %s", s.Subtotal)
			assert.True(t, decimal.NewFromInt(tt.wantSavings).Equal(s.Savings), "savings %s", s.Savings)
			assert.True(t, decimal.NewFromInt(tt.wantPromo).Equal(s.PromoDiscount), "promo %s", s.PromoDiscount)
			assert.True(t, decimal.NewFromInt(tt.wantShipping).Equal(s.Shipping), "shipping %s", s.Shipping)
			assert.True(t, decimal.NewFromInt(tt.wantTax).Equal(s.Tax), "tax %s", s.Tax)
			assert.True(t, decimal.NewFromInt(tt.wantTotal).Equal(s.Total), "total %s", s.Total)
			assert.Equal(t, tt.wantCode, s.PromoCode)
			assert.Equal(t, len(tt.cart), s.ItemCount)
			assert.Equal(t, "INR", s.Currency)
		})
	}
}

func TestCartSummaryJSON(t *testing.T) {
	s := DefaultPricing().Summarize(models.CartCollection{line("A", 40, 50, 2)}, "")

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, float64(80), got["subtotal"])
	assert.Equal(t, float64(20), got["savings"])
	assert.Equal(t, float64(101), got["total"])
	assert.Equal(t, float64(2), got["unit_count"])
	assert.NotContains(t, got, "promo_code")
}

func TestCartServiceSummary(t *testing.T) {
	ctx := t.Context()
	cart, _, _ := newTestCart(t)
	require.NoError(t, cart.AddToCart(ctx, productWithPrice("A", 120), 1))

	s, err := cart.Summary(ctx, "NEWUSER")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(s.PromoDiscount))
	// free shipping is decided on the subtotal before the promo
	assert.True(t, s.Shipping.IsZero())
	assert.True(t, decimal.NewFromInt(2).Equal(s.Tax))
	assert.True(t, decimal.NewFromInt(22).Equal(s.Total))
}
