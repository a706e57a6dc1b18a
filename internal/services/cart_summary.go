package services

import (
	"encoding/json"
	"strings"

	"golang-storefront/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Pricing holds the storefront's cart page rules.
type Pricing struct {
	Currency         currency.Unit
	FreeShippingOver decimal.Decimal
	FlatShipping     decimal.Decimal
	TaxRate          decimal.Decimal
	// Promos maps a lower-case promo code to its fixed discount.
	Promos map[string]decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		Currency:         currency.INR,
		FreeShippingOver: decimal.NewFromInt(99),
		FlatShipping:     decimal.NewFromInt(15),
		TaxRate:          decimal.RequireFromString("0.08"),
		Promos: map[string]decimal.Decimal{
			"save10":  decimal.NewFromInt(50),
			"newuser": decimal.NewFromInt(100),
		},
	}
}

// CartSummary is the priced view of a cart.
type CartSummary struct {
	Items         models.CartCollection
	ItemCount     int
	UnitCount     int
	Subtotal      decimal.Decimal
	Savings       decimal.Decimal
	PromoCode     string
	PromoDiscount decimal.Decimal
	Shipping      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Currency      string
}

func (s CartSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items         models.CartCollection `json:"items"`
		ItemCount     int                   `json:"item_count"`
		UnitCount     int                   `json:"unit_count"`
		Subtotal      json.Number           `json:"subtotal"`
		Savings       json.Number           `json:"savings"`
		PromoCode     string                `json:"promo_code,omitempty"`
		PromoDiscount json.Number           `json:"promo_discount"`
		Shipping      json.Number           `json:"shipping"`
		Tax           json.Number           `json:"tax"`
		Total         json.Number           `json:"total"`
		Currency      string                `json:"currency"`
	}{
		Items:         s.Items,
		ItemCount:     s.ItemCount,
		UnitCount:     s.UnitCount,
		Subtotal:      models.NumberOf(s.Subtotal),
		Savings:       models.NumberOf(s.Savings),
		PromoCode:     s.PromoCode,
		PromoDiscount: models.NumberOf(s.PromoDiscount),
		Shipping:      models.NumberOf(s.Shipping),
		Tax:           models.NumberOf(s.Tax),
		Total:         models.NumberOf(s.Total),
		Currency:      s.Currency,
	})
}

// Summarize prices cart. An unknown promo code is ignored, and a promo never discounts
// more than the subtotal.
func (p Pricing) Summarize(cart models.CartCollection, promoCode string) CartSummary {
	subtotal, savings := decimal.Zero, decimal.Zero
	for _, line := range cart {
		subtotal = subtotal.Add(line.LineTotal())
		savings = savings.Add(line.LineSavings())
	}

	summary := CartSummary{
		Items:         cart,
		ItemCount:     len(cart),
		UnitCount:     cart.Units(),
		Subtotal:      subtotal,
		Savings:       savings,
		PromoDiscount: decimal.Zero,
		Shipping:      decimal.Zero,
		Currency:      p.Currency.String(),
	}

	code := strings.ToLower(strings.TrimSpace(promoCode))
	if discount, ok := p.Promos[code]; ok {
		summary.PromoCode = strings.ToUpper(code)
		summary.PromoDiscount = decimal.Min(discount, subtotal)
	}

	if len(cart) > 0 && subtotal.LessThanOrEqual(p.FreeShippingOver) {
		summary.Shipping = p.FlatShipping
	}

	discounted := subtotal.Sub(summary.PromoDiscount)
	summary.Tax = discounted.Mul(p.TaxRate).Round(0)
	summary.Total = discounted.Add(summary.Shipping).Add(summary.Tax)

	return summary
}
