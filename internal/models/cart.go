package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CartLine is one product entry in a shopper's cart.
// Descriptive fields are a snapshot taken when the product was first added and are never
// refreshed from the catalog afterwards.
type CartLine struct {
	ProductID    string
	Title        string
	Category     string
	Stock        int
	UnitPrice    decimal.Decimal
	ListPrice    decimal.NullDecimal
	DisplayImage string
	Quantity     int
}

// cartLineJSON is the persisted shape of a CartLine. Prices are written as JSON numbers.
type cartLineJSON struct {
	ProductID    string       `json:"productId"`
	Title        string       `json:"title,omitempty"`
	Category     string       `json:"category,omitempty"`
	Stock        int          `json:"stock"`
	UnitPrice    json.Number  `json:"unitPrice"`
	ListPrice    *json.Number `json:"listPrice,omitempty"`
	DisplayImage string       `json:"displayImage"`
	Quantity     int          `json:"quantity"`
}

func (l CartLine) MarshalJSON() ([]byte, error) {
	out := cartLineJSON{
		ProductID:    l.ProductID,
		Title:        l.Title,
		Category:     l.Category,
		Stock:        l.Stock,
		UnitPrice:    NumberOf(l.UnitPrice),
		DisplayImage: l.DisplayImage,
		Quantity:     l.Quantity,
	}
	if l.ListPrice.Valid {
		lp := NumberOf(l.ListPrice.Decimal)
		out.ListPrice = &lp
	}
	return json.Marshal(out)
}

func (l *CartLine) UnmarshalJSON(data []byte) error {
	var in cartLineJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	unitPrice, err := decimalOf(in.UnitPrice)
	if err != nil {
		return fmt.Errorf("unitPrice: %w", err)
	}

	var listPrice decimal.NullDecimal
	if in.ListPrice != nil {
		lp, err := decimalOf(*in.ListPrice)
		if err != nil {
			return fmt.Errorf("listPrice: %w", err)
		}
		listPrice = decimal.NewNullDecimal(lp)
	}

	*l = CartLine{
		ProductID:    in.ProductID,
		Title:        in.Title,
		Category:     in.Category,
		Stock:        in.Stock,
		UnitPrice:    unitPrice,
		ListPrice:    listPrice,
		DisplayImage: in.DisplayImage,
		Quantity:     in.Quantity,
	}
	return nil
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineSavings is (list price - unit price) times quantity. A line without a list price, or
// with a list price at or below the unit price, saves nothing.
func (l CartLine) LineSavings() decimal.Decimal {
	if !l.ListPrice.Valid || l.ListPrice.Decimal.LessThanOrEqual(l.UnitPrice) {
		return decimal.Zero
	}
	return l.ListPrice.Decimal.Sub(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartCollection is the ordered set of lines in one cart, unique by ProductID.
// It is always read and written as a whole.
type CartCollection []CartLine

// Index returns the position of the line for productID, or -1.
func (c CartCollection) Index(productID string) int {
	for i, line := range c {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c CartCollection) Find(productID string) (CartLine, bool) {
	if i := c.Index(productID); i >= 0 {
		return c[i], true
	}
	return CartLine{}, false
}

// Units is the total number of units across all lines.
func (c CartCollection) Units() int {
	var n int
	for _, line := range c {
		n += line.Quantity
	}
	return n
}

// Clone returns a copy that shares no backing array with c.
func (c CartCollection) Clone() CartCollection {
	if c == nil {
		return CartCollection{}
	}
	out := make(CartCollection, len(c))
	copy(out, c)
	return out
}

// NumberOf renders a decimal as a JSON number literal.
func NumberOf(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func decimalOf(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(string(n))
}
