package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a catalog record as served by the remote product API.
type Product struct {
	ProductID    string              `json:"productId"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Category     string              `json:"category"`
	Price        decimal.Decimal     `json:"price"`
	LabeledPrice decimal.NullDecimal `json:"labeledprice"`
	Stock        int                 `json:"stock"`
	Image        ImageRef            `json:"image"`
}

// productJSON mirrors Product for encoding with numeric prices.
type productJSON struct {
	ProductID    string       `json:"productId"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Category     string       `json:"category"`
	Price        json.Number  `json:"price"`
	LabeledPrice *json.Number `json:"labeledprice,omitempty"`
	Stock        int          `json:"stock"`
	Image        ImageRef     `json:"image"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	out := productJSON{
		ProductID:   p.ProductID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       NumberOf(p.Price),
		Stock:       p.Stock,
		Image:       p.Image,
	}
	if p.LabeledPrice.Valid {
		lp := NumberOf(p.LabeledPrice.Decimal)
		out.LabeledPrice = &lp
	}
	return json.Marshal(out)
}

// ImageRef is a product's image field. The backend sends either a single URL or a list of
// URLs; both decode into a list.
type ImageRef []string

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}

	switch data[0] {
	case '"':
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if single == "" {
			*r = nil
			return nil
		}
		*r = ImageRef{single}
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*r = list
		return nil
	default:
		return fmt.Errorf("image must be a string or an array of strings, got %s", data)
	}
}

// Primary is the image shown for the product in a cart: the first of a collection, or the
// single value.
func (r ImageRef) Primary() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// ProductUpdate is the body of a product update sent to the remote API.
type ProductUpdate struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        string   `json:"price"`
	LabeledPrice string   `json:"labeledprice"`
	Category     string   `json:"category"`
	Stock        string   `json:"stock"`
	Image        []string `json:"image"`
}
