package models

import (
	"encoding/json"
	"time"
)

// Order statuses used by the back office.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderProduct is one product line inside an order.
type OrderProduct struct {
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	ProductImage string `json:"productimage"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

// PlaceOrderRequest is the payload the remote order API accepts on checkout.
type PlaceOrderRequest struct {
	Products   []OrderProduct `json:"products"`
	Name       string         `json:"name"`
	Address    Address        `json:"address"`
	Phone      string         `json:"phone"`
	Email      string         `json:"email"`
	TotalPrice json.Number    `json:"totalPrice"`
}

// Order is an order record as returned by the remote API.
type Order struct {
	ID         string         `json:"_id,omitempty"`
	OrderID    string         `json:"orderId"`
	Name       string         `json:"name"`
	Email      string         `json:"email,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	Address    Address        `json:"address"`
	Products   []OrderProduct `json:"products"`
	Status     string         `json:"status"`
	TotalPrice json.Number    `json:"totalPrice"`
	CreatedAt  *time.Time     `json:"createdAt,omitempty"`
}

// OrderPage is one page of the paginated order listing.
type OrderPage struct {
	Orders    []Order `json:"orders"`
	TotalPage int     `json:"totalpage"`
}

// OrderStatusValid reports whether status is one the back office can set.
func OrderStatusValid(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
