package services

import (
	"context"
	"errors"
	"strings"

	"golang-storefront/internal/models"
)

var (
	ErrInvalidPage   = errors.New("page must be >= 1 and limit between 1 and 100")
	ErrInvalidStatus = errors.New("status must be one of pending, shipped, completed, cancelled")
	ErrIDRequired    = errors.New("id is required")
	ErrEmptyPatch    = errors.New("nothing to update")
)

const maxPageLimit = 100

// OrderAPI is the remote order API.
type OrderAPI interface {
	ListOrders(ctx context.Context, page, limit int, token string) (*models.OrderPage, error)
	DeleteOrder(ctx context.Context, orderID, token string) (string, error)
	UpdateOrderStatus(ctx context.Context, orderID, status, token string) (string, error)
}

// OrderService is the order management surface. Authorization is left to the remote API,
// which receives the caller's token.
type OrderService struct {
	api OrderAPI
}

func NewOrderService(api OrderAPI) *OrderService {
	return &OrderService{api: api}
}

// List returns one page of orders, keeping only those whose customer name contains
// search (case-insensitive).
func (s *OrderService) List(ctx context.Context, page, limit int, search, token string) (*models.OrderPage, error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	result, err := s.api.ListOrders(ctx, page, limit, token)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return result, nil
	}

	filtered := make([]models.Order, 0, len(result.Orders))
	for _, o := range result.Orders {
		if strings.Contains(strings.ToLower(o.Name), search) {
			filtered = append(filtered, o)
		}
	}
	return &models.OrderPage{Orders: filtered, TotalPage: result.TotalPage}, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID, token string) (string, error) {
	if orderID == "" {
		return "", ErrIDRequired
	}
	return s.api.DeleteOrder(ctx, orderID, token)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status, token string) (string, error) {
	if orderID == "" {
		return "", ErrIDRequired
	}
	if !models.OrderStatusValid(status) {
		return "", ErrInvalidStatus
	}
	return s.api.UpdateOrderStatus(ctx, orderID, status, token)
}

func validatePage(page, limit int) error {
	if page < 1 || limit < 1 || limit > maxPageLimit {
		return ErrInvalidPage
	}
	return nil
}
