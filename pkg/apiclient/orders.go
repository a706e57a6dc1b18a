package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang-storefront/internal/models"
)

// PlaceOrder creates the authoritative order. It returns the API's confirmation message.
func (c *Client) PlaceOrder(ctx context.Context, order models.PlaceOrderRequest, token string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", token, order, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ListOrders(ctx context.Context, page, limit int, token string) (*models.OrderPage, error) {
	var resp models.OrderPage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d/%d", page, limit), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteOrder(ctx context.Context, orderID, token string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/orders/"+url.PathEscape(orderID), token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status, token string) (string, error) {
	body := map[string]string{"status": status}

	var resp messageResponse
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(orderID), token, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
