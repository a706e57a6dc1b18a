package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"golang-storefront/internal/models"
)

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var resp struct {
		Products []models.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/getproducts", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var resp struct {
		Product *models.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID), "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "product not found"}
	}
	return resp.Product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, productID string, update models.ProductUpdate, token string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(productID), token, update, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
