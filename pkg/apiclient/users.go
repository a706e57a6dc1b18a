package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang-storefront/internal/models"
)

func (c *Client) ListUsers(ctx context.Context, page, limit int, token string) (*models.UserPage, error) {
	var resp models.UserPage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/%d", page, limit), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID string, patch models.UserPatch, token string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(userID), token, patch, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID, token string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(userID), token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "user not found"}
	}
	return resp.User, nil
}
