package services

import (
	"context"
	"strings"

	"golang-storefront/internal/models"
)

// UserAPI is the remote user API.
type UserAPI interface {
	ListUsers(ctx context.Context, page, limit int, token string) (*models.UserPage, error)
	UpdateUser(ctx context.Context, userID string, patch models.UserPatch, token string) (string, error)
	DeleteUser(ctx context.Context, userID, token string) (string, error)
	Profile(ctx context.Context, token string) (*models.User, error)
}

type UserService struct {
	api UserAPI
}

func NewUserService(api UserAPI) *UserService {
	return &UserService{api: api}
}

// List returns one page of users, keeping only those whose name contains search
// (case-insensitive).
func (s *UserService) List(ctx context.Context, page, limit int, search, token string) (*models.UserPage, error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	result, err := s.api.ListUsers(ctx, page, limit, token)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return result, nil
	}

	filtered := make([]models.User, 0, len(result.Users))
	for _, u := range result.Users {
		if strings.Contains(strings.ToLower(u.Name), search) {
			filtered = append(filtered, u)
		}
	}
	return &models.UserPage{Users: filtered, TotalPages: result.TotalPages}, nil
}

// Update sends the non-nil flags of patch. An empty patch is rejected.
func (s *UserService) Update(ctx context.Context, userID string, patch models.UserPatch, token string) (string, error) {
	if userID == "" {
		return "", ErrIDRequired
	}
	if patch.IsBlocked == nil && patch.IsEmailVerified == nil {
		return "", ErrEmptyPatch
	}
	return s.api.UpdateUser(ctx, userID, patch, token)
}

func (s *UserService) Delete(ctx context.Context, userID, token string) (string, error) {
	if userID == "" {
		return "", ErrIDRequired
	}
	return s.api.DeleteUser(ctx, userID, token)
}

func (s *UserService) Profile(ctx context.Context, token string) (*models.User, error) {
	return s.api.Profile(ctx, token)
}
