package handlers

import (
	"context"

	"golang-storefront/internal/models"
	"golang-storefront/internal/services"
	"golang-storefront/pkg/objectstore"
)

// CartProvider hands out the cart of one shopper.
type CartProvider interface {
	ForScope(scope string) *services.CartService
}

// CatalogServiceInterface defines the contract for the product catalog
type CatalogServiceInterface interface {
	List(ctx context.Context, search, category string) ([]models.Product, error)
	Get(ctx context.Context, productID string) (*models.Product, error)
	AddProductToCart(ctx context.Context, cart *services.CartService, productID string, quantity int) (*models.Product, error)
}

// CheckoutServiceInterface defines the contract for checkout
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, cart *services.CartService, req services.CheckoutRequest, token, userID string) (*services.CheckoutResult, error)
}

// OrderServiceInterface defines the contract for order management
type OrderServiceInterface interface {
	List(ctx context.Context, page, limit int, search, token string) (*models.OrderPage, error)
	Delete(ctx context.Context, orderID, token string) (string, error)
	UpdateStatus(ctx context.Context, orderID, status, token string) (string, error)
}

// UserServiceInterface defines the contract for user management
type UserServiceInterface interface {
	List(ctx context.Context, page, limit int, search, token string) (*models.UserPage, error)
	Update(ctx context.Context, userID string, patch models.UserPatch, token string) (string, error)
	Delete(ctx context.Context, userID, token string) (string, error)
	Profile(ctx context.Context, token string) (*models.User, error)
}

// ImageServiceInterface defines the contract for product image storage
type ImageServiceInterface interface {
	Upload(ctx context.Context, files []objectstore.File) ([]string, error)
	Delete(ctx context.Context, urls []string) error
}

// ProductAdminServiceInterface defines the contract for product editing
type ProductAdminServiceInterface interface {
	Update(ctx context.Context, productID string, edit services.ProductEdit, newImages []objectstore.File, token string) (string, error)
}
