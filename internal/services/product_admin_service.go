package services

import (
	"context"
	"fmt"
	"slices"

	"golang-storefront/internal/models"
	"golang-storefront/pkg/objectstore"

	"go.uber.org/zap"
)

// ProductUpdater is the remote product API.
type ProductUpdater interface {
	UpdateProduct(ctx context.Context, productID string, update models.ProductUpdate, token string) (string, error)
}

// ProductEdit is a product form submission. KeepImages are the existing image URLs still
// attached, in display order; RemovedImages are existing URLs the editor dropped.
type ProductEdit struct {
	Title         string
	Description   string
	Price         string
	LabeledPrice  string
	Category      string
	Stock         string
	KeepImages    []string
	RemovedImages []string
}

type ProductAdminService struct {
	products ProductUpdater
	images   ImageStore
	catalog  *CatalogService
	logger   *zap.Logger
}

// NewProductAdminService wires product updates. catalog may be nil.
func NewProductAdminService(products ProductUpdater, images ImageStore, catalog *CatalogService, logger *zap.Logger) *ProductAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductAdminService{
		products: products,
		images:   images,
		catalog:  catalog,
		logger:   logger,
	}
}

// Update uploads newImages, saves the product with the kept images followed by the new
// ones, and then deletes the removed images. Images are only deleted after the product no
// longer references them.
func (s *ProductAdminService) Update(ctx context.Context, productID string, edit ProductEdit, newImages []objectstore.File, token string) (string, error) {
	if productID == "" {
		return "", ErrIDRequired
	}
	if len(edit.KeepImages)+len(newImages) > MaxProductImages {
		return "", ErrTooManyImages
	}

	uploaded := []string{}
	if len(newImages) > 0 {
		uploaded = s.images.UploadMany(ctx, newImages)
	}

	update := models.ProductUpdate{
		Title:        edit.Title,
		Description:  edit.Description,
		Price:        edit.Price,
		LabeledPrice: edit.LabeledPrice,
		Category:     edit.Category,
		Stock:        edit.Stock,
		Image:        append(slices.Clone(edit.KeepImages), uploaded...),
	}
	if update.Image == nil {
		update.Image = []string{}
	}

	message, err := s.products.UpdateProduct(ctx, productID, update, token)
	if err != nil {
		if len(uploaded) > 0 {
			if delErr := s.images.Delete(ctx, uploaded); delErr != nil {
				s.logger.Warn("failed to roll back uploaded images", zap.Strings("urls", uploaded), zap.Error(delErr))
			}
		}
		return "", fmt.Errorf("update product: %w", err)
	}

	removed := slices.DeleteFunc(slices.Clone(edit.RemovedImages), func(u string) bool {
		return slices.Contains(update.Image, u)
	})
	if len(removed) > 0 {
		if err := s.images.Delete(ctx, removed); err != nil {
			s.logger.Warn("failed to delete removed images", zap.Strings("urls", removed), zap.Error(err))
		}
	}

	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
	return message, nil
}
