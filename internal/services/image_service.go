package services

import (
	"context"
	"errors"

	"golang-storefront/pkg/objectstore"
)

var (
	ErrNoImages      = errors.New("no images given")
	ErrTooManyImages = errors.New("a product has at most 8 images")
)

// MaxProductImages is the number of image slots a product has.
const MaxProductImages = 8

// ImageStore is satisfied by *objectstore.Store.
type ImageStore interface {
	UploadMany(ctx context.Context, files []objectstore.File) []string
	Delete(ctx context.Context, publicURLs []string) error
}

type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Upload stores files in order and returns the public URLs of those that succeeded.
func (s *ImageService) Upload(ctx context.Context, files []objectstore.File) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoImages
	}
	if len(files) > MaxProductImages {
		return nil, ErrTooManyImages
	}
	return s.store.UploadMany(ctx, files), nil
}

// Delete removes the images behind urls. URLs outside the image bucket are ignored.
func (s *ImageService) Delete(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return ErrNoImages
	}
	return s.store.Delete(ctx, urls)
}
