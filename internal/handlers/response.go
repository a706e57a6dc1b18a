package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"golang-storefront/internal/services"
	"golang-storefront/pkg/apiclient"
	"golang-storefront/pkg/objectstore"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// respondError maps err onto a status code. Remote 4xx answers are passed through so the
// caller sees what the remote API decided; anything else from upstream is a bad gateway.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var validation *services.ValidationError
	var apiErr *apiclient.APIError
	var storageErr *objectstore.StorageError

	switch {
	case errors.As(err, &validation),
		errors.Is(err, services.ErrProductIDRequired),
		errors.Is(err, services.ErrQuantityPositive),
		errors.Is(err, services.ErrUnknownShippingMethod),
		errors.Is(err, services.ErrInvalidPage),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrIDRequired),
		errors.Is(err, services.ErrEmptyPatch),
		errors.Is(err, services.ErrNoImages),
		errors.Is(err, services.ErrTooManyImages):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
	case errors.Is(err, services.ErrCartEmpty):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "cart_empty", Message: err.Error()})
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			c.JSON(apiErr.StatusCode, ErrorResponse{Error: "upstream_rejected", Message: apiErr.Message})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream_error", Message: apiErr.Message})
	case errors.As(err, &storageErr):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "storage_error", Message: storageErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: err.Error()})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: message})
}

// readFiles loads every file of a multipart field into memory.
func readFiles(headers []*multipart.FileHeader) ([]objectstore.File, error) {
	files := make([]objectstore.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, objectstore.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
