package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	imageService ImageServiceInterface
}

func NewImageHandler(imageService ImageServiceInterface) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

type DeleteImagesRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

func (h *ImageHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.POST("/images", h.UploadImages)
	admin.DELETE("/images", h.DeleteImages)
}

// UploadImages godoc
// @Summary Upload product images
// @Description Files that fail to upload are left out of the response.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /admin/images [post]
func (h *ImageHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	files, err := readFiles(form.File["images"])
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	urls, err := h.imageService.Upload(c.Request.Context(), files)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"urls": urls})
}

// DeleteImages godoc
// @Summary Delete product images by public URL
// @Tags admin
// @Accept json
// @Success 204
// @Router /admin/images [delete]
func (h *ImageHandler) DeleteImages(c *gin.Context) {
	var req DeleteImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), req.URLs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
