package handlers

import (
	"net/http"

	"golang-storefront/internal/middleware"
	"golang-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	catalog CatalogServiceInterface
	admin   ProductAdminServiceInterface
}

func NewProductHandler(catalog CatalogServiceInterface, admin ProductAdminServiceInterface) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		admin:   admin,
	}
}

// RegisterRoutes registers the public catalog routes
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
	}
}

// RegisterAdminRoutes registers product editing under an admin group
func (h *ProductHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.PUT("/products/:id", h.UpdateProduct)
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param search query string false "Matches title or category"
// @Param category query string false "Exact category, or all"
// @Success 200 {object} map[string]interface{}
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateProduct godoc
// @Summary Edit a product
// @Description Multipart form: product fields, keep_images and removed_images URLs, and
// new image files under images.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	edit := services.ProductEdit{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		Price:         c.PostForm("price"),
		LabeledPrice:  c.PostForm("labeledprice"),
		Category:      c.PostForm("category"),
		Stock:         c.PostForm("stock"),
		KeepImages:    form.Value["keep_images"],
		RemovedImages: form.Value["removed_images"],
	}

	files, err := readFiles(form.File["images"])
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	message, err := h.admin.Update(c.Request.Context(), c.Param("id"), edit, files, middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}
