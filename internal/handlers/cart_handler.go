package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"golang-storefront/internal/middleware"
	"golang-storefront/internal/models"
	"golang-storefront/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sseKeepAlive = 25 * time.Second

type CartHandler struct {
	carts     CartProvider
	catalog   CatalogServiceInterface
	checkout  CheckoutServiceInterface
	eventName string
	logger    *zap.Logger
}

func NewCartHandler(carts CartProvider, catalog CatalogServiceInterface, checkout CheckoutServiceInterface, eventName string, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:     carts,
		catalog:   catalog,
		checkout:  checkout,
		eventName: eventName,
		logger:    logger,
	}
}

// AddToCartRequest names the product only. Price and descriptive fields always come from
// the catalog.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type ChangeQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type CartResponse struct {
	Items     models.CartCollection `json:"items"`
	ItemCount int                   `json:"item_count"`
	UnitCount int                   `json:"unit_count"`
}

type CheckoutResponse struct {
	Message  string      `json:"message"`
	Items    int         `json:"items"`
	Subtotal json.Number `json:"subtotal"`
	Shipping json.Number `json:"shipping"`
	Tax      json.Number `json:"tax"`
	Total    json.Number `json:"total"`
}

// RegisterRoutes registers the routes for the shopper's cart
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	cart := router.Group("/cart", authMiddleware.CartScope())
	{
		cart.GET("", h.GetCart)
		cart.GET("/summary", h.GetSummary)
		cart.GET("/events", h.Events)
		cart.POST("/items", h.AddToCart)
		cart.PUT("/items/:productId", h.UpdateQuantity)
		cart.PATCH("/items/:productId", h.ChangeQuantity)
		cart.DELETE("/items/:productId", h.RemoveFromCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/checkout", h.Checkout)
	}
}

func (h *CartHandler) cart(c *gin.Context) *services.CartService {
	return h.carts.ForScope(middleware.GetCartScope(c))
}

// GetCart godoc
// @Summary Get the shopper's cart
// @Tags cart
// @Produce json
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	h.respondCart(c, h.cart(c))
}

// GetSummary godoc
// @Summary Get the priced cart
// @Tags cart
// @Produce json
// @Param promo query string false "Promo code"
// @Success 200 {object} services.CartSummary
// @Router /cart/summary [get]
func (h *CartHandler) GetSummary(c *gin.Context) {
	summary, err := h.cart(c).Summary(c.Request.Context(), c.Query("promo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddToCart godoc
// @Summary Add a product to the cart
// @Description Merges into an existing line or snapshots the catalog product into a new
// one. A missing quantity means 1.
// @Tags cart
// @Accept json
// @Produce json
// @Param item body AddToCartRequest true "Product and quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart := h.cart(c)
	if _, err := h.catalog.AddProductToCart(c.Request.Context(), cart, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	h.respondCart(c, cart)
}

// UpdateQuantity godoc
// @Summary Set a line's quantity
// @Description A quantity below 1 removes the line.
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param item body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} CartResponse
// @Router /cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cart := h.cart(c)
	if err := cart.UpdateQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, cart)
}

// ChangeQuantity godoc
// @Summary Step a line's quantity
// @Description The quantity never drops below 1.
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param item body ChangeQuantityRequest true "Delta"
// @Success 200 {object} CartResponse
// @Router /cart/items/{productId} [patch]
func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cart := h.cart(c)
	if err := cart.ChangeQuantityBy(c.Request.Context(), c.Param("productId"), *req.Delta); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, cart)
}

// RemoveFromCart godoc
// @Summary Remove a line
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	cart := h.cart(c)
	if err := cart.RemoveFromCart(c.Request.Context(), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, cart)
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Success 204
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cart(c).ClearCart(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout godoc
// @Summary Place an order for the cart
// @Description Forwards the bearer token to the order API and empties the cart on success.
// @Tags cart
// @Accept json
// @Produce json
// @Param order body services.CheckoutRequest true "Shipping details"
// @Success 201 {object} CheckoutResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), h.cart(c), req, middleware.GetToken(c), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{
		Message:  result.Message,
		Items:    result.Items,
		Subtotal: models.NumberOf(result.Totals.Subtotal),
		Shipping: models.NumberOf(result.Totals.Shipping),
		Tax:      models.NumberOf(result.Totals.Tax),
		Total:    models.NumberOf(result.Totals.Total),
	})
}

// Events godoc
// @Summary Stream cart change notifications
// @Description Server-sent events. Each event only says the cart changed; clients re-fetch.
// @Tags cart
// @Produce text/event-stream
// @Router /cart/events [get]
func (h *CartHandler) Events(c *gin.Context) {
	changed := make(chan struct{}, 1)
	unsubscribe := h.cart(c).Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.SSEvent("ready", "{}")
	c.Writer.Flush()

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			c.SSEvent(h.eventName, "{}")
		case <-keepAlive.C:
			c.SSEvent("ping", "{}")
		}
		c.Writer.Flush()
	}
}

func (h *CartHandler) respondCart(c *gin.Context, cart *services.CartService) {
	items, err := cart.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartResponse{
		Items:     items,
		ItemCount: len(items),
		UnitCount: items.Units(),
	})
}
