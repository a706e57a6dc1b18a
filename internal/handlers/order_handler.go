package handlers

import (
	"net/http"
	"strconv"

	"golang-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService OrderServiceInterface
}

func NewOrderHandler(orderService OrderServiceInterface) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RegisterRoutes registers the order routes. Both groups must already require a token.
func (h *OrderHandler) RegisterRoutes(orders, admin *gin.RouterGroup) {
	orders.GET("/:page/:limit", h.ListOrders)
	orders.DELETE("/:id", h.DeleteOrder)

	admin.PUT("/orders/:id", h.UpdateOrderStatus)
}

// ListOrders godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Param page path int true "Page, from 1"
// @Param limit path int true "Page size"
// @Param search query string false "Customer name filter"
// @Success 200 {object} models.OrderPage
// @Router /orders/{page}/{limit} [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	result, err := h.orderService.List(c.Request.Context(), page, limit, c.Query("search"), middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteOrder godoc
// @Summary Delete an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} MessageResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	message, err := h.orderService.Delete(c.Request.Context(), c.Param("id"), middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// UpdateOrderStatus godoc
// @Summary Change an order's status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body UpdateOrderStatusRequest true "pending, shipped, completed or cancelled"
// @Success 200 {object} MessageResponse
// @Router /admin/orders/{id} [put]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	message, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

func pageParams(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		badRequest(c, "page must be a number")
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.Param("limit"))
	if err != nil {
		badRequest(c, "limit must be a number")
		return 0, 0, false
	}
	return page, limit, true
}
