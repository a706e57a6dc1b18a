package handlers

import (
	"net/http"

	"golang-storefront/internal/middleware"
	"golang-storefront/internal/models"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers the user routes. Both groups must already require a token.
func (h *UserHandler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	authed.GET("/profile", h.Profile)

	users := admin.Group("/users")
	{
		users.GET("/:page/:limit", h.ListUsers)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// Profile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userService.Profile(c.Request.Context(), middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Param page path int true "Page, from 1"
// @Param limit path int true "Page size"
// @Param search query string false "Name filter"
// @Success 200 {object} models.UserPage
// @Router /admin/users/{page}/{limit} [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	result, err := h.userService.List(c.Request.Context(), page, limit, c.Query("search"), middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateUser godoc
// @Summary Block or verify a user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param patch body models.UserPatch true "Flags to set"
// @Success 200 {object} MessageResponse
// @Router /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}

	message, err := h.userService.Update(c.Request.Context(), c.Param("id"), patch, middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	message, err := h.userService.Delete(c.Request.Context(), c.Param("id"), middleware.GetToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}
