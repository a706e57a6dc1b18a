package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler issues guest cart ids.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/session", h.CreateSession)
}

// CreateSession godoc
// @Summary Start a guest session
// @Description The id goes in the X-Session-ID header of later cart requests.
// @Tags cart
// @Produce json
// @Success 201 {object} map[string]string
// @Router /session [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": uuid.NewString()})
}
