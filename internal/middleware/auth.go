package middleware

import (
	"net/http"
	"strings"

	"golang-storefront/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the guest cart id of shoppers without a bearer token.
const SessionHeader = "X-Session-ID"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// OptionalAuth records the bearer token and, when it validates, the user it belongs to.
// Requests without a valid token pass through untouched.
func (a *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}
		c.Set("token", token)

		if claims, err := a.jwtManager.ValidateToken(token); err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("email", claims.Email)
		}
		c.Next()
	}
}

// TokenRequired rejects requests without a bearer token. The token itself is checked by
// the remote API it is forwarded to.
func (a *AuthMiddleware) TokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetToken(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Authorization header required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CartScope resolves whose cart a request addresses: the authenticated user, else the
// guest session named by SessionHeader.
func (a *AuthMiddleware) CartScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := GetUserID(c); userID != "" {
			c.Set("cart_scope", "user-"+userID)
			c.Next()
			return
		}

		sessionID := strings.TrimSpace(c.GetHeader(SessionHeader))
		if _, err := uuid.Parse(sessionID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "missing_cart_scope",
				"message": "a valid bearer token or " + SessionHeader + " header is required",
			})
			c.Abort()
			return
		}

		c.Set("cart_scope", "guest-"+strings.ToLower(sessionID))
		c.Next()
	}
}

func extractBearer(header string) string {
	tokenParts := strings.Split(header, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}
	return tokenParts[1]
}

// GetUserID helper function to extract user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetToken returns the raw bearer token, if any.
func GetToken(c *gin.Context) string {
	return c.GetString("token")
}

// GetCartScope returns the scope set by CartScope.
func GetCartScope(c *gin.Context) string {
	return c.GetString("cart_scope")
}
