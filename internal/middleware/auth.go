package middleware

import (
	"net/http"
	"strings"

	"github.com/arcadehub/api/internal/auth"
	"github.com/arcadehub/api/internal/model"
	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware extracts user info if a bearer token is present;
// anonymous callers proceed as the guest sentinel. Sessions can be created
// and validated before a user is known, so nothing here ever aborts.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", model.GuestID)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Next()
			return
		}

		claims, err := auth.ValidateAccessToken(parts[1], jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Set("userNickname", claims.Nickname)

		c.Next()
	}
}

// AuthMiddleware requires a valid JWT token.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireClaims(c, jwtSecret)
		if !ok {
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Set("userNickname", claims.Nickname)

		c.Next()
	}
}

// AdminMiddleware requires a valid JWT token AND the user to be in the
// admin list.
func AdminMiddleware(jwtSecret string, adminEmails []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireClaims(c, jwtSecret)
		if !ok {
			return
		}

		isAdmin := false
		for _, email := range adminEmails {
			if strings.EqualFold(email, claims.Email) {
				isAdmin = true
				break
			}
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)

		c.Next()
	}
}

func requireClaims(c *gin.Context, jwtSecret string) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return nil, false
	}

	claims, err := auth.ValidateAccessToken(parts[1], jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		c.Abort()
		return nil, false
	}
	return claims, true
}

// UserID returns the authenticated user id or the guest sentinel.
func UserID(c *gin.Context) string {
	if id, ok := c.Get("userID"); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return model.GuestID
}
