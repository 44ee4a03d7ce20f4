package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tabi/pkg/utils"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), true
}

func JWTAuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// OptionalJWTMiddleware sets the caller identity when a valid bearer token is
// present and lets anonymous requests through. A bad token is treated as
// anonymous.
func OptionalJWTMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := tokens.ValidateToken(tokenString); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextEmail, claims.Email)
			}
		}
		c.Next()
	}
}
