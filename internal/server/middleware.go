package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"auction-marketplace/internal/auth"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AuthMiddleware verifies the bearer token and stores the caller identity
// in the request context under "user_id"
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, errors.New("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, errors.New("invalid authorization header format"))
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusUnauthorized, err, "unauthorized")
	utils.Warn("AuthMiddleware: request rejected", map[string]any{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	c.Abort()
}
