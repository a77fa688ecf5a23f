package stubapi

import (
	"net/http"
	"strings"
	"time"

	"conquest/internal/idgen"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "X-Request-ID"

// requestID injects a unique request ID into each request context
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDKey)
		if requestID == "" {
			requestID = idgen.New()
		}
		c.Header(requestIDKey, requestID)
		c.Set(requestIDKey, requestID)
		c.Next()
	}
}

// logging logs HTTP requests with structured fields
func (s *Server) logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Info("HTTP request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// recovery recovers from panics and logs the error
func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("Panic recovered",
					"request_id", c.GetString(requestIDKey),
					"error", err,
					"path", c.Request.URL.Path,
				)

				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  "INTERNAL_ERROR",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// auth verifies the bearer token and connection name on API requests
func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || !s.validToken(parts[1]) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
				"code":  "UNAUTHORIZED",
			})
			c.Abort()
			return
		}

		if c.GetHeader("X-ConnectionName") != s.config.Connection {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unknown connection",
				"code":  "UNKNOWN_CONNECTION",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *Server) validToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.accessTokens[token]
	return ok && time.Now().Before(expiry)
}
