package stubapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gin-gonic/gin"
)

// handleToken issues tokens for password and refresh_token grants
// POST /api/token
func (s *Server) handleToken(c *gin.Context) {
	if c.GetHeader("X-ConnectionName") != s.config.Connection {
		s.grantError(c, "invalid_connection", "Connection "+c.GetHeader("X-ConnectionName")+" is not configured.")
		return
	}

	switch c.PostForm("grant_type") {
	case "password":
		if c.PostForm("username") != s.config.Username || c.PostForm("password") != s.config.Password {
			s.grantError(c, "invalid_grant", "The user name or password is incorrect.")
			return
		}
		s.issueTokens(c)

	case "refresh_token":
		if !s.consumeRefreshToken(c.PostForm("refresh_token")) {
			s.grantError(c, "invalid_grant", "The refresh token is not valid.")
			return
		}
		s.issueTokens(c)

	default:
		s.grantError(c, "unsupported_grant_type", "The grant type is not supported.")
	}
}

// issueTokens mints a fresh access and refresh token pair
func (s *Server) issueTokens(c *gin.Context) {
	accessToken := uuid.New().String()
	refreshToken := uuid.New().String()

	s.mu.Lock()
	s.accessTokens[accessToken] = time.Now().Add(s.config.TokenTTL)
	s.refreshTokens[refreshToken] = true
	s.mu.Unlock()

	s.logger.Debug("tokens issued", "expires_in", int(s.config.TokenTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(s.config.TokenTTL.Seconds()),
	})
}

// consumeRefreshToken invalidates the given refresh token, reporting whether
// it was valid. Refresh tokens are single use.
func (s *Server) consumeRefreshToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.refreshTokens[token] {
		return false
	}
	delete(s.refreshTokens, token)
	return true
}

// grantError reports a rejected grant in the OAuth error shape
func (s *Server) grantError(c *gin.Context, code, description string) {
	s.logger.Warn("grant rejected", "error", code)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":             code,
		"error_description": description,
	})
}
