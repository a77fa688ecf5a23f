package stubapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.5.0"

// handleConnections lists the connections the stub site exposes
// GET /api/system/connections
func (s *Server) handleConnections(c *gin.Context) {
	c.JSON(http.StatusOK, []string{s.config.Connection, s.config.Connection + "Training"})
}

// handleVersion reports the stub API version
// GET /api/system/version
func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ApiVersion": apiVersion,
		"Connection": s.config.Connection,
	})
}

// handleWhoAmI reports the user the presented token belongs to
// GET /api/system/whoami
func (s *Server) handleWhoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, s.config.Username)
}
