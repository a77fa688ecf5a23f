// Package stubapi implements an in-memory stand-in for a Conquest site.
// It serves the token, import, record and system endpoints the client
// talks to, backed by fixtures instead of a Conquest database. cmd/conquest-stub
// runs it for local development and the integration tests run it in-process.
package stubapi

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Config holds the stub server fixtures and behavior knobs.
type Config struct {
	// Connection is the connection name the stub accepts. Requests carrying
	// any other X-ConnectionName are rejected.
	Connection string
	Username   string
	Password   string
	// TokenTTL is the lifetime reported for issued tokens. Defaults to one hour.
	TokenTTL time.Duration
	// ProcessingPolls is how many state checks a batch answers with
	// "Processing" before settling. Defaults to 2.
	ProcessingPolls int
	Logger          *slog.Logger
}

// Server is a stub Conquest API instance.
type Server struct {
	config Config
	logger *slog.Logger

	mu            sync.Mutex
	accessTokens  map[string]time.Time
	refreshTokens map[string]bool
	batches       map[string]*batch
	assets        map[int]gin.H
	actions       map[int]gin.H
}

// NewServer creates a stub server with the default fixture data.
func NewServer(config Config) *Server {
	if config.Connection == "" {
		config.Connection = "Conquest"
	}
	if config.Username == "" {
		config.Username = "importer"
	}
	if config.Password == "" {
		config.Password = "importer"
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = time.Hour
	}
	if config.ProcessingPolls <= 0 {
		config.ProcessingPolls = 2
	}

	return &Server{
		config:        config,
		logger:        config.Logger.With("component", "stubapi"),
		accessTokens:  make(map[string]time.Time),
		refreshTokens: make(map[string]bool),
		batches:       make(map[string]*batch),
		assets:        assetFixtures(),
		actions:       actionFixtures(),
	}
}

// Router creates and configures the Gin router for the stub.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Apply global middleware
	router.Use(s.requestID())
	router.Use(s.recovery())
	router.Use(s.logging())

	// Token endpoint (no auth)
	router.POST("/api/token", s.handleToken)

	// Authenticated API routes
	api := router.Group("/api")
	api.Use(s.auth())
	{
		api.POST("/import/add/:type", s.handleImportAdd)
		api.GET("/import/state/:batch", s.handleImportState)
		api.GET("/import/error_csv/:batch", s.handleImportErrorCSV)

		api.GET("/Asset/*path", s.handleAssetPath)
		api.POST("/asset/find_by_field", s.handleFindAsset)

		api.GET("/Action/:id", s.handleGetAction)
		api.POST("/action/find_by_field", s.handleFindAction)
		api.DELETE("/Action/:id", s.handleDeleteAction)

		api.GET("/system/connections", s.handleConnections)
		api.GET("/system/version", s.handleVersion)
		api.GET("/system/whoami", s.handleWhoAmI)
	}

	return router
}
