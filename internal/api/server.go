package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snaptic/go-snaptic/internal/db"
	"github.com/snaptic/go-snaptic/internal/services"
	"github.com/snaptic/go-snaptic/internal/snaptic"
)

// Server exposes the local note cache over REST
type Server struct {
	store      db.Store
	client     *snaptic.Client // optional; enables remote health reporting
	stats      *services.StatsService
	corsOrigin string
	engine     *gin.Engine
}

// New creates a new API server
func New(store db.Store, client *snaptic.Client, corsOrigin string) *Server {
	s := &Server{
		store:      store,
		client:     client,
		stats:      services.NewStats(store),
		corsOrigin: corsOrigin,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.corsMiddleware())

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/notes", s.listNotes)
		v1.GET("/notes/:id", s.getNote)
		v1.POST("/search", s.search)
		v1.GET("/tags", s.listTags)
		v1.GET("/stats", s.getStats)
		v1.GET("/health", s.health)
	}

	s.engine = engine
	return s
}

// Run starts the HTTP server on the given address
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler returns the underlying http.Handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// corsMiddleware applies the configured CORS origin to every response
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := s.corsOrigin
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Response envelope helpers

func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func (s *Server) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
