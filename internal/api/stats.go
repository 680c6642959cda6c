package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// getStats handles GET /api/v1/stats
func (s *Server) getStats(c *gin.Context) {
	stats, err := s.stats.CacheStats(c.Request.Context())
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to get stats: "+err.Error())
		return
	}

	s.successResponse(c, stats)
}

// health handles GET /api/v1/health
func (s *Server) health(c *gin.Context) {
	status := gin.H{
		"cache":  "ok",
		"remote": "unconfigured",
	}
	code := http.StatusOK

	if err := s.store.Ping(c.Request.Context()); err != nil {
		status["cache"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	if s.client != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := s.client.Ping(ctx); err != nil {
			status["remote"] = err.Error()
		} else {
			status["remote"] = "ok"
		}
	}

	c.JSON(code, status)
}
