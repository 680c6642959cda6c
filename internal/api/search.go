package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snaptic/go-snaptic/internal/models"
)

// search handles POST /api/v1/search
func (s *Server) search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if len(req.Keyword) < 2 {
		s.errorResponse(c, http.StatusBadRequest, "Keyword must be at least 2 characters long")
		return
	}
	if len(req.Keyword) > 100 {
		s.errorResponse(c, http.StatusBadRequest, "Keyword must be no more than 100 characters long")
		return
	}

	response, err := s.stats.Search(c.Request.Context(), req)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to search notes: "+err.Error())
		return
	}

	s.successResponse(c, response)
}
