package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/snaptic/go-snaptic/internal/shared"
)

// listNotes handles GET /api/v1/notes
func (s *Server) listNotes(c *gin.Context) {
	filter := shared.NoteFilter{
		Keyword: c.Query("keyword"),
		Tag:     c.Query("tag"),
		Source:  c.Query("source"),
	}

	if mediaStr := c.Query("has_media"); mediaStr != "" {
		hasMedia := mediaStr == "true"
		filter.HasMedia = &hasMedia
	}

	filter.Limit = 100
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 1000 {
			s.errorResponse(c, http.StatusBadRequest, "Invalid limit: must be between 1 and 1000")
			return
		}
		filter.Limit = limit
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			s.errorResponse(c, http.StatusBadRequest, "Invalid offset")
			return
		}
		filter.Offset = offset
	}

	notes, err := s.store.ListNotes(c.Request.Context(), filter)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list notes: "+err.Error())
		return
	}

	s.successResponse(c, notes)
}

// getNote handles GET /api/v1/notes/:id
func (s *Server) getNote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid note id")
		return
	}

	note, err := s.store.GetNote(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Note not found: "+err.Error())
		return
	}

	s.successResponse(c, note)
}

// listTags handles GET /api/v1/tags
func (s *Server) listTags(c *gin.Context) {
	tags, err := s.store.ListTags(c.Request.Context())
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list tags: "+err.Error())
		return
	}

	s.successResponse(c, tags)
}
