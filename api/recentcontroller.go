package api

import (
	"net/http"

	"vidbrief/types"

	"github.com/gin-gonic/gin"
)

// RegisterRecentRoutes registers recently-processed video endpoints.
func RegisterRecentRoutes(r *gin.Engine, s *Server) {
	g := r.Group("/api/recent")
	g.GET("", s.handleListRecent)
	g.POST("", s.handleRecordRecent)
}

func (s *Server) handleListRecent(c *gin.Context) {
	list, err := s.recent.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent videos: " + err.Error()})
		return
	}
	if list == nil {
		list = []types.RecentEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"recent": list})
}

// handleRecordRecent accepts a types.RecentEntry and returns the updated list
func (s *Server) handleRecordRecent(c *gin.Context) {
	var entry types.RecentEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if entry.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	list, err := s.recent.Record(c.Request.Context(), entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record recent video: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent": list})
}
