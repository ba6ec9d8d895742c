package api

import (
	"errors"
	"mime"
	"net/http"

	"vidbrief/client"
	"vidbrief/events"
	"vidbrief/types"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RegisterVideoRoutes registers the backend pass-through endpoints.
func RegisterVideoRoutes(r *gin.Engine, s *Server, limiter *RateLimiter) {
	r.POST("/process", limiter.Middleware(), s.handleProcess)
	r.POST("/export-summary", s.handleExportSummary)
	r.GET("/exports/:filename", s.handleExport)
}

// handleProcess validates the URL, forwards it to the backend and records the result
func (s *Server) handleProcess(c *gin.Context) {
	var req types.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload: " + err.Error()})
		return
	}

	videoURL, err := client.NormalizeVideoURL(req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"request_id":   c.GetString("request_id"),
		"url":          videoURL,
		"summary_mode": req.SummaryMode,
	})
	log.Info("Processing video")

	result, err := s.client.Process(c.Request.Context(), videoURL, req.SummaryMode)
	if err != nil {
		log.WithError(err).Warn("Backend processing failed")
		respondWithClientError(c, err)
		return
	}

	if err := s.enricher.Enrich(c.Request.Context(), result); err != nil {
		log.WithError(err).Warn("Failed to enrich video metadata")
	}
	if _, err := s.recent.Record(c.Request.Context(), result.RecentEntry()); err != nil {
		log.WithError(err).Warn("Failed to record recent video")
	}
	if err := s.events.Publish(c.Request.Context(), events.NewVideoProcessed(result, req.SummaryMode)); err != nil {
		log.WithError(err).Warn("Failed to publish video event")
	}

	c.JSON(http.StatusOK, result)
}

// handleExportSummary renders a summary on the backend and streams the file back
func (s *Server) handleExportSummary(c *gin.Context) {
	var req types.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload: " + err.Error()})
		return
	}
	if req.Format == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format is required"})
		return
	}

	blob, err := s.client.ExportSummary(c.Request.Context(), req.Content, req.Format, req.Title)
	if err != nil {
		respondWithClientError(c, err)
		return
	}
	respondWithBlob(c, blob)
}

// handleExport streams a generated audio or subtitle file
func (s *Server) handleExport(c *gin.Context) {
	blob, err := s.client.FetchExport(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondWithClientError(c, err)
		return
	}
	if blob.Filename == "" {
		blob.Filename = c.Param("filename")
	}
	respondWithBlob(c, blob)
}

func respondWithBlob(c *gin.Context, blob *client.Blob) {
	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if blob.Filename != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blob.Filename}))
	}
	c.Data(http.StatusOK, contentType, blob.Data)
}

// respondWithClientError maps a backend failure onto a matching status
func respondWithClientError(c *gin.Context, err error) {
	_ = c.Error(err)
	var ce *client.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatus(), gin.H{"error": ce.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
