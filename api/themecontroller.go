package api

import (
	"net/http"

	"vidbrief/theme"

	"github.com/gin-gonic/gin"
)

// ThemeRequest is the body of PUT /api/theme
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// RegisterThemeRoutes registers theme preference endpoints.
func RegisterThemeRoutes(r *gin.Engine, s *Server) {
	g := r.Group("/api/theme")
	g.GET("", s.handleGetTheme)
	g.PUT("", s.handleSetTheme)
}

func (s *Server) handleGetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, themeResponse(s.themes.Current()))
}

func (s *Server) handleSetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := theme.Parse(req.Theme)
	s.themes.Set(c.Request.Context(), t)
	c.JSON(http.StatusOK, themeResponse(t))
}

func themeResponse(t theme.Theme) gin.H {
	return gin.H{
		"theme": string(t),
		"class": t.Class(),
		"icon":  t.Icon(),
	}
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}
