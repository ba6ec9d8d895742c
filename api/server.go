package api

import (
	"vidbrief/client"
	"vidbrief/config"
	"vidbrief/events"
	"vidbrief/metadata"
	"vidbrief/recent"
	"vidbrief/theme"

	"github.com/gin-gonic/gin"
)

// Server holds the collaborators behind the HTTP gateway
type Server struct {
	client   *client.Client
	recent   *recent.Store
	themes   *theme.Manager
	events   events.Publisher
	enricher metadata.Enricher
}

// NewServer creates a gateway server. A nil publisher disables events.
func NewServer(c *client.Client, r *recent.Store, t *theme.Manager, p events.Publisher) *Server {
	if p == nil {
		p = events.Noop{}
	}
	return &Server{
		client:   c,
		recent:   r,
		themes:   t,
		events:   p,
		enricher: metadata.Noop{},
	}
}

// UseEnricher completes backend metadata with e before results are recorded
func (s *Server) UseEnricher(e metadata.Enricher) {
	if e == nil {
		e = metadata.Noop{}
	}
	s.enricher = e
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server, limits config.RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())

	// Register resource routers
	RegisterVideoRoutes(r, s, NewRateLimiter(limits.RequestsPerMinute, limits.Burst))
	RegisterRecentRoutes(r, s)
	RegisterThemeRoutes(r, s)
	RegisterHealthRoutes(r)
	return r
}
