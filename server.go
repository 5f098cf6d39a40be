// server.go
package main

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Arif-miad/education-economic-dashboard/internal/analysis"
	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/filter"
	"github.com/Arif-miad/education-economic-dashboard/internal/pages"
	"github.com/Arif-miad/education-economic-dashboard/internal/schema"
	"github.com/Arif-miad/education-economic-dashboard/internal/session"
)

const version = "1.0.0"

// Server serves the dashboard over one loaded table.
type Server struct {
	cfg      *Config
	schema   schema.Descriptor
	table    *dataset.Table
	filters  *filter.Engine
	builder  *pages.Builder
	sessions *session.Store
	logger   *slog.Logger
}

func NewServer(cfg *Config, sch schema.Descriptor, table *dataset.Table) *Server {
	analyzer := analysis.NewAnalyzer(sch,
		analysis.WithTrees(cfg.Trees),
		analysis.WithSeed(cfg.Seed),
	)
	return &Server{
		cfg:      cfg,
		schema:   sch,
		table:    table,
		filters:  filter.NewEngine(sch),
		builder:  pages.NewBuilder(sch, analyzer),
		sessions: session.NewStore(),
		logger:   slog.Default(),
	}
}

// Router builds the gin engine with every route of the dashboard.
func (s *Server) Router() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))
	r.Use(cors.New(corsConfig(s.cfg.CORSOrigins)))
	r.Use(s.sessionMiddleware())

	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)

	html := r.Group("/", s.requireAuth(false))
	{
		html.GET("/", s.dashboard)
		html.GET("/page/:page", s.dashboard)
		html.GET("/export.xlsx", s.export)
	}

	api := r.Group("/api/v1")
	api.GET("/health", s.healthHandler)

	protected := api.Group("/", s.requireAuth(true))
	{
		protected.GET("/pages/:page", s.pageHandler)
		protected.GET("/charts/:page/:file", s.chartHandler)
		protected.GET("/filters", s.filtersHandler)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
