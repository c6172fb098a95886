// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"docgen-service/internal/analysis"
	"docgen-service/internal/common/config"
	"docgen-service/internal/common/logger"
	"docgen-service/internal/common/observability"
	"docgen-service/internal/document"
	"docgen-service/internal/render"
	"docgen-service/internal/session"
	"docgen-service/internal/template"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DocumentPipeline is the slice of the render pipeline the HTTP layer
// needs. Tests substitute a stub.
type DocumentPipeline interface {
	Render(ctx context.Context, templateName string, payload map[string]interface{}, mode render.Mode) (*render.Result, error)
	RenderHTML(ctx context.Context, templateName string, payload map[string]interface{}) (string, error)
}

// SessionService is implemented by session.Service; nil when sessions are
// disabled.
type SessionService interface {
	Create(ctx context.Context, templateName string, data map[string]interface{}) (string, error)
	Get(ctx context.Context, id string) (*session.Session, error)
}

type Server struct {
	cfg      *config.Config
	catalog  *template.Catalog
	analyzer *analysis.Analyzer
	pipeline DocumentPipeline
	store    document.Store
	sessions SessionService
	obs      *observability.Observability
	logger   logger.Logger
	started  time.Time
}

func New(cfg *config.Config, catalog *template.Catalog, pipeline DocumentPipeline, store document.Store, sessions SessionService, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		cfg:      cfg,
		catalog:  catalog,
		analyzer: analysis.NewAnalyzer(log),
		pipeline: pipeline,
		store:    store,
		sessions: sessions,
		obs:      obs,
		logger:   log,
		started:  time.Now(),
	}
}

// Router assembles the full HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(requestLogMiddleware(s.logger))
	if s.obs != nil {
		r.Use(metricsMiddleware(s.obs))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization",
			"ngrok-skip-browser-warning", "X-Service", "X-Client",
		},
		AllowCredentials: false,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		window := time.Duration(s.cfg.Server.RateLimit.WindowMinutes) * time.Minute
		api.Use(httprate.LimitByIP(s.cfg.Server.RateLimit.Requests, window))

		api.Get("/health", s.handleHealth)
		api.Get("/health/detailed", s.handleHealthDetailed)
		api.Get("/ready", s.handleReady)

		// Document verification is the one public document endpoint: the
		// id itself is the credential.
		api.Get("/verify/{documentId}", s.handleVerify)

		api.Group(func(authed chi.Router) {
			authed.Use(s.authMiddleware)

			authed.Post("/templates", s.handleListTemplates)
			authed.Post("/templates/{templateName}", s.handleTemplateDetail)
			authed.Post("/templates/{templateName}/preview", s.handlePreview)
			authed.Post("/pdf/view", s.handleGeneratePDF)

			if s.sessions != nil {
				authed.Post("/template-session", s.handleCreateSession)
				authed.Get("/template-session/{sessionId}", s.handleGetSession)
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warn("route not found", map[string]interface{}{
			"requestId": RequestID(r.Context()),
			"method":    r.Method,
			"path":      r.URL.Path,
		})
		s.writeJSONRaw(w, http.StatusNotFound, map[string]interface{}{
			"error":     true,
			"message":   "Route not found: " + r.Method + " " + r.URL.Path,
			"requestId": RequestID(r.Context()),
		})
	})

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.Server.CORS.AllowedOrigins) > 0 {
		return s.cfg.Server.CORS.AllowedOrigins
	}
	return []string{"*"}
}
