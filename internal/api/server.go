// Package api provides the read-only REST API of the DNS filter dashboard.
// It serves dashboard statistics, query logs and the blocked domain list from
// the shared report.Reporter, plus health, metrics, API docs and the embedded
// dashboard page, via a Gin-based HTTP server.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/handlers"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/middleware"
	"github.com/jroosing/dnsfilter-dashboard/internal/config"
)

// Server is the dashboard HTTP server.
//
// The API has no authentication. Do not expose it to untrusted networks.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

func New(cfg *config.Config, reporter handlers.Reporter, logger *slog.Logger) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.SlogRequestLogger(logger))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.APIHeaders(apiPrefix))

	h := handlers.New(cfg, reporter, logger)
	RegisterRoutes(engine, h, cfg)
	if cfg.API.Dashboard {
		MountDashboard(engine)
	}

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           withCORS(engine),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

// withCORS answers preflight requests from any origin. Simple requests get
// their CORS header from middleware.APIHeaders as well.
func withCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	})(next)
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the complete HTTP handler: the engine behind the CORS layer.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("dashboard api listening", "addr", s.Addr())
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("dashboard api listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
