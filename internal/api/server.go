package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"otlabs.dev/labgate/internal/auth"
	"otlabs.dev/labgate/internal/brand"
	"otlabs.dev/labgate/internal/config"
	"otlabs.dev/labgate/internal/content"
	"otlabs.dev/labgate/internal/labctl"
	"otlabs.dev/labgate/internal/logging"
	"otlabs.dev/labgate/internal/metrics"
	"otlabs.dev/labgate/internal/ratelimit"
)

// ServerConfig holds HTTP server security configuration.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration // Slowloris prevention
	ReadTimeout       time.Duration // Body read limit
	WriteTimeout      time.Duration // Response timeout
	IdleTimeout       time.Duration // Keep-alive timeout
	MaxHeaderBytes    int           // Header size limit
}

// DefaultServerConfig returns secure default server configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
}

// Server handles gateway API requests.
type Server struct {
	cfg      *config.Config
	lab      labctl.Client
	catalog  content.Store
	sessions *auth.Store
	authMw   *auth.Middleware
	logger   *logging.Logger
	hub      *WSHub
	gate     *OriginGate
	upgrader websocket.Upgrader
	limits   *ratelimit.Limiter

	startTime time.Time
	mux       *http.ServeMux
	httpSrv   *http.Server
}

// ServerOptions holds dependencies for the API server.
type ServerOptions struct {
	Config   *config.Config
	Lab      labctl.Client
	Catalog  content.Store
	Sessions *auth.Store
	Logger   *logging.Logger
}

// NewServer creates a server and wires its routes. Missing options fall
// back to working defaults so tests can construct a server from just a
// config and a lab client.
func NewServer(opts ServerOptions) *Server {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = content.NewMemoryStore()
	}
	if opts.Sessions == nil {
		opts.Sessions = auth.NewStore(time.Duration(opts.Config.API.SessionTTLMinutes)*time.Minute, nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.WithComponent("api")
	}

	s := &Server{
		cfg:       opts.Config,
		lab:       opts.Lab,
		catalog:   opts.Catalog,
		sessions:  opts.Sessions,
		authMw:    auth.NewMiddleware(opts.Sessions),
		logger:    opts.Logger,
		gate:      NewOriginGate(opts.Config.API, nil),
		upgrader:  newUpgrader(opts.Config.API.AllowedHosts),
		limits:    ratelimit.NewLimiter(),
		startTime: time.Now(),
		mux:       http.NewServeMux(),
	}
	s.hub = NewWSHub(opts.Lab, nil)
	// Idle per-client buckets would otherwise accumulate for the life
	// of the process.
	s.limits.StartCleanup(10*time.Minute, time.Hour)
	s.initRoutes()
	return s
}

func (s *Server) initRoutes() {
	mux := s.mux

	// Lab gateway
	mux.HandleFunc("POST /api/lab/switch", s.handleLabSwitch)
	mux.HandleFunc("GET /api/lab/protocols", s.handleLabProtocols)
	mux.HandleFunc("GET /api/lab/status", s.handleLabStatus)
	mux.HandleFunc("GET /api/lab/diagnostics", s.handleLabDiagnostics)
	mux.HandleFunc("GET /api/lab/hmi/{protocol}", s.handleLabHMI)
	mux.HandleFunc("GET /api/lab/ws", s.handleStatusWS)

	// Content catalog
	mux.HandleFunc("GET /api/blog", s.handleBlogList)
	mux.HandleFunc("GET /api/blog/{slug}", s.handleBlogPost)
	mux.HandleFunc("GET /api/content/protocols", s.handleProtocolPages)
	mux.HandleFunc("GET /api/content/protocols/{id}", s.handleProtocolPage)
	mux.HandleFunc("GET /api/tools", s.handleToolList)
	mux.HandleFunc("GET /api/tools/{slug}", s.handleTool)

	// Identity
	mux.HandleFunc("GET /api/auth/user", s.handleAuthUser)
	mux.HandleFunc("POST /api/auth/logout", s.handleAuthLogout)

	// Operational
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
}

// Handler returns the HTTP handler with the middleware chain applied.
// Chain: AccessLog -> OriginGate -> Recover -> OptionalAuth -> Mux
func (s *Server) Handler() http.Handler {
	return AccessLogger(s.gate.Wrap(s.recover(s.authMw.OptionalAuth(s.mux))))
}

// recover converts handler panics into a generic 500 so a single bad
// request cannot take the worker down or leak stack detail to clients.
func (s *Server) recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("Handler panic", "path", r.URL.Path, "panic", err)
				WriteError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	cfg := DefaultServerConfig()
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go s.uptimeLoop()

	s.logger.Info("API server listening", "addr", addr, "version", brand.Version)
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the websocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) uptimeLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		metrics.Get().Uptime.Set(time.Since(s.startTime).Seconds())
	}
}

// handleHealth reports liveness. The lab controller being down does not
// make the gateway unhealthy; degraded status is part of normal service.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": brand.LowerName,
		"version": brand.Version,
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	})
}
