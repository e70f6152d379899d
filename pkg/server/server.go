package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/toastd/internal/errors"
	"github.com/vango-dev/toastd/pkg/render"
	"github.com/vango-dev/toastd/pkg/toast"
)

// Server is the HTTP/WebSocket front end of a toast.Center.
type Server struct {
	center   *toast.Center
	config   *Config
	hub      *Hub
	router   chi.Router
	renderer *render.Renderer
	logger   *slog.Logger

	middleware     []func(http.Handler) http.Handler
	metricsPath    string
	metricsHandler http.Handler

	unsubscribe func()
	httpServer  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMiddleware appends HTTP middleware, applied in order.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithMetricsHandler exposes h (typically promhttp.Handler()) at path.
func WithMetricsHandler(path string, h http.Handler) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metricsHandler = h
	}
}

// New creates a server for center and subscribes its hub. Call Shutdown
// to unsubscribe and disconnect clients.
func New(center *toast.Center, config *Config, opts ...Option) *Server {
	config = config.withDefaults()
	s := &Server{
		center:   center,
		config:   config,
		renderer: render.NewRenderer(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")

	s.hub = NewHub(center, config, s.logger)
	s.unsubscribe = center.Subscribe(s.hub)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	for _, mw := range s.middleware {
		r.Use(mw)
	}

	r.Get("/", s.handlePage)
	r.Get("/toast.js", handleClientScript)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/ws", s.hub)
	if s.metricsHandler != nil {
		r.Handle(s.metricsPath, s.metricsHandler)
	}

	r.Route("/api/toasts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Delete("/{handle}", s.handleDismiss)
		r.Post("/{handle}/action", s.handleAction)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.New("T041").
			WithDetail("Could not listen on " + s.config.Address).
			Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("T041").Wrap(err)

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown disconnects WebSocket clients, stops mirroring the center and
// shuts the HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.unsubscribe()
	s.hub.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
