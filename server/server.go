package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
	"github.com/kbukum/authkit/server/endpoint"
	"github.com/kbukum/authkit/server/middleware"
)

// Server is the gin-backed HTTP host, served over HTTP/1.1 and h2c, or over
// TLS with h2 when a certificate is configured.
type Server struct {
	httpServer *http.Server
	h2         *http2.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	listener   net.Listener
}

// New creates a Server. No middleware is applied yet; call ApplyMiddleware.
func New(cfg Config, log *logger.Logger) *Server {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}

	engine := gin.New()

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(engine, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		h2:         h2s,
		engine:     engine,
		config:     cfg,
		log:        log.WithComponent("server"),
	}
}

// GinEngine returns the underlying gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the root handler, h2c included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ApplyMiddleware installs recovery, request id, CORS, body-size limit and
// request logging, in that order.
func (s *Server) ApplyMiddleware() {
	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())
	if len(s.config.CORS.AllowedOrigins) > 0 {
		s.engine.Use(middleware.CORS(s.config.CORS))
	}
	if s.config.MaxBodySize != "" {
		s.engine.Use(middleware.BodySizeLimit(s.config.MaxBodySize))
	}
	s.engine.Use(middleware.RequestLogger(s.log))
}

// LoginLimiter returns the login rate limiter, or nil when disabled.
func (s *Server) LoginLimiter() gin.HandlerFunc {
	if s.config.LoginRateLimit <= 0 {
		return nil
	}
	return middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: s.config.LoginRateLimit})
}

// RegisterHealth mounts GET /health and GET /version.
func (s *Server) RegisterHealth(service, version string, checkers ...observability.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(service, version, checkers...))
	s.engine.GET("/version", endpoint.Version())
}

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(ctx context.Context) error {
	tlsCfg, err := s.config.TLS.Build()
	if err != nil {
		return err
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	scheme := "http"
	if tlsCfg != nil {
		s.httpServer.TLSConfig = tlsCfg
		if err := http2.ConfigureServer(s.httpServer, s.h2); err != nil {
			_ = listener.Close()
			return fmt.Errorf("server http2 setup: %w", err)
		}
		listener = tls.NewListener(listener, s.httpServer.TLSConfig)
		scheme = "https"
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", s.listener.Addr().String(), "scheme", scheme))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
