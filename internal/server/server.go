// Package server exposes the wizard over HTTP: a server-rendered form that
// posts navigation and submission back to itself.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/metrics"
	"github.com/goliatone/go-formwizard/pkg/cache"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/submission"
)

// Routes served by the wizard.
const (
	RouteIndex   = "/"
	RouteWizard  = "/wizard"
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
	RouteAssets  = "/assets"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger routes request and wizard traces to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPredictor sets the prediction backend. Without one every submission
// ends in the connection error outcome.
func WithPredictor(predictor submission.Predictor) Option {
	return func(s *Server) {
		s.predictor = predictor
	}
}

// WithCache reports store reachability on the health route.
func WithCache(store cache.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithMetrics records into m and serves it on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithRateLimiter bounds submissions per client IP.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// WithThemeSelector resolves the ?theme= and ?variant= query parameters.
func WithThemeSelector(selector *vanilla.ThemeSelector) Option {
	return func(s *Server) {
		s.themes = selector
	}
}

// WithRenderers replaces the renderer registry. The default one holds the
// vanilla HTML renderer and the plain text renderer.
func WithRenderers(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.renderers = registry
		}
	}
}

// WithCSRF guards the wizard routes with a double-submit cookie token carried
// in the FieldCSRF hidden input.
func WithCSRF(enabled bool) Option {
	return func(s *Server) {
		s.csrf = enabled
	}
}

// WithTimeouts sets the HTTP server read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// Server serves one wizard definition.
type Server struct {
	echo         *echo.Echo
	def          model.Definition
	renderers    *render.Registry
	themes       *vanilla.ThemeSelector
	predictor    submission.Predictor
	store        cache.Store
	metrics      *metrics.Metrics
	limiter      *RateLimiter
	csrf         bool
	logger       *zap.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
	startTime    time.Time
}

// New builds the server and registers its routes.
func New(def model.Definition, options ...Option) (*Server, error) {
	if err := def.Check(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s := &Server{
		def:       def,
		logger:    zap.NewNop(),
		startTime: time.Now(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.renderers == nil {
		registry, err := orchestrator.DefaultRegistry()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderers = registry
	}
	if s.themes == nil {
		selector, err := vanilla.NewThemeSelector("", "")
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.themes = selector
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = s.readTimeout
	e.Server.WriteTimeout = s.writeTimeout
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(s.logger, s.metrics))

	var pageMiddleware []echo.MiddlewareFunc
	if s.csrf {
		pageMiddleware = append(pageMiddleware, middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + FieldCSRF,
			CookieName:     FieldCSRF,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteStrictMode,
			ContextKey:     csrfContextKey,
		}))
	}

	e.GET(RouteIndex, s.index, pageMiddleware...)
	e.POST(RouteWizard, s.navigate, pageMiddleware...)
	e.GET(RouteHealth, s.health)
	e.StaticFS(RouteAssets, vanilla.AssetsFS())
	if s.metrics != nil {
		e.GET(RouteMetrics, echo.WrapHandler(s.metrics.Handler()))
	}
	s.echo = e
	return s, nil
}

// ServeHTTP lets the server be mounted or exercised with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown. It returns nil after a graceful
// shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("server listening", zap.String("addr", addr), zap.String("wizard", s.def.Name))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
