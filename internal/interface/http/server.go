// Package http implements the REST API of CMIS Engagement Hub.
// It is a thin layer over the application commands and queries: echo
// routing, request binding and validation, error translation, and
// Prometheus metrics. No business rules live here.
package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cmis-hub/cmis-engagement-hub/config"
	"github.com/cmis-hub/cmis-engagement-hub/internal/interface/http/handlers"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server wraps the echo engine with lifecycle management.
type Server struct {
	echo *echo.Echo
	cfg  config.HTTPConfig
	log  *logger.Logger
}

// Deps carries everything the route handlers need.
type Deps struct {
	Matching    *handlers.MatchingHandler
	Directory   *handlers.DirectoryHandler
	Program     *handlers.ProgramHandler
	Invitations *handlers.InvitationHandler
	Mentors     *handlers.MentorHandler
	Engagement  *handlers.EngagementHandler
	Health      *handlers.HealthHandler
}

// NewServer builds the HTTP server with all middleware and routes wired.
func NewServer(cfg config.Config, log *logger.Logger, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(recoverMiddleware(log))
	e.Use(requestLogger(log))
	if cfg.Observability.MetricsEnabled {
		e.Use(metricsMiddleware())
	}
	if len(cfg.HTTP.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.AllowOrigins,
		}))
	}

	s := &Server{echo: e, cfg: cfg.HTTP, log: log}
	s.registerRoutes(cfg, deps)
	return s
}

func (s *Server) registerRoutes(cfg config.Config, deps Deps) {
	e := s.echo

	deps.Health.Register(e)
	if cfg.Observability.MetricsEnabled {
		e.GET(cfg.Observability.MetricsPath, metricsHandler())
	}

	v1 := e.Group("/v1")

	// Matching engine, exposed directly for UI callers that bring
	// their own candidate pools.
	v1.POST("/match", deps.Matching.Match)
	v1.POST("/rank", deps.Matching.Rank)

	// Stakeholder directory.
	v1.POST("/profiles", deps.Directory.Register)
	v1.GET("/profiles/:id", deps.Directory.Get)
	v1.PATCH("/profiles/:id/availability", deps.Directory.SetAvailability)

	// Engagement subjects.
	v1.POST("/events", deps.Program.CreateEvent)
	v1.POST("/lectures", deps.Program.CreateLecture)
	v1.POST("/competitions", deps.Program.CreateCompetition)
	v1.POST("/subjects/:type/:id/invitations", deps.Program.InviteStakeholders)

	// Invitations.
	v1.GET("/invitations", deps.Invitations.List)
	v1.POST("/invitations/:id/respond", deps.Invitations.Respond)

	// Mentor recommendations.
	v1.POST("/mentors/recommendations", deps.Mentors.Recommend)

	// Engagement monitoring.
	v1.GET("/engagement-health", deps.Engagement.Health)
	v1.GET("/analytics", deps.Engagement.Analytics)
}

// Start runs the server until the listener fails or is shut down.
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.cfg.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.WriteTimeout
	s.echo.Server.IdleTimeout = s.cfg.IdleTimeout

	s.log.Info("http server starting", logger.String("addr", s.cfg.Addr()))
	return s.echo.Start(s.cfg.Addr())
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.echo.Shutdown(ctx)
}

// requestLogger logs one line per request with latency and status.
func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			log.Info("http request",
				logger.String("method", req.Method),
				logger.String("path", req.URL.Path),
				logger.Int("status", res.Status),
				logger.Latency(time.Since(start)),
				logger.String("remote_ip", c.RealIP()),
			)
			return nil
		}
	}
}

// recoverMiddleware turns handler panics into 500s instead of
// taking down the process.
func recoverMiddleware(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error("panic in http handler",
				logger.Err(err),
				logger.String("path", c.Request().URL.Path),
				logger.String("stack", string(stack)),
			)
			return err
		},
	})
}
