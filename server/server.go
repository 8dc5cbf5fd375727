// Package server wires the echo HTTP server around the routing pipeline.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/tariffwise/crossagent/internal/profile"
	"github.com/tariffwise/crossagent/plugin/agent"
	"github.com/tariffwise/crossagent/server/middleware"
	apiv1 "github.com/tariffwise/crossagent/server/router/api/v1"
)

// Server is the HTTP front of the customs routing pipeline.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
}

// NewServer assembles the echo instance, middleware and API routes.
func NewServer(p *profile.Profile, router *agent.Router) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit("64K"))
	if p.RateLimitPerSec > 0 {
		e.Use(middleware.RateLimit(middleware.NewRateLimiter(p.RateLimitPerSec, p.RateLimitBurst)))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": p.Version,
		})
	})

	apiGroup := e.Group("/api")
	apiv1.NewCustomsService(router).RegisterRoutes(apiGroup)

	return &Server{
		Profile:    p,
		echoServer: e,
	}
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	slog.Info("server listening", "addr", s.Profile.ListenAddr(), "mode", s.Profile.Mode)
	if err := s.echoServer.Start(s.Profile.ListenAddr()); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echoServer.Shutdown(ctx)
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echoServer
}
