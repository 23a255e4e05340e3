// internal/api/server.go - HTTP server wiring around the API controller
package api

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/planboard/planboard/internal/ai"
	"github.com/planboard/planboard/internal/conf"
	"github.com/planboard/planboard/internal/datastore"
	"github.com/planboard/planboard/internal/observability"
	"github.com/planboard/planboard/internal/rating"
)

// Server owns the echo instance, the API controller and the metrics
// endpoint.
type Server struct {
	Echo       *echo.Echo
	Settings   *conf.Settings
	DS         datastore.Interface
	Controller *Controller

	metrics *observability.Metrics
	logger  *log.Logger
}

// NewServer builds the HTTP server and registers all routes.
func NewServer(settings *conf.Settings, ds datastore.Interface, clock rating.Clock,
	aiService *ai.Service, metrics *observability.Metrics, logger *log.Logger) *Server {

	if logger == nil {
		logger = log.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())

	if settings.WebServer.ReadTimeout > 0 {
		e.Server.ReadTimeout = settings.WebServer.ReadTimeout
	}
	if settings.WebServer.WriteTimeout > 0 {
		e.Server.WriteTimeout = settings.WebServer.WriteTimeout
	}

	s := &Server{
		Echo:     e,
		Settings: settings,
		DS:       ds,
		metrics:  metrics,
		logger:   logger,
	}

	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	s.Controller = New(e, ds, settings, clock, aiService, metrics, logger)

	return s
}

// Start begins listening on the configured port. It blocks until the server
// stops.
func (s *Server) Start() error {
	addr := ":" + s.Settings.WebServer.Port
	s.logger.Printf("HTTP server listening on %s", addr)
	return s.Echo.Start(addr)
}

// Shutdown stops the server gracefully, waiting up to 10 seconds for
// in-flight requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.Controller.Shutdown()
	return s.Echo.Shutdown(ctx)
}
