// Package server exposes the workflow over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/workflow"
)

//go:embed ui
var ui embed.FS

// Workflow is the part of *workflow.Graph served over HTTP
type Workflow interface {
	Run(ctx context.Context, query string) (*workflow.Result, error)
	Describe() workflow.Description
	Mermaid(overlay *workflow.Overlay) string
}

var _ Workflow = (*workflow.Graph)(nil)

// Server provides HTTP endpoints for Brain-Chain.
type Server struct {
	echo     *echo.Echo
	workflow Workflow
	logger   *zap.Logger
	config   *Config
	inFlight *atomic.Int64
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server.
func NewServer(wf Workflow, logger *zap.Logger, cfg *Config) (*Server, error) {
	if wf == nil {
		return nil, errors.New("workflow cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "0.0.0.0",
			Port: 8000,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{
		echo:     e,
		workflow: wf,
		logger:   logger,
		config:   cfg,
		inFlight: atomic.NewInt64(0),
	}
	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/graph", s.handleGraph)
	s.echo.POST("/process", s.handleProcess)
	s.echo.StaticFS("/", echo.MustSubFS(ui, "ui"))
}

// Handler returns the HTTP handler, used by tests and embedding servers
func (s *Server) Handler() http.Handler {
	return s.echo
}

// InFlight returns the number of workflow runs in progress
func (s *Server) InFlight() int64 {
	return s.inFlight.Load()
}

// Start starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server", zap.Int64("in_flight", s.InFlight()))
	return s.echo.Shutdown(ctx)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		detail := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			detail = fmt.Sprint(he.Message)
			if he.Internal != nil && code >= http.StatusInternalServerError {
				detail = he.Internal.Error()
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Int("status", code), zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Detail: strings.TrimSpace(detail)})
		}
		if err != nil {
			logger.Warn("failed to write error response", zap.Error(err))
		}
	}
}
