package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/workflow"
)

// ProcessRequest is the request body for POST /process.
type ProcessRequest struct {
	Text string `json:"text"`
}

// ProcessResponse is the response body for POST /process.
type ProcessResponse struct {
	Status string           `json:"status"`
	Result *workflow.Result `json:"result"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	InFlight int64  `json:"in_flight"`
}

// GraphResponse is the response body for GET /graph.
type GraphResponse struct {
	workflow.Description
	Mermaid string `json:"mermaid"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", InFlight: s.InFlight()})
}

func (s *Server) handleGraph(c echo.Context) error {
	return c.JSON(http.StatusOK, GraphResponse{
		Description: s.workflow.Describe(),
		Mermaid:     s.workflow.Mermaid(nil),
	})
}

// handleProcess runs one workflow for the submitted query. Any failure is
// reported once as a 500 with its text, partial conversations are never returned.
func (s *Server) handleProcess(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid process request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	s.inFlight.Inc()
	defer s.inFlight.Dec()

	res, err := s.workflow.Run(c.Request().Context(), req.Text)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	s.logger.Info("query processed",
		zap.String("run_id", res.RunID),
		zap.Int("steps", res.Steps),
		zap.Bool("forced_finish", res.ForcedFinish),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
	)
	return c.JSON(http.StatusOK, ProcessResponse{Status: "success", Result: res})
}
