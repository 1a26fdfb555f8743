package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// =============================================================================
// Request & Response Types
// =============================================================================

// LayoutRequest is the body of POST /v1/layout. Parameters missing from the
// request keep their defaults; zero run settings use the pipeline defaults.
type LayoutRequest struct {
	Graph      graph.Graph      `json:"graph"`
	Parameters force.Parameters `json:"parameters"`
	Steps      int              `json:"steps,omitempty"`
	MinSteps   int              `json:"min_steps,omitempty"`
	DT         float64          `json:"dt,omitempty"`
	Tolerance  float64          `json:"tolerance,omitempty"`
	Seed       int64            `json:"seed,omitempty"`
	Spacing    float32          `json:"spacing,omitempty"`
}

// IntersectionsResponse is the body returned by POST /v1/intersections.
type IntersectionsResponse struct {
	Count     int              `json:"count"`
	Crossings []graph.Crossing `json:"crossings"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := LayoutRequest{Parameters: force.DefaultParameters()}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.checkSize(req.Graph); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	layout, stats, err := pipeline.Simulate(ctx, req.Graph, pipeline.Options{
		Parameters: req.Parameters,
		Steps:      req.Steps,
		MinSteps:   req.MinSteps,
		DT:         req.DT,
		Tolerance:  req.Tolerance,
		Seed:       req.Seed,
		Spacing:    req.Spacing,
		Logger:     s.logger,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Debug("layout computed",
		"nodes", stats.NodeCount,
		"steps", stats.Steps,
		"converged", layout.Converged,
		"duration", stats.SimulateTime,
		"request_id", RequestIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Formats:       []string{format},
		ShowLabels:    true,
		ShowCrossings: true,
		Logger:        s.logger,
	}
	for name, dst := range map[string]*bool{"labels": &opts.ShowLabels, "crossings": &opts.ShowCrossings, "detailed": &opts.Detailed} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				s.fail(w, r, errors.New(errors.ErrCodeInvalidParameters, "query %s: %q is not a boolean", name, v))
				return
			}
			*dst = b
		}
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidParameters, "query scale: %q is not a number", v))
			return
		}
		opts.Scale = scale
	}

	var layout graph.Layout
	if err := decodeJSON(r, &layout); err != nil {
		s.fail(w, r, err)
		return
	}
	if len(layout.Nodes) > s.cfg.MaxNodes {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "layout has %d nodes, the limit is %d", len(layout.Nodes), s.cfg.MaxNodes))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	artifacts, err := pipeline.Render(ctx, layout, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

func (s *Server) handleIntersections(w http.ResponseWriter, r *http.Request) {
	var g graph.Graph
	if err := decodeJSON(r, &g); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.checkSize(g); err != nil {
		s.fail(w, r, err)
		return
	}

	crossings, err := graph.Intersections(g, graph.LoadOptions{Seed: pipeline.DefaultSeed})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if crossings == nil {
		crossings = []graph.Crossing{}
	}
	writeJSON(w, http.StatusOK, IntersectionsResponse{Count: len(crossings), Crossings: crossings})
}

func (s *Server) checkSize(g graph.Graph) error {
	if len(g.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "graph has no nodes")
	}
	if len(g.Nodes) > s.cfg.MaxNodes {
		return errors.New(errors.ErrCodeInvalidInput, "graph has %d nodes, the limit is %d", len(g.Nodes), s.cfg.MaxNodes)
	}
	return nil
}

// =============================================================================
// Encoding & Errors
// =============================================================================

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

// StatusFor maps an error to the HTTP status reported for it.
func StatusFor(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidParameters, errors.ErrCodeInvalidFormat,
		errors.ErrCodeUnknownNode, errors.ErrCodeUnknownEdge:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNumericalFault:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := string(errors.GetCode(err))
	switch {
	case status == http.StatusGatewayTimeout:
		code = "TIMEOUT"
	case code == "":
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeError(w, r, status, code, errors.UserMessage(err))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Error:     msg,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
