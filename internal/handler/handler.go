package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/unrolled/render"

	"github.com/angeloszaimis/grade-server/internal/grading"
	"github.com/angeloszaimis/grade-server/internal/metrics"
)

const allowedMethods = "GET, OPTIONS"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type GradeHandler struct {
	logger           *slog.Logger
	render           *render.Render
	queryMode        grading.QueryMode
	metricsCollector *metrics.Collector
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

// ServeHTTP answers preflight requests with 204, grades GET requests and
// rejects every other method with 405.
func (h *GradeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

	h.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventRequestReceived,
		Timestamp: start,
		Method:    r.Method,
	})

	h.logger.Debug("Received request",
		slog.String("from", extractClientIP(r)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("query", r.URL.RawQuery))

	switch {
	case strings.EqualFold(r.Method, http.MethodOptions):
		wrapped.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet:
		h.serveGrade(wrapped, r)
	default:
		wrapped.Header().Set("Allow", allowedMethods)
		h.writeError(wrapped, http.StatusMethodNotAllowed, "Method not allowed")
	}

	h.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventResponseCompleted,
		Timestamp:  time.Now(),
		Duration:   time.Since(start),
		StatusCode: wrapped.statusCode,
	})
}

func (h *GradeHandler) serveGrade(w http.ResponseWriter, r *http.Request) {
	req, err := grading.ParseQuery(r.URL.RawQuery, h.queryMode)
	if err != nil {
		h.rejectQuery(w, r, err)
		return
	}

	result := grading.Evaluate(req)

	h.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventGradeIssued,
		Timestamp: time.Now(),
		Grade:     result.Grade.String(),
	})

	h.logger.Debug("Graded request",
		slog.String("name", result.Name),
		slog.Int("score", req.Score),
		slog.String("grade", result.Grade.String()))

	if err := h.render.JSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write grade", slog.Any("err", err))
	}
}

func (h *GradeHandler) rejectQuery(w http.ResponseWriter, r *http.Request, err error) {
	message := errors.Cause(err).Error()

	var qe *grading.QueryError
	if errors.As(err, &qe) {
		message = qe.Error()
	}

	h.logger.Warn("Rejected grade request",
		slog.String("from", extractClientIP(r)),
		slog.String("kind", errors.Cause(err).Error()),
		slog.String("query", r.URL.RawQuery),
		slog.String("err", message))

	h.writeError(w, http.StatusBadRequest, message)
}

func (h *GradeHandler) writeError(w http.ResponseWriter, status int, message string) {
	if err := h.render.JSON(w, status, ErrorResponse{Error: message}); err != nil {
		h.logger.Error("Failed to write error response", slog.Any("err", err))
	}
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}

func (h *GradeHandler) emitEvent(event metrics.MetricEvent) {
	if h.metricsCollector == nil {
		return
	}

	h.metricsCollector.Emit(event)
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// NewGradeHandler builds the /grade handler. collector may be nil.
func NewGradeHandler(logger *slog.Logger, re *render.Render, mode grading.QueryMode, collector *metrics.Collector) *GradeHandler {
	return &GradeHandler{
		logger:           logger,
		render:           re,
		queryMode:        mode,
		metricsCollector: collector,
	}
}
