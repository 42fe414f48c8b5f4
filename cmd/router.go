package main

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"github.com/angeloszaimis/grade-server/config"
	"github.com/angeloszaimis/grade-server/internal/grading"
	"github.com/angeloszaimis/grade-server/internal/handler"
	"github.com/angeloszaimis/grade-server/internal/metrics"
)

// setupRouter mounts the grade handler under the configured route and, when
// collector is non-nil, the GET-only metrics endpoint. CORS wraps the whole
// router.
func setupRouter(cfg *config.Config, log *slog.Logger, re *render.Render, collector *metrics.Collector) http.Handler {
	r := mux.NewRouter()

	if collector != nil {
		r.Handle(cfg.Metrics.Path, collector.Handler(re)).Methods(http.MethodGet)
	}

	gradeHandler := handler.NewGradeHandler(log, re, grading.QueryMode(cfg.Grading.QueryMode), collector)
	r.PathPrefix(cfg.Grading.Route).Handler(gradeHandler)

	r.NotFoundHandler = handler.NotFound(re)
	r.MethodNotAllowedHandler = handler.MethodNotAllowed(re)

	return handler.CORS(handler.CORSOptions{
		AllowOrigin:  cfg.CORS.AllowOrigin,
		AllowMethods: cfg.CORS.AllowMethods,
		AllowHeaders: cfg.CORS.AllowHeaders,
	})(r)
}
