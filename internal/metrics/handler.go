package metrics

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/unrolled/render"
)

// Handler serves the current snapshot. JSON is the default; Prometheus text
// exposition is returned for ?format=prometheus or an Accept header asking
// for text/plain.
func (c *Collector) Handler(re *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := c.metrics.Snapshot()

		if wantsPrometheus(r) {
			if err := WritePrometheus(w, snap); err != nil {
				c.logger.Error("Failed to write metrics", slog.Any("err", err))
			}
			return
		}

		if err := re.JSON(w, http.StatusOK, snap); err != nil {
			c.logger.Error("Failed to write metrics", slog.Any("err", err))
		}
	}
}

func wantsPrometheus(r *http.Request) bool {
	switch r.URL.Query().Get("format") {
	case "prometheus":
		return true
	case "json":
		return false
	}
	return strings.HasPrefix(r.Header.Get("Accept"), "text/plain")
}
