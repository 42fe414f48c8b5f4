package handler

import (
	"net/http"

	"github.com/unrolled/render"
)

// CORSOptions are the values of the three Access-Control-Allow-* headers.
type CORSOptions struct {
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
}

// DefaultCORSOptions allows any origin and header.
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{
		AllowOrigin:  "*",
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "*",
	}
}

// CORS sets the Access-Control-Allow-* headers on every response before
// next runs, so error and not-found responses carry them as well.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", opts.AllowOrigin)
			h.Set("Access-Control-Allow-Methods", opts.AllowMethods)
			h.Set("Access-Control-Allow-Headers", opts.AllowHeaders)

			next.ServeHTTP(w, r)
		})
	}
}

// NewRenderer returns the JSON renderer shared by all handlers. Responses
// carry a bare application/json content type.
func NewRenderer() *render.Render {
	return render.New(render.Options{
		DisableCharset: true,
	})
}

// NotFound answers unknown paths with a JSON error.
func NotFound(re *render.Render) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = re.JSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})
}

// MethodNotAllowed answers routes matched with an unsupported method.
func MethodNotAllowed(re *render.Render) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = re.JSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})
}
