package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
)

// statusRecorder captures the status code written by downstream handlers so
// HTTPMetrics can label requests with it.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.status = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	// An implicit 200 if the handler writes without calling WriteHeader.
	sr.written = true
	return sr.ResponseWriter.Write(b)
}

// Unwrap exposes the wrapped writer so http.ResponseController can reach
// optional interfaces on it.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// Flush forwards to the underlying writer when it supports streaming. The SSE
// transport needs this to push events through the middleware chain.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// HTTPMetrics records a counter and a duration histogram per request, labeled
// by method, normalized path, and status code. A nil or disabled provider
// turns the middleware into a passthrough.
func HTTPMetrics(provider *instrumentation.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if provider == nil || !provider.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder := newStatusRecorder(w)
			next.ServeHTTP(recorder, r)

			provider.Metrics().RecordHTTPRequest(
				r.Context(),
				r.Method,
				normalizePath(r.URL.Path),
				recorder.status,
				time.Since(start),
			)
		})
	}
}

var (
	mcpSessionPath = regexp.MustCompile(`^/mcp/[a-zA-Z0-9_-]{8,64}$`)
	uuidSegment    = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	numericSegment = regexp.MustCompile(`/\d+(/|$)`)
)

// normalizePath collapses per-session and per-resource path segments into
// placeholders so the path label stays low-cardinality. Streamable HTTP
// session paths, UUIDs, and numeric IDs are the variable segments the server
// can see.
func normalizePath(path string) string {
	if mcpSessionPath.MatchString(path) {
		return "/mcp/:session"
	}
	path = uuidSegment.ReplaceAllString(path, ":uuid")
	path = numericSegment.ReplaceAllString(path, "/:id$1")
	return path
}
