// Package middleware provides the request-lifecycle middleware: structured
// API request logging with response-body capture, and the session
// authentication guard for protected routes.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/smartflow-systems/SFS-Backend/internal/logger"
)

const (
	// apiPrefix scopes request logging to the API namespace; asset and
	// page requests produce no log entry.
	apiPrefix = "/api"

	// snapshotLimit is the hard cap, in characters, on the response body
	// snapshot attached to a log line.
	snapshotLimit = 80

	// captureLimit bounds the side-channel body buffer. 80 characters of
	// UTF-8 plus one to detect truncation never exceeds this.
	captureLimit = 4*snapshotLimit + 4
)

// RequestLogger emits one structured log line per completed API request:
// method, path, status, duration, and a truncated snapshot of the JSON
// response body. The real response streams through untouched; capture is a
// bounded side buffer, never a delay.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, apiPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(cw, r)

			duration := time.Since(start)

			level := slog.LevelInfo
			if cw.status >= http.StatusInternalServerError {
				level = slog.LevelError
			} else if cw.status >= http.StatusBadRequest {
				level = slog.LevelWarn
			}

			log.LogAttrs(r.Context(), level, "api request",
				logger.Component("http"),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.StatusCode(cw.status),
				logger.Duration(duration),
				logger.RequestID(chimw.GetReqID(r.Context())),
				slog.String("response", Snapshot(cw.body)),
			)
		})
	}
}

// Snapshot renders body for logging, truncated to snapshotLimit characters
// with an ellipsis marker when anything was cut.
func Snapshot(body []byte) string {
	s := strings.TrimRight(string(body), "\n")
	runes := []rune(s)
	if len(runes) <= snapshotLimit {
		return s
	}
	return string(runes[:snapshotLimit]) + "…"
}

// captureWriter tees response bytes into a bounded buffer while passing
// every write straight through to the client.
type captureWriter struct {
	http.ResponseWriter
	status  int
	written bool
	body    []byte
}

func (w *captureWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if room := captureLimit - len(w.body); room > 0 {
		if len(b) > room {
			w.body = append(w.body, b[:room]...)
		} else {
			w.body = append(w.body, b...)
		}
	}
	return w.ResponseWriter.Write(b)
}

// Flush keeps streaming responses unbuffered for the client.
func (w *captureWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
