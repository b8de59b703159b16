package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety, so callers
// can write log.Info("msg", logger.Error(err)) without explicit nil checks.

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component names the subsystem emitting the log line.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration creates an attribute for an elapsed duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Method creates an attribute for an HTTP method.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for a URL path.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// StatusCode creates an attribute for an HTTP status code.
func StatusCode(code int) slog.Attr {
	return slog.Int("status", code)
}

// RequestID creates an attribute for an HTTP request ID.
// Returns an empty Attr when the ID is empty.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}
