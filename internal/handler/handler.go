// Package handler defines the request-handling function type and the
// adapter that bridges it onto net/http. Handlers signal failures upward by
// returning an error; the adapter is the single place that converts any
// failure into a client-facing JSON envelope.
package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/smartflow-systems/SFS-Backend/internal/logger"
	"github.com/smartflow-systems/SFS-Backend/internal/response"
)

// Func is an HTTP handler that reports failures instead of writing them.
type Func func(w http.ResponseWriter, r *http.Request) error

// Middleware wraps a Func with cross-cutting behavior.
type Middleware func(next Func) Func

// Chain applies middlewares to fn, first middleware outermost.
func Chain(fn Func, mws ...Middleware) Func {
	for i := len(mws) - 1; i >= 0; i-- {
		fn = mws[i](fn)
	}
	return fn
}

// panicError carries a recovered panic value with its stack trace.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Adapter converts Funcs into http.HandlerFuncs, normalizing every returned
// error (or recovered panic) into exactly one JSON error response, then
// logging the original error so no failure is silently swallowed.
type Adapter struct {
	log *slog.Logger
}

// NewAdapter creates an adapter. A nil logger discards normalizer output.
func NewAdapter(log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{log: log}
}

// Handle adapts fn for registration on a chi router.
func (a *Adapter) Handle(fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := response.NewWriter(w)

		defer func() {
			if p := recover(); p != nil {
				a.respond(ww, r, &panicError{value: p, stack: debug.Stack()})
			}
		}()

		if err := fn(ww, r); err != nil {
			a.respond(ww, r, err)
		}
	}
}

// respond sends the normalized envelope if the response is still unwritten,
// then logs the original failure. Responding and propagation are separate
// concerns: the client sees the envelope, the log sink sees the real error.
func (a *Adapter) respond(ww *response.Writer, r *http.Request, err error) {
	httpErr := response.ToHTTPError(err)

	if !ww.Written() {
		if werr := response.JSONWithStatus(ww, httpErr, httpErr.Status); werr != nil {
			a.log.ErrorContext(r.Context(), "failed to write error response",
				logger.Component("handler"), logger.Error(werr))
		}
	}

	level := slog.LevelWarn
	attrs := []slog.Attr{
		logger.Component("handler"),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.StatusCode(httpErr.Status),
		logger.RequestID(middleware.GetReqID(r.Context())),
		logger.Error(err),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		level = slog.LevelError
		if pe, ok := err.(*panicError); ok {
			attrs = append(attrs, slog.String("stack", string(pe.stack)))
		}
	}

	a.log.LogAttrs(r.Context(), level, "request failed", attrs...)
}
