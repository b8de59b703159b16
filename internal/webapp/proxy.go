package webapp

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/smartflow-systems/SFS-Backend/internal/logger"
)

// newDevProxy forwards unmatched requests to the front-end dev server so
// source files are transformed live with hot reload.
func newDevProxy(target string, log *slog.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("webapp: dev server URL %q: %w", target, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("webapp: dev server URL %q must be absolute", target)
	}

	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.ErrorContext(r.Context(), "dev server unreachable",
			logger.Component("webapp"),
			logger.Path(r.URL.Path),
			logger.Error(err))
		http.Error(w, "dev server unreachable", http.StatusBadGateway)
	}

	return proxy, nil
}
