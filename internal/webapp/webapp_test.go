package webapp_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartflow-systems/SFS-Backend/internal/webapp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeBundle(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	return dir
}

func TestNewUnknownMode(t *testing.T) {
	t.Parallel()

	_, err := webapp.New("staging", webapp.Config{}, discardLogger())
	assert.Error(t, err)
}

func TestProductionSPA(t *testing.T) {
	t.Parallel()

	t.Run("missing bundle directory fails at construction", func(t *testing.T) {
		t.Parallel()

		cfg := webapp.Config{StaticDir: filepath.Join(t.TempDir(), "nope"), IndexFile: "index.html"}
		_, err := webapp.New(webapp.ModeProduction, cfg, discardLogger())
		assert.Error(t, err)
	})

	t.Run("missing index file fails at construction", func(t *testing.T) {
		t.Parallel()

		cfg := webapp.Config{StaticDir: t.TempDir(), IndexFile: "index.html"}
		_, err := webapp.New(webapp.ModeProduction, cfg, discardLogger())
		assert.Error(t, err)
	})

	t.Run("serves exact files", func(t *testing.T) {
		t.Parallel()

		cfg := webapp.Config{StaticDir: writeBundle(t), IndexFile: "index.html"}
		h, err := webapp.New(webapp.ModeProduction, cfg, discardLogger())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "console.log(1)", w.Body.String())
	})

	t.Run("unknown paths get the index document", func(t *testing.T) {
		t.Parallel()

		cfg := webapp.Config{StaticDir: writeBundle(t), IndexFile: "index.html"}
		h, err := webapp.New(webapp.ModeProduction, cfg, discardLogger())
		require.NoError(t, err)

		for _, p := range []string{"/", "/settings", "/deeply/nested/route"} {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))

			assert.Equal(t, http.StatusOK, w.Code, p)
			assert.Equal(t, "<html>app</html>", w.Body.String(), p)
		}
	})

	t.Run("path traversal stays inside the bundle", func(t *testing.T) {
		t.Parallel()

		cfg := webapp.Config{StaticDir: writeBundle(t), IndexFile: "index.html"}
		h, err := webapp.New(webapp.ModeProduction, cfg, discardLogger())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/x", nil)
		r.URL.Path = "/../../etc/passwd"
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<html>app</html>", w.Body.String())
	})
}

func TestDevelopmentProxy(t *testing.T) {
	t.Parallel()

	t.Run("invalid dev server URL fails at construction", func(t *testing.T) {
		t.Parallel()

		for _, target := range []string{"", "localhost:5173", "://bad"} {
			cfg := webapp.Config{DevServerURL: target}
			_, err := webapp.New(webapp.ModeDevelopment, cfg, discardLogger())
			assert.Error(t, err, target)
		}
	})

	t.Run("forwards requests to the dev server", func(t *testing.T) {
		t.Parallel()

		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "dev:"+r.URL.Path)
		}))
		t.Cleanup(backend.Close)

		h, err := webapp.New(webapp.ModeDevelopment, webapp.Config{DevServerURL: backend.URL}, discardLogger())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/src/main.tsx", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dev:/src/main.tsx", w.Body.String())
	})

	t.Run("unreachable dev server is a bad gateway", func(t *testing.T) {
		t.Parallel()

		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		backend.Close()

		h, err := webapp.New(webapp.ModeDevelopment, webapp.Config{DevServerURL: backend.URL}, discardLogger())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
