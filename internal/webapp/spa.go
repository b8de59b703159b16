package webapp

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// spa serves a single-page application: exact files when they exist on
// disk, the index document for everything else so the client router can
// take over.
type spa struct {
	root      string
	indexPath string
}

// newSPA validates the bundle directory and index file up front; a missing
// bundle in production is a startup failure, not a per-request one.
func newSPA(root, indexFile string) (http.Handler, error) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("webapp: static root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("webapp: static root %q is not a directory", root)
	}

	indexPath := filepath.Join(root, indexFile)
	if _, err := os.Stat(indexPath); err != nil {
		return nil, fmt.Errorf("webapp: index file %q: %w", indexPath, err)
	}

	return &spa{root: root, indexPath: indexPath}, nil
}

func (s *spa) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	urlPath := path.Clean("/" + r.URL.Path)
	filePath := filepath.Join(s.root, filepath.FromSlash(urlPath))

	if info, err := os.Stat(filePath); err == nil && !info.IsDir() {
		http.ServeFile(w, r, filePath)
		return
	}

	// Client-side-routed path: hand it the entry document.
	http.ServeFile(w, r, s.indexPath)
}
