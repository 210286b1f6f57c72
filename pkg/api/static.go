package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/platemap/pkg/errors"
)

// fileServer serves files from dir without directory listings.
func fileServer(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			writeError(w, errors.New(errors.ErrCodeNotFound, "Not found"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}

// spaHandler serves the built web client. Paths that are not files fall
// back to index.html so client-side routes survive a reload.
func spaHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeError(w, errors.New(errors.ErrCodeNotFound, "Not found: %s", r.URL.Path))
			return
		}
		clean := path.Clean("/" + r.URL.Path)
		if clean != "/" {
			if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean))); err == nil && !info.IsDir() {
				fs.ServeHTTP(w, r)
				return
			}
		}
		if _, err := os.Stat(index); err != nil {
			writeError(w, errors.New(errors.ErrCodeNotFound, "Not found: %s", r.URL.Path))
			return
		}
		http.ServeFile(w, r, index)
	}
}
