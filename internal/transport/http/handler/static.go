package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves the built SPA: the requested file when it exists
// under the asset root, otherwise the root index document so client-side
// routing keeps working on deep links.
type StaticHandler struct {
	root string
}

func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

func (h *StaticHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	if rel != "" && rel != "." {
		path := filepath.Join(h.root, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
	}
	http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
}
