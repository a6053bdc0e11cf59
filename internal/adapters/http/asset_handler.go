package http

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/3-lines-studio/mfeshell/internal/adapters/fs"
	"github.com/3-lines-studio/mfeshell/internal/core"
)

// AssetHandler serves the built client (shell.wasm, wasm_exec.js and any
// static files) below prefix.
type AssetHandler struct {
	files  fs.FileSystem
	prefix string
	isDev  bool
}

func NewAssetHandler(files fs.FileSystem, prefix string, isDev bool) http.Handler {
	return &AssetHandler{
		files:  files,
		prefix: prefix,
		isDev:  isDev,
	}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, h.prefix)
	path = strings.TrimPrefix(path, "/")
	if path == "" || !h.files.FileExists(path) {
		http.NotFound(w, req)
		return
	}

	data, err := h.files.ReadFile(path)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", core.AssetContentType(path))
	w.Header().Set("ETag", core.ContentETag(data))
	if h.isDev {
		w.Header().Set("Cache-Control", "no-cache")
	}
	http.ServeContent(w, req, path, time.Time{}, bytes.NewReader(data))
}
