package http

import (
	"net/http"
	"path"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"go.uber.org/zap"
)

// PageFunc describes the host page for a request.
type PageFunc func(req *http.Request) (core.HostPage, error)

// HostHandler serves the host page for every route path. Which paths exist
// is decided client side, so unknown paths get the page too and render the
// not-found view there.
type HostHandler struct {
	page   PageFunc
	isDev  bool
	logger *zap.Logger
}

func NewHostHandler(page PageFunc, isDev bool, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostHandler{
		page:   page,
		isDev:  isDev,
		logger: logger,
	}
}

func (h *HostHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	// Missing files are not routes.
	if path.Ext(req.URL.Path) != "" {
		http.NotFound(w, req)
		return
	}

	page, err := h.page(req)
	if err != nil {
		h.logger.Error("failed to build host page", zap.String("path", req.URL.Path), zap.Error(err))
		serveError(w, err, h.isDev)
		return
	}

	out, err := core.RenderHostPage(page)
	if err != nil {
		h.logger.Error("failed to render host page", zap.String("path", req.URL.Path), zap.Error(err))
		serveError(w, err, h.isDev)
		return
	}

	if h.isDev {
		out = AppendReloadScript(out)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodGet {
		_, _ = w.Write([]byte(out))
	}
}
