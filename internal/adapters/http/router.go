package http

import (
	"net/http"

	"github.com/3-lines-studio/mfeshell/internal/adapters/federation"
	"github.com/3-lines-studio/mfeshell/internal/adapters/fs"
	"go.uber.org/zap"
)

const (
	AssetPrefix  = "/dist/"
	ManifestPath = "/federation.manifest.json"
	HealthPath   = "/healthz"
	MetricsPath  = "/metrics"
)

type RouterOptions struct {
	Page     PageFunc
	Manifest func() federation.Manifest
	Assets   fs.FileSystem
	// Reload is nil outside dev mode.
	Reload  *Reload
	Metrics *Metrics
	IsDev   bool
	Logger  *zap.Logger
}

func NewRouter(opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	handle := func(pattern, route string, h http.Handler) {
		if opts.Metrics != nil {
			h = opts.Metrics.Instrument(route, h)
		}
		mux.Handle(pattern, h)
	}

	handle("GET "+HealthPath, "healthz", http.HandlerFunc(serveHealth))

	if opts.Metrics != nil {
		mux.Handle("GET "+MetricsPath, opts.Metrics.Handler())
	}

	if opts.Manifest != nil {
		handle("GET "+ManifestPath, "manifest", NewManifestHandler(opts.Manifest))
	}

	if opts.Assets != nil {
		handle(AssetPrefix, "assets", NewAssetHandler(opts.Assets, AssetPrefix, opts.IsDev))
	}

	if opts.Reload != nil {
		handle("GET "+ReloadPath, "reload", opts.Reload)
	}

	handle("/", "page", NewHostHandler(opts.Page, opts.IsDev, opts.Logger))

	return mux
}

func serveHealth(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
