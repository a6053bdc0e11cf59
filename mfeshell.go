// Package mfeshell serves the host page of a micro-frontend shell: the
// navigation, the mount point and the wasm client that routes between
// script-backed and federated micro-frontends.
package mfeshell

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"net/http"
	"sync"

	"github.com/3-lines-studio/mfeshell/internal/adapters/federation"
	"github.com/3-lines-studio/mfeshell/internal/adapters/fs"
	mhttp "github.com/3-lines-studio/mfeshell/internal/adapters/http"
	"github.com/3-lines-studio/mfeshell/internal/build"
	"github.com/3-lines-studio/mfeshell/internal/config"
	"github.com/3-lines-studio/mfeshell/internal/core"
	"go.uber.org/zap"
)

type (
	Config           = config.Config
	RouteConfig      = config.RouteConfig
	ScriptConfig     = config.ScriptConfig
	FederationConfig = config.FederationConfig
)

var ErrNoAssets = errors.New("mfeshell: no client assets configured")

type Option func(*App)

// WithAssets serves the built client from fsys, usually an embed.FS, rooted
// at dir.
func WithAssets(fsys iofs.FS, dir string) Option {
	return func(a *App) {
		assets, err := fs.NewEmbedFileSystem(fsys, dir)
		if err != nil {
			a.optErr = err
			return
		}
		a.assets = assets
	}
}

// WithAssetDir serves the built client from a directory on disk.
func WithAssetDir(dir string) Option {
	return func(a *App) {
		a.assets = fs.NewOSFileSystem(dir)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

func WithMetrics(metrics *mhttp.Metrics) Option {
	return func(a *App) {
		a.metrics = metrics
	}
}

type App struct {
	mu  sync.RWMutex
	cfg Config

	assets  fs.FileSystem
	metrics *mhttp.Metrics
	reload  *mhttp.Reload
	logger  *zap.Logger
	optErr  error
}

type router interface {
	http.Handler
	Handle(pattern string, handler http.Handler)
}

// New checks the route table and prepares the host server. Without an asset
// option the client is served from cfg.DistDir.
func New(cfg Config, opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}
	if app.optErr != nil {
		return nil, app.optErr
	}
	if app.logger == nil {
		app.logger = zap.NewNop()
	}
	if app.assets == nil {
		if cfg.DistDir == "" {
			return nil, ErrNoAssets
		}
		app.assets = fs.NewOSFileSystem(cfg.DistDir)
	}
	if app.metrics == nil {
		app.metrics = mhttp.NewMetrics()
	}
	if cfg.Dev {
		app.reload = mhttp.NewReload()
	}

	if err := app.check(cfg); err != nil {
		return nil, err
	}
	app.cfg = cfg

	return app, nil
}

// check rejects tables that cannot be built and logs entries that will fail
// when navigated to.
func (a *App) check(cfg Config) error {
	if _, err := cfg.RouteTable(nil); err != nil {
		return err
	}
	if err := federation.Manifest(cfg.Remotes).Validate(); err != nil {
		return err
	}
	for _, err := range cfg.Validate(nil) {
		a.logger.Warn("route will fail to render", zap.Error(err))
	}
	return nil
}

func (a *App) Config() Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// SetConfig swaps the served configuration and, in dev mode, tells connected
// pages to reload. The route table must build; otherwise the current
// configuration stays.
func (a *App) SetConfig(cfg Config) error {
	if err := a.check(cfg); err != nil {
		return fmt.Errorf("config rejected: %w", err)
	}

	a.mu.Lock()
	cfg.Dev = a.cfg.Dev
	a.cfg = cfg
	a.mu.Unlock()

	a.logger.Info("config updated", zap.Int("routes", len(cfg.Routes)))
	a.NotifyReload()
	return nil
}

// NotifyReload asks pages opened in dev mode to reload.
func (a *App) NotifyReload() {
	if a.reload == nil {
		return
	}
	a.reload.Notify()
	a.metrics.ReloadPublished()
}

func (a *App) Metrics() *mhttp.Metrics {
	return a.metrics
}

// notFounder is implemented by routers such as chi whose "/" pattern only
// matches the root.
type notFounder interface {
	NotFound(h http.HandlerFunc)
}

// Wrap mounts the shell on api, which keeps its own routes; the shell takes
// every path api leaves unclaimed.
func (a *App) Wrap(api router) http.Handler {
	if api == nil {
		panic("mfeshell: nil router passed to Wrap; use app.Handler()")
	}

	shell := a.router()
	if nf, ok := api.(notFounder); ok {
		nf.NotFound(shell.ServeHTTP)
		return api
	}
	api.Handle("/", shell)
	return api
}

func (a *App) Handler() http.Handler {
	return a.router()
}

// Stop closes open reload streams.
func (a *App) Stop() error {
	if a.reload != nil {
		a.reload.Close()
	}
	return nil
}

func (a *App) router() http.Handler {
	isDev := a.Config().Dev

	return mhttp.NewRouter(mhttp.RouterOptions{
		Page:     a.page,
		Manifest: a.manifest,
		Assets:   a.assets,
		Reload:   a.reload,
		Metrics:  a.metrics,
		IsDev:    isDev,
		Logger:   a.logger,
	})
}

func (a *App) page(req *http.Request) (core.HostPage, error) {
	cfg := a.Config()
	return core.HostPage{
		Title:        cfg.Title,
		MountID:      cfg.Mount,
		Links:        cfg.NavLinks(),
		ClientConfig: cfg.Client(),
		WasmExecSrc:  mhttp.AssetPrefix + build.WasmExecFile,
		WasmSrc:      mhttp.AssetPrefix + build.WasmFile,
	}, nil
}

func (a *App) manifest() federation.Manifest {
	return federation.Manifest(a.Config().Remotes)
}

func Inline(path, label, name string) RouteConfig {
	return RouteConfig{Path: path, Label: label, Inline: name}
}

func Script(path, label, scriptURL, element string) RouteConfig {
	return RouteConfig{
		Path:   path,
		Label:  label,
		Script: &ScriptConfig{URL: scriptURL, Element: element},
	}
}

func Federated(path, label, remote, module, element string) RouteConfig {
	return RouteConfig{
		Path:  path,
		Label: label,
		Federation: &FederationConfig{
			Remote:  remote,
			Module:  module,
			Element: element,
		},
	}
}
