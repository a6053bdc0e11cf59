package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"go.uber.org/zap"
)

type Outcome struct {
	Path    string
	Phase   core.Phase
	Element core.Element
	Err     error
	// Stale is set when a newer navigation started before this one settled;
	// its result was discarded.
	Stale bool
}

type Dispatcher struct {
	routes    *core.RouteTable
	mount     core.Mount
	location  Location
	scripts   ScriptElementLoader
	federated FederatedElementLoader
	logger    *zap.Logger

	tokens core.NavigationTokens
	mu     sync.Mutex
	cancel context.CancelFunc
}

type DispatcherDeps struct {
	Routes    *core.RouteTable
	Mount     core.Mount
	Location  Location
	Scripts   ScriptElementLoader
	Federated FederatedElementLoader
	Logger    *zap.Logger
}

func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		routes:    deps.Routes,
		mount:     deps.Mount,
		location:  deps.Location,
		scripts:   deps.Scripts,
		federated: deps.Federated,
		logger:    logger,
	}
}

// HandleRouteChange renders the route for the current location. Failures
// are rendered into the mount point and reported in the outcome, never
// returned.
func (d *Dispatcher) HandleRouteChange(ctx context.Context) Outcome {
	ctx, token := d.begin(ctx)
	mount := &tokenMount{d: d, token: token}

	path := core.PathOf(d.location.Location())
	d.logger.Info("routing", zap.String("path", path))

	mount.Clear()

	route, ok := d.routes.Lookup(path)
	if !ok {
		d.logger.Warn("no route defined", zap.String("path", path))
		mount.SetHTML(core.NotFoundView())
		return d.finish(token, Outcome{
			Path:  path,
			Phase: core.PhaseNotFound,
			Err:   &core.RouteNotFoundError{Path: path},
		})
	}

	if err := route.Validate(); err != nil {
		return d.fail(mount, token, path, err)
	}

	var (
		el  core.Element
		err error
	)

	switch s := route.Strategy.(type) {
	case core.Inline:
		el, err = s.Render(ctx, mount)
	case core.ScriptBacked:
		mount.SetHTML(core.LoadingScriptView(s.ScriptURL))
		el, err = d.loadScript(ctx, s)
	case core.FederationBacked:
		mount.SetHTML(core.LoadingFederatedView(s.RemoteName, s.ExposedModule))
		el, err = d.loadFederated(ctx, s)
	default:
		err = &core.ConfigurationError{Path: path, Reason: fmt.Sprintf("unsupported strategy %T", s)}
	}

	if err != nil {
		return d.fail(mount, token, path, err)
	}

	if el == nil {
		d.logger.Debug("route handler completed without an element", zap.String("path", path))
		return d.finish(token, Outcome{Path: path, Phase: core.PhaseRendered})
	}

	if mount.replace(el) {
		d.logger.Info("element appended", zap.String("path", path), zap.String("tag", el.TagName()))
	}
	return d.finish(token, Outcome{Path: path, Phase: core.PhaseRendered, Element: el})
}

func (d *Dispatcher) loadScript(ctx context.Context, s core.ScriptBacked) (core.Element, error) {
	if d.scripts == nil {
		return nil, &core.ScriptLoadError{ScriptURL: s.ScriptURL, Err: fmt.Errorf("no script loader configured")}
	}
	return d.scripts.Load(ctx, s.ScriptURL, s.ElementName)
}

func (d *Dispatcher) loadFederated(ctx context.Context, s core.FederationBacked) (core.Element, error) {
	if d.federated == nil {
		return nil, &core.RemoteResolutionError{
			RemoteName:    s.RemoteName,
			ExposedModule: s.ExposedModule,
			ElementName:   s.ElementName,
			Err:           fmt.Errorf("no federated loader configured"),
		}
	}
	return d.federated.Load(ctx, s.RemoteName, s.ExposedModule, s.ElementName)
}

func (d *Dispatcher) begin(ctx context.Context) (context.Context, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	return ctx, d.tokens.Next()
}

func (d *Dispatcher) fail(mount *tokenMount, token uint64, path string, err error) Outcome {
	d.logger.Error("error loading content", zap.String("path", path), zap.Error(err))
	mount.SetHTML(core.ErrorView(path, err))
	return d.finish(token, Outcome{Path: path, Phase: core.PhaseErrored, Err: err})
}

func (d *Dispatcher) finish(token uint64, out Outcome) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.tokens.Current(token) {
		out.Stale = true
		d.logger.Debug("discarding stale navigation", zap.String("path", out.Path))
		return out
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	return out
}

// tokenMount drops every mutation once a newer navigation has started.
type tokenMount struct {
	d     *Dispatcher
	token uint64
}

func (m *tokenMount) apply(fn func()) bool {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	if !m.d.tokens.Current(m.token) {
		return false
	}
	fn()
	return true
}

func (m *tokenMount) Clear() {
	m.apply(m.d.mount.Clear)
}

func (m *tokenMount) SetHTML(markup string) {
	m.apply(func() { m.d.mount.SetHTML(markup) })
}

func (m *tokenMount) Append(el core.Element) {
	m.apply(func() { m.d.mount.Append(el) })
}

func (m *tokenMount) replace(el core.Element) bool {
	return m.apply(func() {
		m.d.mount.Clear()
		m.d.mount.Append(el)
	})
}
