package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/3-lines-studio/mfeshell/internal/adapters/dom"
	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/3-lines-studio/mfeshell/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLoader hands out elements from doc. When gate is set, Load blocks
// until it is closed and reports on started once it is waiting.
type stubLoader struct {
	doc     *dom.Document
	gate    chan struct{}
	started chan struct{}

	mu    sync.Mutex
	calls int
}

func (l *stubLoader) record() {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
}

func (l *stubLoader) wait(ctx context.Context) {
	if l.gate == nil {
		return
	}
	if l.started != nil {
		l.started <- struct{}{}
	}
	<-l.gate
}

func (l *stubLoader) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type stubScripts struct{ stubLoader }

func (l *stubScripts) Load(ctx context.Context, scriptURL, elementName string) (core.Element, error) {
	l.record()
	l.wait(ctx)
	l.doc.Define(elementName)
	return l.doc.CreateElement(elementName)
}

type stubFederated struct{ stubLoader }

func (l *stubFederated) Load(ctx context.Context, remoteName, exposedModule, elementName string) (core.Element, error) {
	l.record()
	l.wait(ctx)
	l.doc.Define(elementName)
	return l.doc.CreateElement(elementName)
}

type dispatcherFixture struct {
	doc       *dom.Document
	window    *dom.Window
	mount     *dom.Mount
	scripts   *stubScripts
	federated *stubFederated
	d         *usecase.Dispatcher
}

func newDispatcherFixture(t *testing.T, routes *core.RouteTable, path string) *dispatcherFixture {
	t.Helper()

	doc := dom.New()
	window, err := dom.NewWindow(doc, origin+path)
	require.NoError(t, err)
	mount, err := doc.MountPoint(core.DefaultMountID)
	require.NoError(t, err)

	f := &dispatcherFixture{
		doc:       doc,
		window:    window,
		mount:     mount.(*dom.Mount),
		scripts:   &stubScripts{stubLoader{doc: doc}},
		federated: &stubFederated{stubLoader{doc: doc}},
	}
	f.d = usecase.NewDispatcher(usecase.DispatcherDeps{
		Routes:    routes,
		Mount:     mount,
		Location:  window,
		Scripts:   f.scripts,
		Federated: f.federated,
	})
	return f
}

func TestDispatcherRoutes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		phase    core.Phase
		children []string
		contains string
	}{
		{name: "home", path: "/", phase: core.PhaseRendered, contains: "Welcome to the microfrontend shell!"},
		{name: "script route", path: "/mfe1", phase: core.PhaseRendered, children: []string{mfe1Tag}},
		{name: "federated route", path: "/mfe2", phase: core.PhaseRendered, children: []string{mfe2Tag}},
		{name: "unknown path", path: "/nope", phase: core.PhaseNotFound, contains: "404 Not Found"},
		{name: "trailing slash is a different path", path: "/mfe1/", phase: core.PhaseNotFound, contains: "404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDispatcherFixture(t, defaultRoutes(t), tt.path)

			out := f.d.HandleRouteChange(context.Background())

			assert.Equal(t, tt.phase, out.Phase)
			assert.Equal(t, tt.path, out.Path)
			assert.False(t, out.Stale)
			if tt.children != nil {
				assert.Equal(t, tt.children, f.mount.Children())
			}
			if tt.contains != "" {
				assert.Contains(t, f.mount.HTML(), tt.contains)
			}
		})
	}
}

func TestDispatcherNotFoundSkipsLoaders(t *testing.T) {
	f := newDispatcherFixture(t, defaultRoutes(t), "/missing")

	out := f.d.HandleRouteChange(context.Background())

	assert.Equal(t, core.PhaseNotFound, out.Phase)
	var notFound *core.RouteNotFoundError
	require.ErrorAs(t, out.Err, &notFound)
	assert.Equal(t, "/missing", notFound.Path)
	assert.Zero(t, f.scripts.Calls())
	assert.Zero(t, f.federated.Calls())
}

func TestDispatcherShowsLoadingPlaceholder(t *testing.T) {
	f := newDispatcherFixture(t, defaultRoutes(t), "/mfe1")
	f.scripts.gate = make(chan struct{})
	f.scripts.started = make(chan struct{}, 1)

	done := make(chan usecase.Outcome, 1)
	go func() { done <- f.d.HandleRouteChange(context.Background()) }()

	<-f.scripts.started
	assert.Equal(t, core.LoadingScriptView(mfe1Script), f.mount.HTML())

	close(f.scripts.gate)
	out := <-done
	assert.Equal(t, core.PhaseRendered, out.Phase)
	assert.Equal(t, []string{mfe1Tag}, f.mount.Children())
}

func TestDispatcherDiscardsStaleNavigation(t *testing.T) {
	f := newDispatcherFixture(t, defaultRoutes(t), "/mfe2")
	f.federated.gate = make(chan struct{})
	f.federated.started = make(chan struct{}, 1)

	slow := make(chan usecase.Outcome, 1)
	go func() { slow <- f.d.HandleRouteChange(context.Background()) }()
	<-f.federated.started

	f.window.PushState("/")
	fast := f.d.HandleRouteChange(context.Background())
	require.Equal(t, core.PhaseRendered, fast.Phase)

	close(f.federated.gate)
	out := <-slow

	assert.True(t, out.Stale)
	assert.False(t, fast.Stale)
	assert.Contains(t, f.mount.HTML(), "Welcome to the microfrontend shell!")
	assert.NotContains(t, f.mount.Children(), mfe2Tag, "stale element must not be appended")
}

func TestDispatcherConfigurationError(t *testing.T) {
	routes, err := core.NewRouteTable(
		core.Route{Path: "/broken", Strategy: core.ScriptBacked{ElementName: mfe1Tag}},
	)
	require.NoError(t, err)
	f := newDispatcherFixture(t, routes, "/broken")

	out := f.d.HandleRouteChange(context.Background())

	var configErr *core.ConfigurationError
	require.ErrorAs(t, out.Err, &configErr)
	assert.Equal(t, core.PhaseErrored, out.Phase)
	assert.Zero(t, f.scripts.Calls())
	assert.Contains(t, f.mount.HTML(), "Error Loading Microfrontend")
	assert.Contains(t, f.mount.HTML(), "/broken")
}

func TestDispatcherRendersLoaderErrors(t *testing.T) {
	doc := dom.New()
	window, err := dom.NewWindow(doc, origin+"/mfe1")
	require.NoError(t, err)
	mount, err := doc.MountPoint(core.DefaultMountID)
	require.NoError(t, err)

	d := usecase.NewDispatcher(usecase.DispatcherDeps{
		Routes:   defaultRoutes(t),
		Mount:    mount,
		Location: window,
		Scripts:  usecase.NewScriptLoader(doc, nil, nil),
	})

	out := d.HandleRouteChange(context.Background())

	var loadErr *core.ScriptLoadError
	require.ErrorAs(t, out.Err, &loadErr)
	html := mount.(*dom.Mount).HTML()
	assert.Contains(t, html, "Failed to load content for /mfe1.")
	assert.Contains(t, html, "failed to load script: "+mfe1Script)

	window.PushState("/mfe2")
	out = d.HandleRouteChange(context.Background())

	var remoteErr *core.RemoteResolutionError
	assert.ErrorAs(t, out.Err, &remoteErr, "missing federated loader is a resolution failure")
}
