package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/3-lines-studio/mfeshell/internal/adapters/dom"
	"github.com/3-lines-studio/mfeshell/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	mu    sync.Mutex
	paths []string
	loc   usecase.Location
}

func (h *countingHandler) HandleRouteChange(ctx context.Context) usecase.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	path := h.loc.Location().Path
	h.paths = append(h.paths, path)
	return usecase.Outcome{Path: path}
}

func (h *countingHandler) Paths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}

func newInterceptorFixture(t *testing.T) (*dom.Window, *countingHandler, *usecase.Interceptor) {
	t.Helper()
	doc, err := dom.Parse(`<html><body><a id="mfe1" href="/mfe1">MFE1</a><div id="content"></div></body></html>`)
	require.NoError(t, err)
	window, err := dom.NewWindow(doc, origin+"/")
	require.NoError(t, err)

	handler := &countingHandler{loc: window}
	interceptor := usecase.NewInterceptor(window, handler, nil)
	t.Cleanup(interceptor.Close)
	return window, handler, interceptor
}

func TestInterceptorInitialize(t *testing.T) {
	_, handler, interceptor := newInterceptorFixture(t)

	require.NoError(t, interceptor.Initialize(context.Background()))
	require.NoError(t, interceptor.Initialize(context.Background()))
	interceptor.Wait()

	assert.Equal(t, []string{"/"}, handler.Paths(), "initial location dispatched once")
}

func TestInterceptorClicks(t *testing.T) {
	tests := []struct {
		name        string
		href        string
		target      string
		mods        dom.Modifiers
		prevented   bool
		historyLen  int
		state       string
		dispatched  []string
		fullLoadLen int
	}{
		{name: "same origin link", href: "/mfe1", prevented: true, historyLen: 2, state: "/mfe1", dispatched: []string{"/", "/mfe1"}},
		{name: "absolute same origin link", href: origin + "/mfe2", prevented: true, historyLen: 2, state: "/mfe2", dispatched: []string{"/", "/mfe2"}},
		{name: "link to current path", href: "/", prevented: true, historyLen: 1, dispatched: []string{"/", "/"}},
		{name: "ctrl click", href: "/mfe1", mods: dom.Modifiers{Ctrl: true}, historyLen: 1, dispatched: []string{"/"}},
		{name: "meta click", href: "/mfe1", mods: dom.Modifiers{Meta: true}, historyLen: 1, dispatched: []string{"/"}},
		{name: "shift click", href: "/mfe1", mods: dom.Modifiers{Shift: true}, historyLen: 1, dispatched: []string{"/"}},
		{name: "new tab", href: "/mfe1", target: "_blank", historyLen: 1, dispatched: []string{"/"}},
		{name: "cross origin", href: "https://example.com/", historyLen: 1, dispatched: []string{"/"}, fullLoadLen: 1},
		{name: "other port", href: "http://localhost:4202/remoteEntry.json", historyLen: 1, dispatched: []string{"/"}, fullLoadLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, handler, interceptor := newInterceptorFixture(t)
			require.NoError(t, interceptor.Initialize(context.Background()))
			interceptor.Wait()

			prevented := window.ClickHref(tt.href, tt.target, tt.mods)
			interceptor.Wait()

			assert.Equal(t, tt.prevented, prevented)
			assert.Equal(t, tt.historyLen, window.HistoryLen())
			assert.Equal(t, tt.state, window.State(), "history state carries the pushed path")
			assert.ElementsMatch(t, tt.dispatched, handler.Paths())
			assert.Len(t, window.FullLoads(), tt.fullLoadLen)
		})
	}
}

func TestInterceptorPopState(t *testing.T) {
	window, handler, interceptor := newInterceptorFixture(t)
	require.NoError(t, interceptor.Initialize(context.Background()))
	interceptor.Wait()

	assert.True(t, window.Click("mfe1", dom.Modifiers{}))
	interceptor.Wait()
	assert.Equal(t, "/mfe1", window.State())

	require.True(t, window.Back())
	interceptor.Wait()

	assert.Equal(t, "/", window.Location().Path)
	assert.Empty(t, window.State(), "initial entry has no pushed state")

	require.True(t, window.Forward())
	interceptor.Wait()

	assert.Equal(t, "/mfe1", window.State())
	assert.ElementsMatch(t, []string{"/", "/mfe1", "/", "/mfe1"}, handler.Paths())
}

func TestInterceptorClose(t *testing.T) {
	window, handler, interceptor := newInterceptorFixture(t)
	require.NoError(t, interceptor.Initialize(context.Background()))
	interceptor.Close()

	assert.False(t, window.ClickHref("/mfe1", "", dom.Modifiers{}), "listener removed")
	window.PushState("/mfe1")
	window.Back()

	assert.Len(t, handler.Paths(), 1)
}
