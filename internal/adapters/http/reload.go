package http

import (
	"net/http"
	"strings"
	"sync"
)

const ReloadPath = "/__mfeshell/reload"

const reloadScript = `<script id="__mfeshell_reload">(() => {
  const events = new EventSource("` + ReloadPath + `");
  events.addEventListener("reload", () => window.location.reload());
})();</script>`

// Reload fans reload events out to every connected page over SSE.
type Reload struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func NewReload() *Reload {
	return &Reload{
		subs: map[chan struct{}]struct{}{},
		done: make(chan struct{}),
	}
}

// Close ends every open stream so the server can shut down.
func (h *Reload) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Reload) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Reload) unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}

// Notify never blocks; a subscriber with a pending event keeps just one.
func (h *Reload) Notify() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *Reload) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Reload) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	_, _ = w.Write([]byte("event: ready\ndata: 1\n\n"))
	flusher.Flush()

	for {
		select {
		case <-req.Context().Done():
			return
		case <-h.done:
			return
		case <-ch:
			_, _ = w.Write([]byte("event: reload\ndata: 1\n\n"))
			flusher.Flush()
		}
	}
}

func AppendReloadScript(html string) string {
	if strings.Contains(html, "__mfeshell_reload") {
		return html
	}

	if strings.Contains(html, "</body>") {
		return strings.Replace(html, "</body>", reloadScript+"</body>", 1)
	}

	return html + reloadScript
}
