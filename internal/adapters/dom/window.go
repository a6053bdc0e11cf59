package dom

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/3-lines-studio/mfeshell/internal/usecase"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Modifiers struct {
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Window simulates location, the history stack and event dispatch for a
// Document.
type Window struct {
	doc *Document

	mu        sync.Mutex
	entries   []historyEntry
	index     int
	clicks    map[int]func(usecase.ClickEvent)
	pops      map[int]func(string)
	nextID    int
	fullLoads []string
}

type historyEntry struct {
	url *url.URL
	// state is the path pushed with the entry; empty for the initial load.
	state string
}

func NewWindow(doc *Document, rawURL string) (*Window, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid window url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("window url must be absolute: %s", rawURL)
	}
	return &Window{
		doc:     doc,
		entries: []historyEntry{{url: u}},
		clicks:  make(map[int]func(usecase.ClickEvent)),
		pops:    make(map[int]func(string)),
	}, nil
}

func (w *Window) Location() *url.URL {
	w.mu.Lock()
	defer w.mu.Unlock()
	u := *w.entries[w.index].url
	return &u
}

// State returns the state payload of the current history entry.
func (w *Window) State() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries[w.index].state
}

func (w *Window) PushState(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ref, err := url.Parse(path)
	if err != nil {
		return
	}
	next := w.entries[w.index].url.ResolveReference(ref)
	w.entries = append(w.entries[:w.index+1], historyEntry{url: next, state: path})
	w.index++
}

func (w *Window) OnClick(fn func(usecase.ClickEvent)) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.clicks[id] = fn
	return func() {
		w.mu.Lock()
		delete(w.clicks, id)
		w.mu.Unlock()
	}, nil
}

func (w *Window) OnPopState(fn func(string)) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.pops[id] = fn
	return func() {
		w.mu.Lock()
		delete(w.pops, id)
		w.mu.Unlock()
	}, nil
}

// Click dispatches a click on the element with the given id. It reports
// whether a listener prevented the default action; an unprevented click on
// a link that would replace the page is recorded as a full page load.
func (w *Window) Click(id string, mods Modifiers) bool {
	w.doc.mu.Lock()
	target := w.doc.byID(id)
	var link *html.Node
	if target != nil {
		link = closestLink(target)
	}
	click := core.LinkClick{Ctrl: mods.Ctrl, Meta: mods.Meta, Shift: mods.Shift}
	if link != nil {
		click.HasLink = true
		click.Href = attr(link, "href")
		click.Target = attr(link, "target")
	}
	w.doc.mu.Unlock()

	return w.dispatchClick(click)
}

// ClickHref dispatches a click on a detached link.
func (w *Window) ClickHref(href, target string, mods Modifiers) bool {
	return w.dispatchClick(core.LinkClick{
		HasLink: true,
		Href:    href,
		Target:  target,
		Ctrl:    mods.Ctrl,
		Meta:    mods.Meta,
		Shift:   mods.Shift,
	})
}

func (w *Window) dispatchClick(click core.LinkClick) bool {
	prevented := false
	ev := usecase.ClickEvent{
		LinkClick:      click,
		PreventDefault: func() { prevented = true },
	}

	for _, fn := range w.clickHandlers() {
		fn(ev)
	}

	newTab := click.Target == "_blank" || click.Ctrl || click.Meta || click.Shift
	if !prevented && click.HasLink && click.Href != "" && !newTab {
		w.mu.Lock()
		w.fullLoads = append(w.fullLoads, click.Href)
		w.mu.Unlock()
	}
	return prevented
}

func (w *Window) Back() bool {
	return w.Go(-1)
}

func (w *Window) Forward() bool {
	return w.Go(1)
}

// Go moves through history by delta entries and fires popstate.
func (w *Window) Go(delta int) bool {
	w.mu.Lock()
	next := w.index + delta
	if next < 0 || next >= len(w.entries) || delta == 0 {
		w.mu.Unlock()
		return false
	}
	w.index = next
	path := core.PathOf(w.entries[next].url)
	handlers := make([]func(string), 0, len(w.pops))
	for _, fn := range w.pops {
		handlers = append(handlers, fn)
	}
	w.mu.Unlock()

	for _, fn := range handlers {
		fn(path)
	}
	return true
}

func (w *Window) HistoryLen() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// FullLoads lists hrefs the browser would have navigated to natively.
func (w *Window) FullLoads() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.fullLoads...)
}

func (w *Window) clickHandlers() []func(usecase.ClickEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	handlers := make([]func(usecase.ClickEvent), 0, len(w.clicks))
	for _, fn := range w.clicks {
		handlers = append(handlers, fn)
	}
	return handlers
}

func closestLink(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			return n
		}
	}
	return nil
}
