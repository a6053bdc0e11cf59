//go:build js && wasm

package browser

import (
	"net/url"
	"syscall/js"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/3-lines-studio/mfeshell/internal/usecase"
)

type Window struct {
	win js.Value
	doc js.Value
}

func NewWindow() *Window {
	global := js.Global()
	return &Window{
		win: global,
		doc: global.Get("document"),
	}
}

func (w *Window) Location() *url.URL {
	u, err := url.Parse(w.win.Get("location").Get("href").String())
	if err != nil {
		return &url.URL{Path: w.win.Get("location").Get("pathname").String()}
	}
	return u
}

// PushState records path as the entry's state so popstate handlers can
// read it back.
func (w *Window) PushState(path string) {
	state := js.ValueOf(map[string]any{"path": path})
	w.win.Get("history").Call("pushState", state, "", path)
}

// OnClick listens on the document, so clicks on links added later are seen
// too. fn runs synchronously inside the listener, where preventDefault still
// has an effect.
func (w *Window) OnClick(fn func(usecase.ClickEvent)) (func(), error) {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		ev := args[0]
		fn(usecase.ClickEvent{
			LinkClick:      linkClick(ev),
			PreventDefault: func() { ev.Call("preventDefault") },
		})
		return nil
	})
	w.doc.Call("addEventListener", "click", listener)

	return func() {
		w.doc.Call("removeEventListener", "click", listener)
		listener.Release()
	}, nil
}

func (w *Window) OnPopState(fn func(path string)) (func(), error) {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		path := w.win.Get("location").Get("pathname").String()
		if len(args) > 0 {
			if state := args[0].Get("state"); present(state) && state.Get("path").Type() == js.TypeString {
				path = state.Get("path").String()
			}
		}
		fn(path)
		return nil
	})
	w.win.Call("addEventListener", "popstate", listener)

	return func() {
		w.win.Call("removeEventListener", "popstate", listener)
		listener.Release()
	}, nil
}

func linkClick(ev js.Value) core.LinkClick {
	click := core.LinkClick{
		Ctrl:  ev.Get("ctrlKey").Truthy(),
		Meta:  ev.Get("metaKey").Truthy(),
		Shift: ev.Get("shiftKey").Truthy(),
	}

	target := ev.Get("target")
	if !present(target) || target.Get("closest").Type() != js.TypeFunction {
		return click
	}
	link := target.Call("closest", "a")
	if !present(link) {
		return click
	}

	click.HasLink = true
	// SVG links expose href as an animated string; fall back to the
	// attribute and let the decision resolve it.
	if href := link.Get("href"); href.Type() == js.TypeString {
		click.Href = href.String()
	} else if attr := link.Call("getAttribute", "href"); present(attr) {
		click.Href = attr.String()
	}
	if t := link.Get("target"); t.Type() == js.TypeString {
		click.Target = t.String()
	}
	return click
}
