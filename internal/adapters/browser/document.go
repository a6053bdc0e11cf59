//go:build js && wasm

// Package browser binds the shell's document and window ports to the real
// browser through syscall/js.
package browser

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/3-lines-studio/mfeshell/internal/usecase"
)

type Element struct {
	value js.Value
}

func (e *Element) TagName() string {
	return strings.ToLower(e.value.Get("tagName").String())
}

type Mount struct {
	doc  js.Value
	node js.Value
}

func (m *Mount) Clear() {
	m.node.Set("innerHTML", "")
}

func (m *Mount) SetHTML(markup string) {
	m.node.Set("innerHTML", markup)
}

func (m *Mount) Append(el core.Element) {
	if e, ok := el.(*Element); ok {
		m.node.Call("appendChild", e.value)
		return
	}
	m.node.Call("appendChild", m.doc.Call("createElement", el.TagName()))
}

type Document struct {
	doc            js.Value
	customElements js.Value
}

func NewDocument() *Document {
	global := js.Global()
	return &Document{
		doc:            global.Get("document"),
		customElements: global.Get("customElements"),
	}
}

func (d *Document) MountPoint(id string) (core.Mount, error) {
	node := d.byID(id)
	if !present(node) {
		return nil, fmt.Errorf("no element with id %q", id)
	}
	return &Mount{doc: d.doc, node: node}, nil
}

func (d *Document) CreateElement(name string) (core.Element, error) {
	if err := core.ValidateElementName(name); err != nil {
		return nil, err
	}
	if !present(d.customElements) || !present(d.customElements.Call("get", name)) {
		return nil, fmt.Errorf("%w: <%s>", core.ErrElementUndefined, name)
	}
	return &Element{value: d.doc.Call("createElement", name)}, nil
}

func (d *Document) HasElementID(id string) bool {
	return present(d.byID(id))
}

func (d *Document) RemoveElementByID(id string) {
	if node := d.byID(id); present(node) {
		node.Call("remove")
	}
}

// InjectScript appends an async script to the body. done runs on its own
// goroutine because js callbacks must not block.
func (d *Document) InjectScript(req usecase.ScriptRequest, done func(error)) error {
	body := d.doc.Get("body")
	if !present(body) {
		return fmt.Errorf("document has no body")
	}

	script := d.doc.Call("createElement", "script")
	script.Set("id", req.ID)
	script.Set("src", req.URL)
	script.Set("type", "text/javascript")
	script.Set("async", true)
	script.Get("dataset").Set("requestId", req.RequestID)

	var onLoad, onError js.Func
	release := func() {
		script.Call("removeEventListener", "load", onLoad)
		script.Call("removeEventListener", "error", onError)
		onLoad.Release()
		onError.Release()
	}
	onLoad = js.FuncOf(func(this js.Value, args []js.Value) any {
		release()
		go done(nil)
		return nil
	})
	onError = js.FuncOf(func(this js.Value, args []js.Value) any {
		release()
		go done(fmt.Errorf("script %s failed to load", req.URL))
		return nil
	})

	script.Call("addEventListener", "load", onLoad)
	script.Call("addEventListener", "error", onError)
	body.Call("appendChild", script)
	return nil
}

func (d *Document) byID(id string) js.Value {
	return d.doc.Call("getElementById", id)
}

// ReadJSON returns the text content of the element with the given id,
// typically an application/json script block.
func (d *Document) ReadJSON(id string) ([]byte, error) {
	node := d.byID(id)
	if !present(node) {
		return nil, fmt.Errorf("no element with id %q", id)
	}
	return []byte(node.Get("textContent").String()), nil
}

func present(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}
