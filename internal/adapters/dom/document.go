// Package dom is an in-memory host document built on x/net/html nodes. It
// runs the shell without a browser: custom element definitions, script
// loading and module imports are simulated by behaviours registered per url.
package dom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/3-lines-studio/mfeshell/internal/usecase"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Behavior is the side effect of evaluating a script or module, typically
// one or more Define calls.
type Behavior func(d *Document) error

var ErrNotServed = errors.New("network error: resource not served")

const defaultPage = `<!doctype html><html><head></head><body><div id="content"></div></body></html>`

type Document struct {
	mu      sync.Mutex
	root    *html.Node
	body    *html.Node
	defined map[string]bool
	scripts map[string]Behavior
	modules map[string]Behavior

	insertions map[string]int
	imports    map[string]int

	pending sync.WaitGroup
}

func New() *Document {
	d, err := Parse(defaultPage)
	if err != nil {
		panic(fmt.Sprintf("dom: default page does not parse: %v", err))
	}
	return d
}

func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	body := findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	})
	if body == nil {
		return nil, fmt.Errorf("document has no body")
	}

	return &Document{
		root:       root,
		body:       body,
		defined:    make(map[string]bool),
		scripts:    make(map[string]Behavior),
		modules:    make(map[string]Behavior),
		insertions: make(map[string]int),
		imports:    make(map[string]int),
	}, nil
}

// Define registers a custom element name.
func (d *Document) Define(name string) {
	d.mu.Lock()
	d.defined[name] = true
	d.mu.Unlock()
}

func (d *Document) Defined(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.defined[name]
}

// ServeScript makes url loadable by a script tag; fn runs when it loads.
func (d *Document) ServeScript(url string, fn Behavior) {
	d.mu.Lock()
	d.scripts[url] = fn
	d.mu.Unlock()
}

// ServeModule makes url importable as an ES module; fn runs on import.
func (d *Document) ServeModule(url string, fn Behavior) {
	d.mu.Lock()
	d.modules[url] = fn
	d.mu.Unlock()
}

func (d *Document) MountPoint(id string) (core.Mount, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.byID(id)
	if n == nil {
		return nil, fmt.Errorf("no element with id %q", id)
	}
	return &Mount{doc: d, node: n}, nil
}

func (d *Document) CreateElement(name string) (core.Element, error) {
	if err := core.ValidateElementName(name); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defined := d.defined[name]
	d.mu.Unlock()

	if !defined {
		return nil, fmt.Errorf("%w: <%s>", core.ErrElementUndefined, name)
	}

	return &Element{node: &html.Node{
		Type: html.ElementNode,
		Data: name,
	}}, nil
}

func (d *Document) HasElementID(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byID(id) != nil
}

func (d *Document) InjectScript(req usecase.ScriptRequest, done func(error)) error {
	if req.URL == "" {
		return fmt.Errorf("script request has no url")
	}

	node := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr: []html.Attribute{
			{Key: "id", Val: req.ID},
			{Key: "src", Val: req.URL},
			{Key: "type", Val: "text/javascript"},
			{Key: "async", Val: ""},
			{Key: "data-request-id", Val: req.RequestID},
		},
	}

	d.mu.Lock()
	d.body.AppendChild(node)
	d.insertions[req.URL]++
	behavior, served := d.scripts[req.URL]
	d.mu.Unlock()

	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		if !served {
			done(fmt.Errorf("%w: %s", ErrNotServed, req.URL))
			return
		}
		done(run(d, behavior))
	}()

	return nil
}

func (d *Document) RemoveElementByID(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n := d.byID(id); n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Import evaluates the module served at url. It implements the federation
// importer port.
func (d *Document) Import(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	d.imports[url]++
	behavior, served := d.modules[url]
	d.mu.Unlock()

	if !served {
		return fmt.Errorf("failed to fetch dynamically imported module: %s: %w", url, ErrNotServed)
	}
	return run(d, behavior)
}

// Settle waits for in-flight script loads to finish.
func (d *Document) Settle() {
	d.pending.Wait()
}

func (d *Document) ScriptInsertions(url string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insertions[url]
}

func (d *Document) ModuleImports(url string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.imports[url]
}

// CountByID counts nodes carrying id, which a well-formed document keeps at
// one at most.
func (d *Document) CountByID(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			count++
		}
		return false
	})
	return count
}

// ElementByID returns a detached view of the element, for assertions.
func (d *Document) ElementByID(id string) (*Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.byID(id)
	if n == nil {
		return nil, false
	}
	return &Element{node: n}, true
}

func (d *Document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b strings.Builder
	_ = html.Render(&b, d.root)
	return b.String()
}

func (d *Document) byID(id string) *html.Node {
	return findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
}

func run(d *Document, behavior Behavior) error {
	if behavior == nil {
		return nil
	}
	return behavior(d)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// walk visits n and its descendants depth first until fn returns true.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if fn(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, fn) {
			return true
		}
	}
	return false
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if match(c) {
			found = c
			return true
		}
		return false
	})
	return found
}
