package core

import (
	"context"
	"fmt"
	"strings"
)

// Element is a constructed DOM element handed back by a loader.
type Element interface {
	TagName() string
}

// Mount is the single container the dispatcher renders into.
type Mount interface {
	Clear()
	SetHTML(markup string)
	Append(el Element)
}

type RenderFunc func(ctx context.Context, mount Mount) (Element, error)

// Strategy is implemented by Inline, ScriptBacked and FederationBacked only.
type Strategy interface {
	strategy()
	Kind() string
}

type Inline struct {
	Name   string
	Render RenderFunc
}

type ScriptBacked struct {
	ScriptURL   string
	ElementName string
}

type FederationBacked struct {
	RemoteName    string
	ExposedModule string
	ElementName   string
}

func (Inline) strategy()           {}
func (ScriptBacked) strategy()     {}
func (FederationBacked) strategy() {}

func (Inline) Kind() string           { return "inline" }
func (ScriptBacked) Kind() string     { return "script" }
func (FederationBacked) Kind() string { return "federation" }

type Route struct {
	Path     string
	Strategy Strategy
}

// Validate checks the strategy contents. It runs lazily, when the route is
// navigated to.
func (r Route) Validate() error {
	switch s := r.Strategy.(type) {
	case Inline:
		if s.Render == nil {
			return &ConfigurationError{Path: r.Path, Reason: "inline route has no render function"}
		}
	case ScriptBacked:
		if strings.TrimSpace(s.ScriptURL) == "" {
			return &ConfigurationError{Path: r.Path, Reason: "script route has no script url"}
		}
		if err := ValidateElementName(s.ElementName); err != nil {
			return &ConfigurationError{Path: r.Path, Reason: err.Error()}
		}
	case FederationBacked:
		if strings.TrimSpace(s.RemoteName) == "" {
			return &ConfigurationError{Path: r.Path, Reason: "federation route has no remote name"}
		}
		if strings.TrimSpace(s.ExposedModule) == "" {
			return &ConfigurationError{Path: r.Path, Reason: "federation route has no exposed module"}
		}
		if err := ValidateElementName(s.ElementName); err != nil {
			return &ConfigurationError{Path: r.Path, Reason: err.Error()}
		}
	case nil:
		return &ConfigurationError{Path: r.Path, Reason: "route has no loading strategy"}
	default:
		return &ConfigurationError{Path: r.Path, Reason: fmt.Sprintf("unsupported strategy %T", s)}
	}
	return nil
}

// RouteTable maps exact paths to routes. It is immutable once built.
type RouteTable struct {
	byPath map[string]Route
	order  []string
}

func NewRouteTable(routes ...Route) (*RouteTable, error) {
	t := &RouteTable{
		byPath: make(map[string]Route, len(routes)),
		order:  make([]string, 0, len(routes)),
	}

	for _, r := range routes {
		if err := ValidateRoutePath(r.Path); err != nil {
			return nil, &ConfigurationError{Path: r.Path, Reason: err.Error()}
		}
		if _, exists := t.byPath[r.Path]; exists {
			return nil, &ConfigurationError{Path: r.Path, Reason: "duplicate route"}
		}
		t.byPath[r.Path] = r
		t.order = append(t.order, r.Path)
	}

	return t, nil
}

func (t *RouteTable) Lookup(path string) (Route, bool) {
	if t == nil {
		return Route{}, false
	}
	r, ok := t.byPath[path]
	return r, ok
}

func (t *RouteTable) Routes() []Route {
	if t == nil {
		return nil
	}
	out := make([]Route, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.byPath[p])
	}
	return out
}

func (t *RouteTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

var reservedElementNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

func ValidateElementName(name string) error {
	if name == "" {
		return fmt.Errorf("element name cannot be empty")
	}

	if name[0] < 'a' || name[0] > 'z' {
		return fmt.Errorf("element name %q must start with a lowercase letter", name)
	}

	if !strings.Contains(name, "-") {
		return fmt.Errorf("element name %q must contain a hyphen", name)
	}

	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '.', c == '_':
		default:
			return fmt.Errorf("element name %q contains invalid character %q", name, c)
		}
	}

	if reservedElementNames[name] {
		return fmt.Errorf("element name %q is reserved", name)
	}

	return nil
}
