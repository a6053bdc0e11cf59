package config

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/3-lines-studio/mfeshell/internal/core"
)

// Inlines maps inline route names to their render functions.
type Inlines map[string]core.RenderFunc

// BuiltinInlines holds the pages every shell can reference by name.
func BuiltinInlines() Inlines {
	return Inlines{
		"home": func(ctx context.Context, mount core.Mount) (core.Element, error) {
			mount.SetHTML(core.HomeView())
			return nil, nil
		},
	}
}

// Strategy converts the entry. Entries declaring zero or several strategies
// are rejected; the contents of a single strategy are left for Validate.
func (r RouteConfig) Strategy(inlines Inlines) (core.Strategy, error) {
	declared := 0
	if r.Inline != "" {
		declared++
	}
	if r.Script != nil {
		declared++
	}
	if r.Federation != nil {
		declared++
	}

	switch {
	case declared == 0:
		return nil, &core.ConfigurationError{Path: r.Path, Reason: "route declares no loading strategy"}
	case declared > 1:
		return nil, &core.ConfigurationError{Path: r.Path, Reason: "route declares more than one loading strategy"}
	}

	switch {
	case r.Script != nil:
		return core.ScriptBacked{ScriptURL: r.Script.URL, ElementName: r.Script.Element}, nil
	case r.Federation != nil:
		return core.FederationBacked{
			RemoteName:    r.Federation.Remote,
			ExposedModule: r.Federation.Module,
			ElementName:   r.Federation.Element,
		}, nil
	default:
		// An unknown name yields an inline without a render function, which
		// fails when navigated to.
		return core.Inline{Name: r.Inline, Render: inlines[r.Inline]}, nil
	}
}

func BuildRouteTable(routes []RouteConfig, inlines Inlines) (*core.RouteTable, error) {
	converted := make([]core.Route, 0, len(routes))
	for _, rc := range routes {
		strategy, err := rc.Strategy(inlines)
		if err != nil {
			return nil, err
		}
		converted = append(converted, core.Route{Path: rc.Path, Strategy: strategy})
	}
	return core.NewRouteTable(converted...)
}

// RouteTable builds the table with the builtin inlines plus extra.
func (c Config) RouteTable(extra Inlines) (*core.RouteTable, error) {
	return BuildRouteTable(c.Routes, mergeInlines(extra))
}

// Validate checks every route eagerly, including references to remotes.
// Navigation only validates the route being visited.
func (c Config) Validate(extra Inlines) []error {
	var errs []error

	table, err := c.RouteTable(extra)
	if err != nil {
		return []error{err}
	}

	for _, r := range table.Routes() {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if fb, ok := r.Strategy.(core.FederationBacked); ok {
			if _, known := c.Remotes[fb.RemoteName]; !known {
				errs = append(errs, &core.ConfigurationError{
					Path:   r.Path,
					Reason: fmt.Sprintf("%v: %s", core.ErrUnknownRemote, fb.RemoteName),
				})
			}
		}
	}

	return errs
}

func (c Config) RemoteNames() []string {
	names := make([]string, 0, len(c.Remotes))
	for name := range c.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mergeInlines(extra Inlines) Inlines {
	all := BuiltinInlines()
	for name, fn := range extra {
		all[name] = fn
	}
	return all
}

// ClientConfig is what the host page hands to the wasm client.
type ClientConfig struct {
	MountID  string            `json:"mountId"`
	Prefetch bool              `json:"prefetch,omitempty"`
	Remotes  map[string]string `json:"remotes"`
	Routes   []RouteConfig     `json:"routes"`
}

func (c Config) Client() ClientConfig {
	remotes := c.Remotes
	if remotes == nil {
		remotes = map[string]string{}
	}
	return ClientConfig{
		MountID:  c.Mount,
		Prefetch: c.Prefetch,
		Remotes:  remotes,
		Routes:   c.Routes,
	}
}

func ParseClient(data []byte) (ClientConfig, error) {
	var cc ClientConfig
	if err := json.Unmarshal(data, &cc); err != nil {
		return ClientConfig{}, fmt.Errorf("invalid client config: %w", err)
	}
	if cc.MountID == "" {
		cc.MountID = core.DefaultMountID
	}
	return cc, nil
}

func (cc ClientConfig) RouteTable(extra Inlines) (*core.RouteTable, error) {
	return BuildRouteTable(cc.Routes, mergeInlines(extra))
}
