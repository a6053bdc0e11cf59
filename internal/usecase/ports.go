package usecase

import (
	"context"
	"net/url"

	"github.com/3-lines-studio/mfeshell/internal/core"
)

type ScriptRequest struct {
	// ID is the deterministic marker derived from the element name.
	ID        string
	RequestID string
	URL       string
}

// Document is the host document as seen by the loaders and the bootstrap.
type Document interface {
	MountPoint(id string) (core.Mount, error)
	// CreateElement fails with core.ErrElementUndefined when no custom
	// element is registered under name.
	CreateElement(name string) (core.Element, error)
	HasElementID(id string) bool
	// InjectScript inserts an async script node and returns immediately.
	// done is called once when the script loaded or failed.
	InjectScript(req ScriptRequest, done func(error)) error
	RemoveElementByID(id string)
}

type ClickEvent struct {
	core.LinkClick
	PreventDefault func()
}

type Location interface {
	Location() *url.URL
}

type Window interface {
	Location
	PushState(path string)
	OnClick(fn func(ClickEvent)) (remove func(), err error)
	OnPopState(fn func(path string)) (remove func(), err error)
}

type RemoteResolver interface {
	ResolveRemoteModule(ctx context.Context, remoteName, exposedModule string) error
}

// FederationInitializer is implemented by resolvers that need a setup step
// before the first navigation.
type FederationInitializer interface {
	Init(ctx context.Context) error
}

type ScriptElementLoader interface {
	Load(ctx context.Context, scriptURL, elementName string) (core.Element, error)
}

type FederatedElementLoader interface {
	Load(ctx context.Context, remoteName, exposedModule, elementName string) (core.Element, error)
}

type RouteChangeHandler interface {
	HandleRouteChange(ctx context.Context) Outcome
}
