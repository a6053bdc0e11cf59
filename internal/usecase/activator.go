package usecase

import (
	"context"
	"fmt"

	"github.com/3-lines-studio/mfeshell/internal/core"
)

// ModuleActivator makes the code behind an element take effect, so that the
// element can be constructed afterwards.
type ModuleActivator interface {
	Activate(ctx context.Context) error
	Source() string
}

func activateAndConstruct(ctx context.Context, doc Document, act ModuleActivator, elementName string) (core.Element, error) {
	if err := act.Activate(ctx); err != nil {
		return nil, err
	}
	return construct(doc, act.Source(), elementName)
}

func construct(doc Document, source, elementName string) (core.Element, error) {
	el, err := doc.CreateElement(elementName)
	if err != nil {
		return nil, &core.ElementConstructionError{
			ElementName: elementName,
			Source:      source,
			Err:         err,
		}
	}
	return el, nil
}

type scriptActivator struct {
	loader      *ScriptLoader
	scriptURL   string
	elementName string
}

func (a *scriptActivator) Source() string {
	return "script " + a.scriptURL
}

func (a *scriptActivator) Activate(ctx context.Context) error {
	ch := a.loader.flights.DoChan(a.scriptURL, func() (any, error) {
		return nil, a.loader.inject(a.scriptURL, a.elementName)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return &core.ScriptLoadError{ScriptURL: a.scriptURL, Err: ctx.Err()}
	}
}

type remoteActivator struct {
	resolver      RemoteResolver
	remoteName    string
	exposedModule string
	elementName   string
}

func (a *remoteActivator) Source() string {
	return fmt.Sprintf("remote %s (%s)", a.remoteName, a.exposedModule)
}

func (a *remoteActivator) Activate(ctx context.Context) error {
	if a.resolver == nil {
		return &core.RemoteResolutionError{
			RemoteName:    a.remoteName,
			ExposedModule: a.exposedModule,
			ElementName:   a.elementName,
			Err:           fmt.Errorf("no remote module resolver configured"),
		}
	}

	if err := a.resolver.ResolveRemoteModule(ctx, a.remoteName, a.exposedModule); err != nil {
		return &core.RemoteResolutionError{
			RemoteName:    a.remoteName,
			ExposedModule: a.exposedModule,
			ElementName:   a.elementName,
			Err:           err,
		}
	}
	return nil
}
