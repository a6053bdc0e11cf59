package usecase

import (
	"context"
	"fmt"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"go.uber.org/zap"
)

type ShellDeps struct {
	Document Document
	Window   Window
	Routes   *core.RouteTable
	Resolver RemoteResolver
	Registry *core.ScriptRegistry
	MountID  string
	Logger   *zap.Logger
}

// Shell wires the loaders, the dispatcher and the interceptor against one
// host document.
type Shell struct {
	deps        ShellDeps
	logger      *zap.Logger
	scripts     *ScriptLoader
	federated   *FederatedLoader
	dispatcher  *Dispatcher
	interceptor *Interceptor
}

func NewShell(deps ShellDeps) *Shell {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.MountID == "" {
		deps.MountID = core.DefaultMountID
	}
	return &Shell{
		deps:      deps,
		logger:    deps.Logger,
		scripts:   NewScriptLoader(deps.Document, deps.Registry, deps.Logger.Named("script")),
		federated: NewFederatedLoader(deps.Document, deps.Resolver, deps.Logger.Named("federation")),
	}
}

// Start initialises federation and then the router. A missing mount point is
// returned as is; any other startup failure is also rendered as the fatal
// panel, leaving the page interactive but without routed content.
func (s *Shell) Start(ctx context.Context) (err error) {
	s.logger.Info("bootstrapping shell")

	mount, err := s.deps.Document.MountPoint(s.deps.MountID)
	if err != nil {
		return fmt.Errorf("%w: #%s: %v", core.ErrMountPointMissing, s.deps.MountID, err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shell bootstrap panicked: %v", r)
		}
		if err != nil {
			s.logger.Error("fatal error during application bootstrap", zap.Error(err))
			renderFatal(mount, err)
		}
	}()

	if initializer, ok := s.deps.Resolver.(FederationInitializer); ok {
		if err := initializer.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize federation: %w", err)
		}
		s.logger.Info("federation initialized")
	}

	s.dispatcher = NewDispatcher(DispatcherDeps{
		Routes:    s.deps.Routes,
		Mount:     mount,
		Location:  s.deps.Window,
		Scripts:   s.scripts,
		Federated: s.federated,
		Logger:    s.logger.Named("router"),
	})
	s.interceptor = NewInterceptor(s.deps.Window, s.dispatcher, s.logger.Named("router"))

	if err := s.interceptor.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	s.logger.Info("shell bootstrap complete")
	return nil
}

// ReportStartupFailure renders the fatal panel for a failure that happened
// before the shell could start. It reports false when the document has no
// mount point to render into.
func ReportStartupFailure(doc Document, mountID string, err error) bool {
	if mountID == "" {
		mountID = core.DefaultMountID
	}
	mount, mountErr := doc.MountPoint(mountID)
	if mountErr != nil {
		return false
	}
	renderFatal(mount, err)
	return true
}

func renderFatal(mount core.Mount, err error) {
	mount.SetHTML(core.FatalView(err))
}

func (s *Shell) Scripts() *ScriptLoader {
	return s.scripts
}

func (s *Shell) Dispatcher() *Dispatcher {
	return s.dispatcher
}

func (s *Shell) Interceptor() *Interceptor {
	return s.interceptor
}

// Wait blocks until in-flight navigations settle.
func (s *Shell) Wait() {
	if s.interceptor != nil {
		s.interceptor.Wait()
	}
}

func (s *Shell) Close() {
	if s.interceptor != nil {
		s.interceptor.Close()
	}
}
