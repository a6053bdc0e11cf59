package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"go.uber.org/zap"
)

// Interceptor turns in-page link clicks and history events into route
// dispatches without full page loads.
type Interceptor struct {
	window  Window
	handler RouteChangeHandler
	logger  *zap.Logger

	once    sync.Once
	initErr error

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	removes []func()
	wg      sync.WaitGroup
}

func NewInterceptor(window Window, handler RouteChangeHandler, logger *zap.Logger) *Interceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interceptor{
		window:  window,
		handler: handler,
		logger:  logger,
	}
}

// Initialize registers the listeners and dispatches the initial location.
// Calls after the first return the first call's result.
func (i *Interceptor) Initialize(ctx context.Context) error {
	i.once.Do(func() {
		i.initErr = i.initialize(ctx)
	})
	return i.initErr
}

func (i *Interceptor) initialize(ctx context.Context) error {
	i.logger.Info("initializing router")

	i.mu.Lock()
	i.ctx, i.cancel = context.WithCancel(ctx)
	i.mu.Unlock()

	removeClick, err := i.window.OnClick(i.onClick)
	if err != nil {
		return fmt.Errorf("failed to observe clicks: %w", err)
	}

	removePop, err := i.window.OnPopState(i.onPopState)
	if err != nil {
		removeClick()
		return fmt.Errorf("failed to observe history: %w", err)
	}

	i.mu.Lock()
	i.removes = append(i.removes, removeClick, removePop)
	i.mu.Unlock()

	i.logger.Info("initial page load, handling route")
	i.dispatch()
	return nil
}

func (i *Interceptor) onClick(ev ClickEvent) {
	decision := core.DecideLinkClick(i.window.Location(), ev.LinkClick)

	switch decision.Action {
	case core.ClickPush:
		ev.PreventDefault()
		i.window.PushState(decision.Path)
		i.logger.Info("navigating via pushState", zap.String("path", decision.Path))
		i.dispatch()
	case core.ClickReplay:
		ev.PreventDefault()
		i.logger.Debug("link to current path, re-rendering", zap.String("path", decision.Path))
		i.dispatch()
	default:
		if ev.HasLink {
			i.logger.Debug("click on link ignored",
				zap.String("href", ev.Href),
				zap.String("target", ev.Target),
				zap.String("reason", decision.Reason),
			)
		}
	}
}

func (i *Interceptor) onPopState(path string) {
	i.logger.Info("popstate", zap.String("path", path))
	i.dispatch()
}

func (i *Interceptor) dispatch() {
	i.mu.Lock()
	ctx := i.ctx
	if ctx == nil || ctx.Err() != nil {
		i.mu.Unlock()
		return
	}
	i.wg.Add(1)
	i.mu.Unlock()

	go func() {
		defer i.wg.Done()
		i.handler.HandleRouteChange(ctx)
	}()
}

// Wait blocks until every dispatch started so far has settled.
func (i *Interceptor) Wait() {
	i.wg.Wait()
}

func (i *Interceptor) Close() {
	i.mu.Lock()
	removes := i.removes
	i.removes = nil
	if i.cancel != nil {
		i.cancel()
	}
	i.mu.Unlock()

	for _, remove := range removes {
		remove()
	}
	i.wg.Wait()
}
