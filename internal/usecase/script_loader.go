package usecase

import (
	"context"
	"sync"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ScriptLoader loads web component scripts through script tags, once per
// url, and constructs the element they define.
type ScriptLoader struct {
	doc      Document
	registry *core.ScriptRegistry
	flights  singleflight.Group
	logger   *zap.Logger
}

func NewScriptLoader(doc Document, registry *core.ScriptRegistry, logger *zap.Logger) *ScriptLoader {
	if registry == nil {
		registry = core.NewScriptRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptLoader{
		doc:      doc,
		registry: registry,
		logger:   logger,
	}
}

func (l *ScriptLoader) Registry() *core.ScriptRegistry {
	return l.registry
}

func (l *ScriptLoader) Load(ctx context.Context, scriptURL, elementName string) (core.Element, error) {
	marker := core.ScriptMarker(elementName)
	act := &scriptActivator{loader: l, scriptURL: scriptURL, elementName: elementName}

	// The marker is read before the status: a load marks the url pending
	// before inserting its node, so a marker seen without a pending status
	// belongs to a settled script, possibly from another url defining the
	// same element. Such a marker is never duplicated.
	hasMarker := l.doc.HasElementID(marker)

	switch status := l.registry.Status(scriptURL); {
	case status == core.StatusSucceeded:
		l.logger.Debug("script already loaded", zap.String("url", scriptURL))
		return construct(l.doc, act.Source(), elementName)
	case status == core.StatusPending:
		l.logger.Debug("joining in-flight script load", zap.String("url", scriptURL))
		return activateAndConstruct(ctx, l.doc, act, elementName)
	case hasMarker:
		l.logger.Debug("script marker already present", zap.String("url", scriptURL), zap.String("marker", marker))
		return construct(l.doc, act.Source(), elementName)
	}

	return activateAndConstruct(ctx, l.doc, act, elementName)
}

func (l *ScriptLoader) inject(scriptURL, elementName string) error {
	if l.registry.Loaded(scriptURL) {
		return nil
	}

	req := ScriptRequest{
		ID:        core.ScriptMarker(elementName),
		RequestID: uuid.NewString(),
		URL:       scriptURL,
	}

	l.registry.MarkPending(scriptURL)

	done := make(chan error, 1)
	var once sync.Once
	settle := func(err error) {
		once.Do(func() { done <- err })
	}

	l.logger.Info("appending script",
		zap.String("url", scriptURL),
		zap.String("marker", req.ID),
		zap.String("request_id", req.RequestID),
	)

	if err := l.doc.InjectScript(req, settle); err != nil {
		l.doc.RemoveElementByID(req.ID)
		l.registry.MarkFailed(scriptURL)
		return &core.ScriptLoadError{ScriptURL: scriptURL, Err: err}
	}

	if err := <-done; err != nil {
		l.logger.Error("error loading script", zap.String("url", scriptURL), zap.Error(err))
		l.doc.RemoveElementByID(req.ID)
		l.registry.MarkFailed(scriptURL)
		return &core.ScriptLoadError{ScriptURL: scriptURL, Err: err}
	}

	l.registry.MarkSucceeded(scriptURL)
	l.logger.Info("script loaded", zap.String("url", scriptURL))
	return nil
}
