package usecase

import (
	"context"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"go.uber.org/zap"
)

// FederatedLoader is stateless: caching of remote entries is left to the
// resolver.
type FederatedLoader struct {
	doc      Document
	resolver RemoteResolver
	logger   *zap.Logger
}

func NewFederatedLoader(doc Document, resolver RemoteResolver, logger *zap.Logger) *FederatedLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FederatedLoader{
		doc:      doc,
		resolver: resolver,
		logger:   logger,
	}
}

func (l *FederatedLoader) Load(ctx context.Context, remoteName, exposedModule, elementName string) (core.Element, error) {
	l.logger.Info("loading federated component",
		zap.String("remote", remoteName),
		zap.String("module", exposedModule),
		zap.String("element", elementName),
	)

	act := &remoteActivator{
		resolver:      l.resolver,
		remoteName:    remoteName,
		exposedModule: exposedModule,
		elementName:   elementName,
	}

	el, err := activateAndConstruct(ctx, l.doc, act, elementName)
	if err != nil {
		l.logger.Error("error loading federated component",
			zap.String("remote", remoteName),
			zap.String("module", exposedModule),
			zap.Error(err),
		)
		return nil, err
	}
	return el, nil
}
