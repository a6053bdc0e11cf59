package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/3-lines-studio/mfeshell/internal/adapters/dom"
	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/3-lines-studio/mfeshell/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFederatedLoader(t *testing.T) {
	t.Run("resolves and constructs", func(t *testing.T) {
		doc := dom.New()
		resolver := &fakeResolver{doc: doc, define: mfe2Tag}
		loader := usecase.NewFederatedLoader(doc, resolver, nil)

		el, err := loader.Load(context.Background(), mfe2Remote, mfe2Module, mfe2Tag)
		require.NoError(t, err)
		assert.Equal(t, mfe2Tag, el.TagName())

		_, err = loader.Load(context.Background(), mfe2Remote, mfe2Module, mfe2Tag)
		require.NoError(t, err)
		assert.Equal(t, 2, resolver.Calls(), "the loader keeps no cache of its own")
	})

	t.Run("resolution failure names the component", func(t *testing.T) {
		doc := dom.New()
		cause := errors.New("remote unreachable")
		loader := usecase.NewFederatedLoader(doc, &fakeResolver{doc: doc, err: cause}, nil)

		_, err := loader.Load(context.Background(), mfe2Remote, mfe2Module, mfe2Tag)

		var remoteErr *core.RemoteResolutionError
		require.ErrorAs(t, err, &remoteErr)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), mfe2Remote)
		assert.Contains(t, err.Error(), mfe2Module)
		assert.Contains(t, err.Error(), mfe2Tag)
	})

	t.Run("module without the element", func(t *testing.T) {
		doc := dom.New()
		loader := usecase.NewFederatedLoader(doc, &fakeResolver{doc: doc}, nil)

		_, err := loader.Load(context.Background(), mfe2Remote, mfe2Module, mfe2Tag)

		var constructErr *core.ElementConstructionError
		require.ErrorAs(t, err, &constructErr)
		assert.Equal(t, "remote mfe2 (./web-component)", constructErr.Source)
	})

	t.Run("no resolver", func(t *testing.T) {
		loader := usecase.NewFederatedLoader(dom.New(), nil, nil)

		_, err := loader.Load(context.Background(), mfe2Remote, mfe2Module, mfe2Tag)

		var remoteErr *core.RemoteResolutionError
		assert.ErrorAs(t, err, &remoteErr)
	})
}
