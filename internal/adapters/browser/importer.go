//go:build js && wasm

package browser

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"
)

// ImportHelper is the global installed by the host page that wraps dynamic
// import(); Go cannot express import() itself.
const ImportHelper = "__mfeshellImport"

type Importer struct {
	fn js.Value
}

func NewImporter() (*Importer, error) {
	fn := js.Global().Get(ImportHelper)
	if fn.Type() != js.TypeFunction {
		return nil, fmt.Errorf("host page does not define %s", ImportHelper)
	}
	return &Importer{fn: fn}, nil
}

func (i *Importer) Import(ctx context.Context, moduleURL string) error {
	return await(ctx, i.fn.Invoke(moduleURL))
}

// await blocks the calling goroutine until promise settles or ctx is done.
// It must not be called from inside a js callback.
func await(ctx context.Context, promise js.Value) error {
	done := make(chan error, 1)

	var onResolve, onReject js.Func
	release := func() {
		onResolve.Release()
		onReject.Release()
	}
	onResolve = js.FuncOf(func(this js.Value, args []js.Value) any {
		release()
		done <- nil
		return nil
	})
	onReject = js.FuncOf(func(this js.Value, args []js.Value) any {
		release()
		done <- jsError(args)
		return nil
	})

	promise.Call("then", onResolve, onReject)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func jsError(args []js.Value) error {
	if len(args) == 0 || !present(args[0]) {
		return errors.New("promise rejected")
	}
	reason := args[0]
	if reason.Type() == js.TypeObject {
		if msg := reason.Get("message"); msg.Type() == js.TypeString {
			return errors.New(msg.String())
		}
	}
	return errors.New(js.Global().Call("String", reason).String())
}
