//go:build js && wasm

// Command wasm is the shell's browser client. The host page embeds the
// client config as JSON; the client builds the route table from it and
// takes over navigation.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/3-lines-studio/mfeshell/internal/adapters/browser"
	"github.com/3-lines-studio/mfeshell/internal/adapters/federation"
	"github.com/3-lines-studio/mfeshell/internal/config"
	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/3-lines-studio/mfeshell/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Error("shell failed to start", zap.Error(err))
		os.Exit(1)
	}

	// Callbacks registered with the page run on this program; it must not exit.
	select {}
}

// run starts the shell. Failures before the shell takes over are rendered
// into the mount point here; the shell renders its own.
func run(logger *zap.Logger) error {
	doc := browser.NewDocument()
	mountID := core.DefaultMountID

	fail := func(err error) error {
		if !usecase.ReportStartupFailure(doc, mountID, err) {
			logger.Warn("no mount point to report startup failure", zap.String("mount", mountID))
		}
		return err
	}

	raw, err := doc.ReadJSON(core.ClientConfigID)
	if err != nil {
		return fail(fmt.Errorf("failed to read client config: %w", err))
	}
	cc, err := config.ParseClient(raw)
	if err != nil {
		return fail(err)
	}
	mountID = cc.MountID

	routes, err := cc.RouteTable(nil)
	if err != nil {
		return fail(err)
	}

	importer, err := browser.NewImporter()
	if err != nil {
		return fail(fmt.Errorf("failed to initialize federation: %w", err))
	}

	resolver := federation.NewResolver(federation.Options{
		Remotes:  federation.Manifest(cc.Remotes),
		Importer: importer,
		Logger:   logger.Named("remotes"),
		Prefetch: cc.Prefetch,
	})

	shell := usecase.NewShell(usecase.ShellDeps{
		Document: doc,
		Window:   browser.NewWindow(),
		Routes:   routes,
		Resolver: resolver,
		Registry: core.NewScriptRegistry(),
		MountID:  cc.MountID,
		Logger:   logger,
	})

	return shell.Start(context.Background())
}

// newLogger writes JSON lines to stdout, which wasm_exec.js forwards to the
// browser console.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.Sampling = nil
	return cfg.Build()
}
