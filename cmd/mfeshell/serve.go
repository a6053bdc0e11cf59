package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/3-lines-studio/mfeshell"
	"github.com/3-lines-studio/mfeshell/internal/adapters/watch"
	"github.com/3-lines-studio/mfeshell/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr string
	serveDev  bool
	serveDist string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the host page, the client and the federation manifest",
	Long: `Serve the host page on every route path, the built client under /dist/,
the federation manifest, /healthz and /metrics.

In dev mode the config file and the dist directory are watched: config edits
are applied without a restart and open pages reload.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "Enable dev mode (watch and live reload)")
	serveCmd.Flags().StringVar(&serveDist, "dist", "", "Directory holding shell.wasm and wasm_exec.js (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveDev {
		cfg.Dev = true
	}
	if serveDist != "" {
		cfg.DistDir = serveDist
	}

	app, err := mfeshell.New(cfg, mfeshell.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, app, path)
}

func serve(ctx context.Context, app *mfeshell.App, path string) error {
	cfg := app.Config()
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("serving",
			zap.String("addr", cfg.Addr),
			zap.Bool("dev", cfg.Dev),
			zap.String("dist", cfg.DistDir),
			zap.Int("routes", len(cfg.Routes)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		_ = app.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if cfg.Dev {
		watcher, err := newDevWatcher(app, path)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	return g.Wait()
}

// newDevWatcher applies config edits and reloads pages when the client is
// rebuilt.
func newDevWatcher(app *mfeshell.App, path string) (*watch.Watcher, error) {
	configAbs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return watch.New(watch.Options{
		Paths:  []string{path, app.Config().DistDir},
		Logger: logger,
		OnChange: func(paths []string) {
			for _, p := range paths {
				if p != configAbs {
					continue
				}
				cfg, err := config.Load(path)
				if err != nil {
					logger.Error("config reload failed", zap.Error(err))
					return
				}
				if err := app.SetConfig(cfg); err != nil {
					logger.Error("config reload failed", zap.Error(err))
				}
				return
			}
			app.NotifyReload()
		},
	})
}
