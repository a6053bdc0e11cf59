// Command example hosts the shell next to an API on a chi router, with the
// client embedded in the binary. Build the client first:
//
//	mfeshell build --dist example/dist
package main

import (
	"embed"
	"net/http"

	"github.com/3-lines-studio/mfeshell"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:embed all:dist
var distFS embed.FS

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := mfeshell.Config{
		Title:   "Example Shell",
		Mount:   "content",
		Remotes: map[string]string{"mfe2": "http://localhost:4202/remoteEntry.json"},
		Routes: []mfeshell.RouteConfig{
			mfeshell.Inline("/", "Home", "home"),
			mfeshell.Script("/mfe1", "MFE1 (Script)", "http://127.0.0.1:8080/my-angular-element.js", "my-angular-element"),
			mfeshell.Federated("/mfe2", "MFE2 (Federated)", "mfe2", "./web-component", "mfe2-root"),
		},
	}

	app, err := mfeshell.New(cfg, mfeshell.WithAssets(distFS, "dist"), mfeshell.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to create shell", zap.Error(err))
	}
	defer app.Stop()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Paths the router does not claim get the shell.
	handler := app.Wrap(r)

	addr := ":4200"
	logger.Info("serving", zap.String("addr", "http://localhost"+addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
