package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/3-lines-studio/mfeshell/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func useConfig(t *testing.T, path string) {
	t.Helper()
	configPath = path
	t.Cleanup(func() { configPath = "" })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mfeshell.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// mfeServer serves a script MFE and a federated remote.
func mfeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/my-angular-element.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, `customElements.define("my-angular-element", class extends HTMLElement {})`)
	})
	mux.HandleFunc("/remoteEntry.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"mfe2","exposes":[{"key":"./web-component","outFileName":"web-component.js"}],"shared":[]}`)
	})
	mux.HandleFunc("/web-component.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript")
		fmt.Fprint(w, `customElements.define("mfe2-root", class extends HTMLElement {})`)
	})
	mux.HandleFunc("/fallback.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<!doctype html><div id="app"></div>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func shellConfig(base string) string {
	return fmt.Sprintf(`
remotes:
  mfe2: %[1]s/remoteEntry.json
routes:
  - path: /
    label: Home
    inline: home
  - path: /mfe1
    label: MFE1
    script:
      url: %[1]s/my-angular-element.js
      element: my-angular-element
  - path: /mfe2
    label: MFE2
    federation:
      remote: mfe2
      module: ./web-component
      element: mfe2-root
`, base)
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfeshell.yaml")
	cmd, out := newTestCmd(t)

	require.NoError(t, runInit(cmd, []string{path}))
	assert.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Routes, 3)

	// A second run refuses to overwrite.
	assert.Error(t, runInit(cmd, []string{path}))

	initForce = true
	defer func() { initForce = false }()
	assert.NoError(t, runInit(cmd, []string{path}))
}

func TestRoutesCmd(t *testing.T) {
	cmd, out := newTestCmd(t)
	useConfig(t, writeConfig(t, shellConfig("http://localhost:9999")))

	require.NoError(t, runRoutes(cmd, nil))
	assert.Contains(t, out.String(), "/mfe1")
	assert.Contains(t, out.String(), "<mfe2-root> from mfe2 ./web-component")
	assert.Contains(t, out.String(), "3 routes valid")
}

func TestRoutesCmdInvalid(t *testing.T) {
	cmd, out := newTestCmd(t)
	useConfig(t, writeConfig(t, `
routes:
  - path: /
    inline: home
  - path: /bad
    script:
      url: http://localhost/x.js
      element: NoHyphen
`))

	assert.Error(t, runRoutes(cmd, nil))
	assert.Contains(t, out.String(), "/bad")
}

func TestCheckCmd(t *testing.T) {
	srv := mfeServer(t)
	cmd, out := newTestCmd(t)
	useConfig(t, writeConfig(t, shellConfig(srv.URL)))

	require.NoError(t, runCheck(cmd, nil), out.String())
	assert.Contains(t, out.String(), "3 routes found")
	assert.Contains(t, out.String(), "Check complete")
}

func TestCheckCmdReportsFailures(t *testing.T) {
	srv := mfeServer(t)
	cmd, out := newTestCmd(t)

	content := shellConfig(srv.URL) + `  - path: /gone
    label: Gone
    script:
      url: ` + srv.URL + `/missing.js
      element: gone-element
  - path: /lost
    federation:
      remote: mfe2
      module: ./missing
      element: lost-element
`
	useConfig(t, writeConfig(t, content))

	assert.Error(t, runCheck(cmd, nil))
	assert.Contains(t, out.String(), "/gone (Gone)")
	assert.Contains(t, out.String(), "404")
	assert.Contains(t, out.String(), "remote mfe2 (./missing) unresolved")
}

func TestDescribeRouteLabel(t *testing.T) {
	assert.Equal(t, "/x", routeLabel(config.RouteConfig{Path: "/x"}))
	assert.Equal(t, "X", routeLabel(config.RouteConfig{Path: "/x", Label: "X"}))
}

func TestCheckCmdWarnsOnNonScriptContent(t *testing.T) {
	srv := mfeServer(t)
	cmd, out := newTestCmd(t)

	content := shellConfig(srv.URL) + `  - path: /fallback
    script:
      url: ` + srv.URL + `/fallback.js
      element: fallback-element
`
	useConfig(t, writeConfig(t, content))

	require.NoError(t, runCheck(cmd, nil), out.String())
	assert.Contains(t, out.String(), "Warnings (1)")
	assert.Contains(t, out.String(), "unexpected content type text/html")
}
