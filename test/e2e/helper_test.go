package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/3-lines-studio/mfeshell"
	"github.com/3-lines-studio/mfeshell/internal/adapters/fs"
	"github.com/3-lines-studio/mfeshell/internal/build"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var repoRoot string

func init() {
	_, filename, _, _ := runtime.Caller(0)
	repoRoot, _ = filepath.Abs(filepath.Join(filepath.Dir(filename), "..", ".."))
}

func skipIfNoBrowser(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available, skipping E2E test")
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no local browser, skipping E2E test")
	}
	return bin
}

var (
	clientOnce sync.Once
	clientDir  string
	clientErr  error
)

// buildClient compiles the wasm client once per test run.
func buildClient(t *testing.T) string {
	t.Helper()
	clientOnce.Do(func() {
		clientDir, clientErr = os.MkdirTemp("", "mfeshell-e2e-dist-")
		if clientErr != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_, clientErr = build.NewWasmBuilder(build.Options{
			Dir:  repoRoot,
			Dist: fs.NewOSFileSystem(clientDir),
		}).Build(ctx)
	})
	if clientErr != nil {
		t.Fatalf("failed to build client: %v", clientErr)
	}
	return clientDir
}

// newMFEServer serves one script micro-frontend and one federated remote.
func newMFEServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/my-angular-element.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, `customElements.define("my-angular-element", class extends HTMLElement {
  connectedCallback() { this.innerHTML = "<p>MFE1 says hello</p>"; }
});`)
	})
	mux.HandleFunc("/remoteEntry.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"mfe2","exposes":[{"key":"./web-component","outFileName":"web-component.js"}],"shared":[]}`)
	})
	mux.HandleFunc("/web-component.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, `customElements.define("mfe2-root", class extends HTMLElement {
  connectedCallback() { this.innerHTML = "<p>MFE2 says hello</p>"; }
});`)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type shellServer struct {
	url  string
	page *rod.Page
}

// newShell serves the shell against a fresh MFE server and opens path in a
// headless browser.
func newShell(t *testing.T, cfg mfeshell.Config, path string) *shellServer {
	t.Helper()
	bin := skipIfNoBrowser(t)
	dist := buildClient(t)

	app, err := mfeshell.New(cfg, mfeshell.WithAssetDir(dist))
	if err != nil {
		t.Fatalf("mfeshell.New() error = %v", err)
	}
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(func() {
		_ = app.Stop()
		srv.Close()
	})

	controlURL, err := launcher.New().Bin(bin).Headless(true).Launch()
	if err != nil {
		t.Fatalf("launch browser: %v", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		t.Fatalf("connect to browser: %v", err)
	}
	t.Cleanup(func() { _ = browser.Close() })

	page, err := browser.Page(proto.TargetCreateTarget{URL: srv.URL + path})
	if err != nil {
		t.Fatalf("open page: %v", err)
	}
	page = page.Timeout(30 * time.Second)

	return &shellServer{url: srv.URL, page: page}
}

func shellConfig(mfeURL string) mfeshell.Config {
	return mfeshell.Config{
		Title:   "E2E Shell",
		Mount:   "content",
		DistDir: "dist",
		Remotes: map[string]string{"mfe2": mfeURL + "/remoteEntry.json"},
		Routes: []mfeshell.RouteConfig{
			mfeshell.Inline("/", "Home", "home"),
			mfeshell.Script("/mfe1", "MFE1", mfeURL+"/my-angular-element.js", "my-angular-element"),
			mfeshell.Federated("/mfe2", "MFE2", "mfe2", "./web-component", "mfe2-root"),
			mfeshell.Federated("/broken", "Broken", "mfe2", "./missing", "broken-root"),
		},
	}
}

func (s *shellServer) content(t *testing.T) string {
	t.Helper()
	return s.eval(t, `() => document.getElementById("content").innerHTML`)
}

func (s *shellServer) eval(t *testing.T, js string) string {
	t.Helper()
	res, err := s.page.Eval(js)
	if err != nil {
		t.Fatalf("eval %s: %v", js, err)
	}
	return res.Value.String()
}

// waitFor polls until the content contains want.
func (s *shellServer) waitFor(t *testing.T, want string) {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(s.content(t), want) {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("content never contained %q:\n%s", want, s.content(t))
}

func (s *shellServer) click(t *testing.T, href string) {
	t.Helper()
	el, err := s.page.Element(`nav a[href="` + href + `"]`)
	if err != nil {
		t.Fatalf("find link %s: %v", href, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		t.Fatalf("click %s: %v", href, err)
	}
}
