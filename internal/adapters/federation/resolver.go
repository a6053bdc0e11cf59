// Package federation resolves exposed modules of native federation remotes.
// A remote publishes a remoteEntry.json describing the files it exposes; the
// resolver fetches that entry once per remote and imports the file behind an
// exposed key.
package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Importer evaluates the ES module at moduleURL.
type Importer interface {
	Import(ctx context.Context, moduleURL string) error
}

type Exposed struct {
	Key         string `json:"key"`
	OutFileName string `json:"outFileName"`
}

type Shared struct {
	PackageName     string `json:"packageName"`
	OutFileName     string `json:"outFileName"`
	RequiredVersion string `json:"requiredVersion"`
	Singleton       bool   `json:"singleton"`
	StrictVersion   bool   `json:"strictVersion"`
	Version         string `json:"version"`
}

type RemoteEntry struct {
	Name    string    `json:"name"`
	Exposes []Exposed `json:"exposes"`
	Shared  []Shared  `json:"shared"`
}

func (e *RemoteEntry) Lookup(key string) (Exposed, bool) {
	for _, x := range e.Exposes {
		if x.Key == key {
			return x, true
		}
	}
	return Exposed{}, false
}

type Options struct {
	Remotes  Manifest
	Importer Importer
	// Client fetches remote entries. When nil a client is built with
	// Timeout, which is zero, meaning no limit, unless set.
	Client   *http.Client
	Timeout  time.Duration
	Logger   *zap.Logger
	// Prefetch makes Init fetch every remote entry up front.
	Prefetch bool
}

type Resolver struct {
	manifest Manifest
	importer Importer
	client   *http.Client
	logger   *zap.Logger
	prefetch bool

	flights singleflight.Group

	mu      sync.Mutex
	bases   map[string]*url.URL
	entries map[string]*RemoteEntry
}

func NewResolver(opts Options) *Resolver {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Resolver{
		manifest: opts.Remotes,
		importer: opts.Importer,
		client:   opts.Client,
		logger:   opts.Logger,
		prefetch: opts.Prefetch,
		bases:    make(map[string]*url.URL),
		entries:  make(map[string]*RemoteEntry),
	}
}

// Init checks every remote url and, with Prefetch, loads every entry.
func (r *Resolver) Init(ctx context.Context) error {
	for _, name := range r.manifest.Names() {
		if _, err := r.base(name); err != nil {
			return err
		}
	}

	if !r.prefetch {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range r.manifest.Names() {
		g.Go(func() error {
			_, err := r.Entry(ctx, name)
			return err
		})
	}
	return g.Wait()
}

func (r *Resolver) ResolveRemoteModule(ctx context.Context, remoteName, exposedModule string) error {
	if r.importer == nil {
		return fmt.Errorf("no module importer configured")
	}

	moduleURL, err := r.ModuleURL(ctx, remoteName, exposedModule)
	if err != nil {
		return err
	}

	r.logger.Debug("importing exposed module",
		zap.String("remote", remoteName),
		zap.String("module", exposedModule),
		zap.String("url", moduleURL),
	)
	return r.importer.Import(ctx, moduleURL)
}

// ModuleURL returns the absolute url of the file exposed under key.
func (r *Resolver) ModuleURL(ctx context.Context, remoteName, key string) (string, error) {
	base, err := r.base(remoteName)
	if err != nil {
		return "", err
	}

	entry, err := r.Entry(ctx, remoteName)
	if err != nil {
		return "", err
	}

	exposed, ok := entry.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s in remote %s", core.ErrExposedModuleMissing, key, remoteName)
	}

	ref, err := url.Parse(exposed.OutFileName)
	if err != nil {
		return "", fmt.Errorf("invalid file %q for %s in remote %s: %w", exposed.OutFileName, key, remoteName, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Entry returns the remote entry, fetching it once. Failed fetches are not
// cached.
func (r *Resolver) Entry(ctx context.Context, remoteName string) (*RemoteEntry, error) {
	r.mu.Lock()
	entry, ok := r.entries[remoteName]
	r.mu.Unlock()
	if ok {
		return entry, nil
	}

	base, err := r.base(remoteName)
	if err != nil {
		return nil, err
	}

	// The fetch is shared by every waiter, so it must outlive the caller
	// that started it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.flights.DoChan(remoteName, func() (any, error) {
		entry, err := r.fetch(fetchCtx, base)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.entries[remoteName] = entry
		r.mu.Unlock()
		return entry, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to load remote entry of %s: %w", remoteName, res.Err)
		}
		return res.Val.(*RemoteEntry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Resolver) fetch(ctx context.Context, entryURL *url.URL) (*RemoteEntry, error) {
	r.logger.Info("fetching remote entry", zap.String("url", entryURL.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entryURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", entryURL, resp.StatusCode)
	}

	var entry RemoteEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("GET %s: invalid remote entry: %w", entryURL, err)
	}
	return &entry, nil
}

func (r *Resolver) base(remoteName string) (*url.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.bases[remoteName]; ok {
		return u, nil
	}

	raw, ok := r.manifest[remoteName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownRemote, remoteName)
	}

	u, err := ParseEntryURL(raw)
	if err != nil {
		return nil, fmt.Errorf("remote %s: %w", remoteName, err)
	}
	r.bases[remoteName] = u
	return u, nil
}
