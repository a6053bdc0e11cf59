package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/3-lines-studio/mfeshell/internal/adapters/cli"
	"github.com/3-lines-studio/mfeshell/internal/adapters/federation"
	"github.com/3-lines-studio/mfeshell/internal/config"
	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const checkConcurrency = 4

var checkTimeout time.Duration

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every route's script or remote module over HTTP",
	Long: `Validate the route table, then fetch each script url and, for federated
routes, the remote entry and the exposed module file. Exits non-zero when
any route would fail to load.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Second, "Per request timeout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	out.PrintHeader("mfeshell check")

	report := cli.NewReport(out, "Check", "routes", "")
	report.SetCount(len(cfg.Routes))

	checker := newRouteChecker(cfg, &http.Client{Timeout: checkTimeout}, report)

	step := report.StartStep("Validate route table")
	err = checker.validate()
	report.EndStep(step, err)

	if err == nil {
		step = report.StartStep("Probe scripts and remotes")
		report.EndStep(step, checker.probe(cmd.Context()))
	}

	report.Render()
	if report.HasFailures() {
		return fmt.Errorf("check failed")
	}
	return nil
}

// routeChecker reports one issue per failing route.
type routeChecker struct {
	cfg      config.Config
	client   *http.Client
	resolver *federation.Resolver

	mu     sync.Mutex
	report *cli.Report
	valid  []core.Route
}

func newRouteChecker(cfg config.Config, client *http.Client, report *cli.Report) *routeChecker {
	return &routeChecker{
		cfg:    cfg,
		client: client,
		resolver: federation.NewResolver(federation.Options{
			Remotes: federation.Manifest(cfg.Remotes),
			Client:  client,
			Logger:  logger,
		}),
		report: report,
	}
}

func (c *routeChecker) validate() error {
	table, err := c.cfg.RouteTable(nil)
	if err != nil {
		return err
	}

	invalid := make(map[string]bool)
	for _, err := range c.cfg.Validate(nil) {
		var ce *core.ConfigurationError
		if errors.As(err, &ce) {
			invalid[ce.Path] = true
			c.report.AddError(c.subject(ce.Path), ce.Reason)
			continue
		}
		c.report.AddError("config", err.Error())
	}

	for _, r := range table.Routes() {
		if !invalid[r.Path] {
			c.valid = append(c.valid, r)
		}
	}
	return nil
}

// probe never fails itself; unreachable routes are reported as issues.
func (c *routeChecker) probe(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)

	for _, r := range c.valid {
		g.Go(func() error {
			c.probeRoute(ctx, r)
			return nil
		})
	}
	return g.Wait()
}

func (c *routeChecker) probeRoute(ctx context.Context, r core.Route) {
	switch s := r.Strategy.(type) {
	case core.Inline:
		return
	case core.ScriptBacked:
		if err := c.fetch(ctx, s.ScriptURL); err != nil {
			c.addError(r.Path, "script unreachable", err.Error())
		}
	case core.FederationBacked:
		moduleURL, err := c.resolver.ModuleURL(ctx, s.RemoteName, s.ExposedModule)
		if err != nil {
			c.addError(r.Path, fmt.Sprintf("remote %s (%s) unresolved", s.RemoteName, s.ExposedModule), err.Error())
			return
		}
		if err := c.fetch(ctx, moduleURL); err != nil {
			c.addError(r.Path, "exposed module unreachable", err.Error())
		}
	}
}

func (c *routeChecker) fetch(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !core.IsScriptContentType(ct) {
		c.mu.Lock()
		c.report.AddWarning(rawURL, "unexpected content type "+ct)
		c.mu.Unlock()
	}

	logger.Debug("probe ok", zap.String("url", rawURL))
	return nil
}

func (c *routeChecker) addError(path, message string, details ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.AddError(c.subject(path), message, details...)
}

func (c *routeChecker) subject(path string) string {
	for _, rc := range c.cfg.Routes {
		if rc.Path == path {
			if label := routeLabel(rc); label != path {
				return path + " (" + label + ")"
			}
		}
	}
	return path
}
