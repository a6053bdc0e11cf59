package main

import (
	"fmt"

	"github.com/3-lines-studio/mfeshell/internal/config"
	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print and validate the route table",
	Args:  cobra.NoArgs,
	RunE:  runRoutes,
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	out.PrintHeader("Routes (" + path + ")")

	table, err := cfg.RouteTable(nil)
	if err != nil {
		out.PrintError("%v", err)
		return err
	}

	for _, r := range table.Routes() {
		out.PrintStep("%-16s %-11s %s", r.Path, r.Strategy.Kind(), describe(r.Strategy))
	}
	fmt.Fprintln(out.Writer())

	errs := cfg.Validate(nil)
	for _, err := range errs {
		out.PrintError("%v", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d invalid route(s)", len(errs))
	}

	out.PrintSuccess("%d routes valid", table.Len())
	return nil
}

func describe(s core.Strategy) string {
	switch s := s.(type) {
	case core.Inline:
		return s.Name
	case core.ScriptBacked:
		return fmt.Sprintf("<%s> from %s", s.ElementName, s.ScriptURL)
	case core.FederationBacked:
		return fmt.Sprintf("<%s> from %s %s", s.ElementName, s.RemoteName, s.ExposedModule)
	default:
		return ""
	}
}

// routeLabel falls back to the path like the host page navigation does.
func routeLabel(rc config.RouteConfig) string {
	if rc.Label != "" {
		return rc.Label
	}
	return rc.Path
}
