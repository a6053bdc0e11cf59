package main

import (
	"fmt"
	"os"

	"github.com/3-lines-studio/mfeshell/internal/adapters/cli"
	"github.com/3-lines-studio/mfeshell/internal/adapters/fs"
	"github.com/3-lines-studio/mfeshell/internal/build"
	"github.com/spf13/cobra"
)

var (
	buildDist    string
	buildPackage string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the wasm client into the dist directory",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildDist, "dist", "", "Output directory (overrides config)")
	buildCmd.Flags().StringVar(&buildPackage, "package", build.DefaultPackage, "Client package to compile")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if buildDist != "" {
		cfg.DistDir = buildDist
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current working directory: %w", err)
	}

	out := newOutput(cmd)
	out.PrintHeader("mfeshell build")

	report := cli.NewReport(out, "Build", "routes", cfg.DistDir)
	report.SetCount(len(cfg.Routes))

	step := report.StartStep("Validate route table")
	_, err = cfg.RouteTable(nil)
	report.EndStep(step, err)

	builder := build.NewWasmBuilder(build.Options{
		Dir:     build.FindModuleRoot(cwd),
		Package: buildPackage,
		Dist:    fs.NewOSFileSystem(cfg.DistDir),
		Stdout:  out.Writer(),
		Stderr:  out.ErrWriter(),
		Logger:  logger,
	})

	step = report.StartStep("Compile " + buildPackage)
	result, err := builder.Build(cmd.Context())
	report.EndStep(step, err)
	if err == nil && result.Size > maxWasmSize {
		report.AddWarning(build.WasmFile, fmt.Sprintf("client is %d MB", result.Size>>20), "consider building with -ldflags=\"-s -w\"")
	}

	report.Render()
	if report.HasFailures() {
		return fmt.Errorf("build failed")
	}
	return nil
}

const maxWasmSize = 20 << 20
