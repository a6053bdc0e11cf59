package main

import (
	"fmt"
	"os"

	"github.com/3-lines-studio/mfeshell/internal/adapters/cli"
	"github.com/3-lines-studio/mfeshell/internal/adapters/env"
	"github.com/3-lines-studio/mfeshell/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mfeshell",
	Short: "Host shell for script-backed and federated micro-frontends",
	Long: `mfeshell serves a host page whose wasm client routes between
micro-frontends: plain scripts that define a custom element, and federated
modules resolved through a remote entry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $"+env.ConfigVar+" or "+config.DefaultFile+")")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return env.ConfigPath(config.DefaultFile)
}

// loadConfig reads the config file, falling back to the stock shell when it
// does not exist.
func loadConfig() (config.Config, string, error) {
	path := resolveConfigPath()
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return config.Config{}, path, err
	}
	return cfg, path, nil
}

func newOutput(cmd *cobra.Command) *cli.Output {
	return cli.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
}
