package main

import (
	"fmt"
	"os"

	"github.com/3-lines-studio/mfeshell/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a starter config with a home page, a script MFE and a federated MFE",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath()
	if len(args) == 1 {
		path = args[0]
	}

	out := newOutput(cmd)
	out.PrintHeader("mfeshell init")

	if _, err := os.Stat(path); err == nil && !initForce {
		out.PrintWarning("%s already exists (use --force to overwrite)", path)
		return fmt.Errorf("%s already exists", path)
	}

	if err := config.Default().Save(path); err != nil {
		out.PrintError("%v", err)
		return err
	}

	out.PrintSuccess("Created config")
	out.PrintFile(path)
	fmt.Fprintln(out.Writer())
	out.PrintDone("Next: mfeshell build && mfeshell serve --dev")
	return nil
}
