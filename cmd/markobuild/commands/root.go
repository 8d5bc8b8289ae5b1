package commands

import (
	"github.com/spf13/cobra"
)

// Version is stamped at release time.
var Version = "0.1.0"

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "markobuild",
		Short: "Build the marko-browser playground bundle.",
		Long: `markobuild produces the browser bundle for the marko playground page.
It reads the bundler configuration (lasso.json), bundles the page entry script
together with the marko runtime libraries, and writes a single browser-loadable
file to the output directory.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "lasso.json", "Path to the bundler configuration file")

	root.AddCommand(
		newBuildCommand(&configPath),
		newWatchCommand(&configPath),
		newServeCommand(&configPath),
		newPublishCommand(&configPath),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI. Errors are printed by cobra; callers decide the exit
// code.
func Execute() error {
	return newRootCommand().Execute()
}
