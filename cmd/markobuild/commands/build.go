package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mlrawlings/marko-browser-playground-sub001/bundle"
)

func newBuildCommand(configPath *string) *cobra.Command {
	var (
		initSnippet bool
		name        string
		deps        []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the browser bundle once.",
		Long: `Runs one bundling operation and reports its outcome. On success the
bundle is written to the configured output directory and "Written." is printed.
On failure the bundler's error propagates and nothing is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bundle.LoadConfigFromFile(*configPath)
			if err != nil {
				return err
			}
			if initSnippet {
				cfg.AppendInitSnippet = true
			}

			req := bundle.DefaultRequest()
			if name != "" {
				req.Name = name
			}
			if len(deps) > 0 {
				parsed, err := bundle.ParseDependencies(deps)
				if err != nil {
					return err
				}
				req.Dependencies = parsed
			}

			res, err := bundle.NewBundler(cfg).Build(req)
			if err != nil {
				return err
			}

			for _, warning := range res.Warnings {
				logrus.Warn(warning)
			}
			logrus.WithFields(logrus.Fields{
				"output":   res.OutputPath,
				"size":     res.Size,
				"duration": res.Duration,
			}).Info("bundle written")

			fmt.Fprintln(cmd.OutOrStdout(), "Written.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&initSnippet, "init-snippet", false, "Append the module-loader init snippet to the bundle")
	cmd.Flags().StringVar(&name, "name", "", "Override the bundle name (default \"marko-browser\")")
	cmd.Flags().StringArrayVarP(&deps, "dependency", "d", nil, "Dependency specifier, e.g. 'require: marko' (repeatable; defaults to the marko-browser set)")
	return cmd
}
