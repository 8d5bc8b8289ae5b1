package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mlrawlings/marko-browser-playground-sub001/bundle"
)

func newWatchCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the bundle whenever a source file changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bundle.LoadConfigFromFile(*configPath)
			if err != nil {
				return err
			}

			req := bundle.DefaultRequest()
			stop, err := bundle.NewBundler(cfg).Watch(req, func(res *bundle.Result, err error) {
				if err != nil {
					logrus.WithError(err).Error("rebuild failed")
					return
				}
				logrus.WithFields(logrus.Fields{
					"output":   res.OutputPath,
					"size":     res.Size,
					"duration": res.Duration,
				}).Info("bundle rebuilt")
			})
			if err != nil {
				return err
			}
			defer stop()

			logrus.Info("watching for changes, press Ctrl+C to stop")
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			<-sigs
			return nil
		},
	}
	return cmd
}
