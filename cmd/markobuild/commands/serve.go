package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mlrawlings/marko-browser-playground-sub001/bundle"
	"github.com/mlrawlings/marko-browser-playground-sub001/livereload"
	"github.com/mlrawlings/marko-browser-playground-sub001/server"
)

func newServeCommand(configPath *string) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the bundle and serve the playground page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bundle.LoadConfigFromFile(*configPath)
			if err != nil {
				return err
			}
			// The page references the bundle by its plain name; a hashed name
			// would change on every rebuild.
			cfg.Fingerprint = false

			req := bundle.DefaultRequest()
			bundler := bundle.NewBundler(cfg)

			var hub *livereload.Hub
			if watch {
				hub = livereload.NewHub()
				go hub.Run()

				stop, err := bundler.Watch(req, func(res *bundle.Result, err error) {
					if err != nil {
						logrus.WithError(err).Error("rebuild failed")
						return
					}
					logrus.WithField("output", res.OutputPath).Info("bundle rebuilt, reloading pages")
					hub.BroadcastReload(res.OutputPath)
				})
				if err != nil {
					return err
				}
				defer stop()
			} else {
				if _, err := bundler.Build(req); err != nil {
					return err
				}
			}

			logrus.WithField("addr", addr).Info("serving playground")
			return server.New(cfg, req.Name, hub).Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to serve the playground on")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild on change and live-reload connected pages")
	return cmd
}
