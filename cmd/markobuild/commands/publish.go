package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mlrawlings/marko-browser-playground-sub001/bundle"
	"github.com/mlrawlings/marko-browser-playground-sub001/publish"
)

func newPublishCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the built bundle to the configured B2 bucket.",
		Long: `Uploads the bundle (and its source map when present) to Backblaze B2.
Credentials come from B2_ACCOUNT_ID, B2_APPLICATION_KEY and B2_BUCKET, loaded
from a .env file when one exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bundle.LoadConfigFromFile(*configPath)
			if err != nil {
				return err
			}

			name := bundle.DefaultRequest().Name
			bundlePath := filepath.Join(cfg.OutputDir, name+".js")
			if _, err := os.Stat(bundlePath); err != nil {
				return fmt.Errorf("no bundle to publish, run 'markobuild build' first: %w", err)
			}

			creds, err := publish.LoadCredentials()
			if err != nil {
				return err
			}
			return publish.Upload(cmd.Context(), creds, bundlePath, bundlePath+".map")
		},
	}
	return cmd
}
