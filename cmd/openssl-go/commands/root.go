package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptobind/openssl-go/pkg/openssl/logging"
)

var (
	verbose bool
	log     logging.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "openssl-go",
		Short:         "Inspect and exercise the linked OpenSSL library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			log = logging.New(slog.New(handler))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(versionCmd(), randCmd(), digestCmd(), certCmd())
	return root.Execute()
}
