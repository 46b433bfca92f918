package main

import (
	"github.com/spf13/cobra"

	"github.com/benjamin-larsen/barewire/internal/logging"
)

var logLevel string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "barewire",
		Short:         "Inspect and exercise BARE wire-format schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.SetLevel(logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newValidateCommand(),
		newFingerprintCommand(),
		newRenderCommand(),
		newServeCommand(),
	)
	return cmd
}
