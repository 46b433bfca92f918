package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <schema.json>",
		Short: "Print a schema's canonical textual rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadValidated(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), v.CanonicalText())
			return nil
		},
	}
}
