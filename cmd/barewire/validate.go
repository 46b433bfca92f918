package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/benjamin-larsen/barewire/schema"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema.json>",
		Short: "Load a schema and report the first validation error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := schema.LoadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "loading schema")
			}
			if _, err := draft.Validate(); err != nil {
				return errors.Wrap(err, "schema is invalid")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is valid")
			return nil
		},
	}
}
