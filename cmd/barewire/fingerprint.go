package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/benjamin-larsen/barewire/protocol"
	"github.com/benjamin-larsen/barewire/schema"
)

func newFingerprintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <schema.json>",
		Short: "Print a schema's deterministic UUID v5 identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadValidated(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), protocol.SchemaID(v).String())
			return nil
		},
	}
}

func loadValidated(path string) (*schema.Schema[schema.Validated], error) {
	draft, err := schema.LoadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading schema")
	}
	v, err := draft.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "schema is invalid")
	}
	return v, nil
}
