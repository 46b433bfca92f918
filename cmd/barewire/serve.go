package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/benjamin-larsen/barewire/config"
	"github.com/benjamin-larsen/barewire/frame"
	"github.com/benjamin-larsen/barewire/protocol"
	"github.com/benjamin-larsen/barewire/transport"
)

func newServeCommand() *cobra.Command {
	opts := config.NewOptions()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start an echo protocol server for manual exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Network, "network", opts.Network, `transport kind ("tcp" or "unix")`)
	cmd.Flags().StringVar(&opts.Addr, "addr", opts.Addr, "listen address")
	cmd.Flags().StringVar(&opts.SchemaPath, "schema", opts.SchemaPath, "path to a schema JSON file")
	cmd.MarkFlagRequired("schema")
	return cmd
}

func runServe(cmd *cobra.Command, opts *config.Options) error {
	v, err := loadValidated(opts.SchemaPath)
	if err != nil {
		return err
	}

	var ln transport.Listener
	switch opts.Network {
	case "tcp":
		ln, err = transport.ListenTCP(opts.Addr, transport.StreamOptions{})
	case "unix":
		ln, err = transport.ListenUnix(opts.Addr, transport.StreamOptions{})
	default:
		return errors.Errorf("unsupported network %q (want tcp or unix)", opts.Network)
	}
	if err != nil {
		return errors.Wrap(err, "opening listener")
	}
	defer ln.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "listening on %s://%s\n", opts.Network, ln.Addr())

	srv := protocol.NewServer(ln, v, echoConn)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return srv.ListenAndServe(ctx)
}

// echoConn answers every Request frame with a Response frame carrying the
// same decoded value back to the sender, ignoring all other frame types,
// until the connection errors or closes.
func echoConn(ctx context.Context, conn *protocol.Conn) {
	for {
		f, val, err := conn.Receive(ctx)
		if err != nil {
			return
		}
		if f.Type != frame.Request {
			continue
		}
		if _, err := conn.SendWithID(ctx, frame.Response, f.MessageID, val); err != nil {
			return
		}
	}
}
