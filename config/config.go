// Package config defines the flag-backed options shared by the
// cmd/barewire subcommands: which transport to dial or listen on, where
// the schema file lives, and how long an operation waits before giving
// up.
package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Options holds the flag-backed settings of cmd/barewire. Not every
// subcommand uses every field: serve registers flags for the fields it
// reads itself, while InstallFlags registers all of them at once.
type Options struct {
	// SchemaPath is the JSON schema file serve loads. validate,
	// fingerprint and render take the path as a positional argument instead.
	SchemaPath string

	// Network is the transport kind serve listens on: "tcp" or "unix".
	Network string
	// Addr is the listen address for Network (host:port for tcp, a socket
	// path for unix).
	Addr string

	// Timeout holds the --timeout value for a single call or handshake.
	// No cmd/barewire subcommand reads it.
	Timeout time.Duration

	// LogLevel holds the --log-level value. The root command applies its
	// own persistent --log-level flag, not this field.
	LogLevel string
}

// NewOptions returns an Options populated with defaults. Call
// InstallFlags afterward to let command-line flags override them.
func NewOptions() *Options {
	return &Options{
		Network:  "tcp",
		Addr:     "127.0.0.1:0",
		Timeout:  5 * time.Second,
		LogLevel: "info",
	}
}

// InstallFlags registers every option onto flags, using each field's
// current value as the flag's default.
func (o *Options) InstallFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SchemaPath, "schema", o.SchemaPath, "path to a schema JSON file")
	flags.StringVar(&o.Network, "network", o.Network, `transport kind to use ("tcp" or "unix")`)
	flags.StringVar(&o.Addr, "addr", o.Addr, "listen or dial address")
	flags.DurationVar(&o.Timeout, "timeout", o.Timeout, "timeout for a single call or handshake")
	flags.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level (debug, info, warn, error)")
}
