// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/netqaoa/backend"
	"github.com/katalvlaran/netqaoa/backend/remote"
	"github.com/katalvlaran/netqaoa/backend/statevector"
	"github.com/katalvlaran/netqaoa/metrics"
)

// DefaultListen is the address serve binds without --listen.
const DefaultListen = "tcp://127.0.0.1:40899"

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the state-vector simulator as a remote backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var b backend.Backend = statevector.New(
				statevector.WithSeed(a.cfg.Seed),
				statevector.WithMaxQubits(a.cfg.MaxQubits),
				statevector.WithLogger(a.log.WithName("statevector")),
			)
			if a.cfg.MetricsAddr != "" {
				reg := metrics.NewRegistry()
				defer serveMetrics(a.cfg.MetricsAddr, reg, a.log)()
				b = backend.Instrument(b, reg)
			}
			return remote.Serve(ctx, listen, b,
				remote.WithWorkers(a.cfg.Workers),
				remote.WithServerLogger(a.log.WithName("remote")),
			)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", DefaultListen, "nanomsg address to bind")
	return cmd
}
