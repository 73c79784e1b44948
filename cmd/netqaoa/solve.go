// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/netqaoa/metrics"
	"github.com/katalvlaran/netqaoa/network"
	"github.com/katalvlaran/netqaoa/qaoa"
	"github.com/katalvlaran/netqaoa/store"
)

func newSolveCmd(a *app) *cobra.Command {
	var (
		netPath string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Optimise the circuit for a network and decode the samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			net, err := network.LoadFile(netPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b, closeBackend, err := qaoa.NewBackend(a.cfg, a.log)
			if err != nil {
				return err
			}
			defer closeBackend()

			opts := []qaoa.Option{qaoa.WithLogger(a.log.WithName("solver"))}
			if a.cfg.StorePath != "" {
				st, err := store.Open(a.cfg.StorePath)
				if err != nil {
					return err
				}
				defer st.Close()
				opts = append(opts, qaoa.WithStore(st))
			}
			if a.cfg.MetricsAddr != "" {
				reg := metrics.NewRegistry()
				defer serveMetrics(a.cfg.MetricsAddr, reg, a.log)()
				opts = append(opts, qaoa.WithMetrics(reg))
			}

			s, err := qaoa.NewSolver(b, a.cfg, opts...)
			if err != nil {
				return err
			}
			rep, err := s.Solve(ctx, net)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), output, rep)
		},
	}
	cmd.Flags().StringVar(&netPath, "network", "", "network description file (YAML)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text|json")
	_ = cmd.MarkFlagRequired("network")
	return cmd
}
