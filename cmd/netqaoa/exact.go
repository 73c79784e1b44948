// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/netqaoa/network"
	"github.com/katalvlaran/netqaoa/qubo"
)

// exactResult is the JSON shape of the exact command.
type exactResult struct {
	Arcs     []network.Arc  `json:"arcs"`
	Solution qubo.Solution  `json:"solution"`
	Flows    []string       `json:"flows"`
	Check    network.Report `json:"check"`
}

func newExactCmd(a *app) *cobra.Command {
	var (
		netPath string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "exact",
		Short: "Solve the penalty QUBO by enumeration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			net, err := network.LoadFile(netPath)
			if err != nil {
				return err
			}
			m, arcs, err := qubo.Build(net, a.cfg.Penalty)
			if err != nil {
				return err
			}
			sol, err := qubo.Exact(cmd.Context(), m, a.cfg.ExactLimit)
			if err != nil {
				return err
			}
			res := exactResult{Arcs: arcs, Solution: sol, Check: net.Check(arcs, sol.Bits)}
			for _, arc := range res.Check.Active {
				res.Flows = append(res.Flows, arc.Name())
			}
			return printExact(cmd.OutOrStdout(), output, res)
		},
	}
	cmd.Flags().StringVar(&netPath, "network", "", "network description file (YAML)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text|json")
	_ = cmd.MarkFlagRequired("network")
	return cmd
}
