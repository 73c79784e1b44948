// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/network"
	"github.com/katalvlaran/netqaoa/qubo"
)

func newQUBOCmd(a *app) *cobra.Command {
	var (
		netPath    string
		format     string
		angles     []float64
		decomposed bool
	)
	cmd := &cobra.Command{
		Use:   "qubo",
		Short: "Print the penalty QUBO, its Ising form or the circuit",
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
			w := cmd.OutOrStdout()
			switch format {
			case "terms":
				return writeTerms(w, m, arcs)
			case "ising":
				is, err := qubo.ToIsing(m, len(arcs))
				if err != nil {
					return err
				}
				return writeIsing(w, is, arcs)
			case "qasm":
				if len(angles) == 0 {
					angles = make([]float64, 2*a.cfg.Layers)
					for i := range angles {
						angles[i] = a.cfg.InitialAngle
					}
				}
				var opts []circuit.Option
				if decomposed {
					opts = append(opts, circuit.WithDecomposedZZ())
				}
				c, err := circuit.FromQUBO(m, len(arcs), angles, a.cfg.Layers, opts...)
				if err != nil {
					return err
				}
				_, err = io.WriteString(w, c.QASM())
				return err
			default:
				return fmt.Errorf("unknown format %q (terms|ising|qasm)", format)
			}
		},
	}
	cmd.Flags().StringVar(&netPath, "network", "", "network description file (YAML)")
	cmd.Flags().StringVar(&format, "format", "terms", "terms|ising|qasm")
	cmd.Flags().Float64SliceVar(&angles, "angles", nil, "qasm: γ_1..γ_p then β_1..β_p (default: initial-angle)")
	cmd.Flags().BoolVar(&decomposed, "decompose-zz", false, "qasm: emit cx-rz-cx instead of rzz")
	_ = cmd.MarkFlagRequired("network")
	return cmd
}
