// SPDX-License-Identifier: MIT

// Command netqaoa solves small energy-network flow problems with a
// variational circuit and a derivative-free optimiser.
//
//	netqaoa solve --network grid.yaml --layers 2 --warm-start 8
//	netqaoa exact --network grid.yaml
//	netqaoa qubo  --network grid.yaml --format ising
//	netqaoa check --network grid.yaml --flows f_A_D,f_B_C
//	netqaoa serve --listen tcp://127.0.0.1:40899
//	netqaoa runs list --store-path runs.db
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
