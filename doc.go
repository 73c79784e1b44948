// SPDX-License-Identifier: MIT

// Package netqaoa turns a small energy-network flow problem into a
// penalty QUBO and searches it with a depth-p alternating-operator circuit.
//
// Sources generate at a unit cost up to an integer capacity, sinks demand
// an integer amount, and one relay (a battery) may buffer flow between
// them. Every permitted arc is a binary variable and, one to one, a qubit.
//
// Packages:
//
//	network/              topology, arcs, YAML loading, feasibility, constraint report
//	qubo/                 penalty builder, energy, Ising form, exact oracle, Q matrix
//	sample/               measured distributions and the bit-string convention
//	circuit/              variational circuit builder, stats, OpenQASM export
//	backend/              execution backend contract and decorators
//	backend/statevector/  in-process simulator
//	backend/remote/       nanomsg client and server
//	optimize/             Nelder–Mead angle search with retry and warm start
//	qaoa/                 end-to-end solver
//	metrics/, store/, config/, cmd/netqaoa/
//
// Bit convention: character i of a bit-string is variable i is qubit i.
// Among equal energies the lowest value wins, variable 0 being the least
// significant bit.
//
// Quick start:
//
//	net, _ := network.LoadFile("grid.yaml")
//	s, _ := qaoa.NewSolver(statevector.New(), config.Default())
//	rep, _ := s.Solve(ctx, net)
//	fmt.Println(rep.MostFrequent.Flows)
package netqaoa
