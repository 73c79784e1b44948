// SPDX-License-Identifier: MIT

// Package network describes the discrete energy-flow problem that netqaoa
// encodes: a set of generating sources, a set of demanding sinks and exactly
// one relay (storage/battery) node between them.
//
// What is modelled?
//
//	        ┌──────────────┐
//	  A ───►│              │───► C
//	   \    │   relay  E   │    ▲
//	    └──►│              │───►D
//	  B ───►└──────────────┘
//
//	Every permitted directed arc carries one binary decision variable:
//	  • source → sink
//	  • source → relay
//	  • relay  → sink
//	No self-loops, no arcs between two sources or two sinks, nothing into a
//	source.
//
// Arc records
//
//	Arcs are first-class values (Arc{Index, From, To, Kind}). The legacy
//	display form "f_<from>_<to>" is produced by Arc.Name and never parsed
//	back by the solver itself; ParseArcName and Assign read user-supplied
//	flow lists such as the check command's --flows. Because '_' is the display separator, node names must not
//	contain it.
//
// Ordering
//
//	Arcs are enumerated deterministically: for every node in
//	(sources, sinks, relay) order, for every destination in the same order,
//	permitted arcs are kept. Arc.Index is the position in that order and is
//	the QUBO variable index and the circuit qubit index.
//
// Oracles
//
//	MaxDeliverable runs Edmonds–Karp on the unit-arc network and tells
//	whether the demand can be routed at all; Check validates a binary
//	assignment against demands, capacities and relay balance.
//
// Errors
//
//	ErrConfiguration – malformed description (wrapped by ConfigurationError).
//	ErrArcName       – ParseArcName received something that is not f_<a>_<b>.
//	ErrUnknownArc    – Assign received a name outside the permitted arcs.
package network
