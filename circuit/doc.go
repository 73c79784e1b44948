// SPDX-License-Identifier: MIT

// Package circuit builds depth-p alternating-operator (QAOA) circuits from
// an Ising model and a vector of 2p angles.
//
// Angle layout:
//
//	angles[0:p]   γ_1..γ_p   cost-phase angles
//	angles[p:2p]  β_1..β_p   mixer angles
//
// Gate sequence:
//
//	h(q)                               for every qubit            (layer 0)
//	for k = 1..p:
//	    rz(2·γ_k·h_i)          on i    for |h_i| > threshold, ascending i
//	    rzz(2·γ_k·J_ij)        on i,j  for every coupling, sorted (i, j)
//	    rx(2·β_k)              on q    for every qubit
//	measure(q)                         for every qubit            (layer p+1)
//
// Sign convention: the cost unitary is exp(−iγ·H) for the Ising energy
// H = Σ h_i Z_i + Σ J_ij Z_i Z_j, with rz(θ) = exp(−iθZ/2),
// rzz(θ) = exp(−iθ Z⊗Z/2) and rx(θ) = exp(−iθX/2). A QUBO is always
// converted through qubo.ToIsing first (FromQUBO), so there is one
// convention only.
//
// Qubit q carries variable q and lands in character q of every measured
// bit-string (see package sample).
//
// Circuits are plain values: Build is pure, safe for concurrent use, and
// the JSON form of Circuit is the wire format of the remote backend.
package circuit
