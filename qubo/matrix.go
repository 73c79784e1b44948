// SPDX-License-Identifier: MIT

package qubo

import "gonum.org/v1/gonum/mat"

// Matrix returns the symmetric Q with xᵀQx + Offset == Energy(x): linear
// weights on the diagonal, each quadratic weight split evenly over Q[i][j]
// and Q[j][i]. It returns nil for a model without variables.
//
// Complexity: O(n² + T).
func (m *Model) Matrix() *mat.SymDense {
	if m.N <= 0 {
		return nil
	}
	q := mat.NewSymDense(m.N, nil)
	for _, t := range m.Terms() {
		if t.Linear() {
			q.SetSym(t.I, t.I, q.At(t.I, t.I)+t.Weight)
			continue
		}
		q.SetSym(t.I, t.J, q.At(t.I, t.J)+t.Weight/2)
	}
	return q
}

// QuadraticForm evaluates xᵀQx for bits through the dense matrix view.
func QuadraticForm(q *mat.SymDense, bits []uint8) float64 {
	if q == nil {
		return 0
	}
	x := mat.NewVecDense(len(bits), nil)
	for i, b := range bits {
		x.SetVec(i, float64(b))
	}
	var qx mat.VecDense
	qx.MulVec(q, x)
	return mat.Dot(x, &qx)
}
