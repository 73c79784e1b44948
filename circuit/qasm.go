// SPDX-License-Identifier: MIT

package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// QASM renders c as OpenQASM 2.0 over qelib1.inc. Qubit q is measured
// into classical bit c[q].
func (c *Circuit) QASM() string {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\ninclude \"qelib1.inc\";\n")
	fmt.Fprintf(&b, "qreg q[%d];\ncreg c[%d];\n", c.Qubits, c.Qubits)
	for _, g := range c.Gates {
		switch {
		case g.Op == OpMeasure:
			fmt.Fprintf(&b, "measure q[%d] -> c[%d];\n", g.Qubits[0], g.Qubits[0])
			continue
		case g.Op.parametric():
			fmt.Fprintf(&b, "%s(%s) ", g.Op, strconv.FormatFloat(g.Angle, 'g', -1, 64))
		default:
			fmt.Fprintf(&b, "%s ", g.Op)
		}
		for i, q := range g.Qubits {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "q[%d]", q)
		}
		b.WriteString(";\n")
	}
	return b.String()
}
