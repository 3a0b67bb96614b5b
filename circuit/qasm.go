package circuit

import (
	"fmt"
	"math"
	"strings"
)

// ToQASM renders the circuit as OpenQASM 3. Multi-controlled gates beyond
// the Toffoli use the ctrl modifier.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 3.0;\n")
	sb.WriteString("include \"stdgates.inc\";\n")
	fmt.Fprintf(&sb, "qubit[%d] q;\n", c.NumQubits)
	for _, m := range c.Measurements {
		fmt.Fprintf(&sb, "bit[%d] %s;\n", len(m.Qubits), m.Key)
	}
	for _, g := range c.Gates {
		sb.WriteString(gateToQASM(g))
		sb.WriteString("\n")
	}
	for _, m := range c.Measurements {
		for i, q := range m.Qubits {
			fmt.Fprintf(&sb, "%s[%d] = measure q[%d];\n", m.Key, i, q)
		}
	}
	return sb.String()
}

func gateToQASM(g Gate) string {
	operands := make([]string, 0, len(g.Controls)+1)
	for _, q := range g.Qubits() {
		operands = append(operands, fmt.Sprintf("q[%d]", q))
	}
	name := g.Name
	switch {
	case len(g.Controls) == 0:
	case len(g.Controls) == 1 && (g.Name == X || g.Name == Z):
		name = "c" + g.Name
	case len(g.Controls) == 2 && g.Name == X:
		name = "ccx"
	default:
		name = fmt.Sprintf("ctrl(%d) @ %s", len(g.Controls), g.Name)
	}
	if len(g.Params) > 0 {
		name = fmt.Sprintf("%s(%s)", name, formatParam(g.Param()))
	}
	return fmt.Sprintf("%s %s;", name, strings.Join(operands, ", "))
}

func formatParam(val float64) string {
	piForms := []struct {
		value   float64
		display string
	}{
		{2 * math.Pi, "2*pi"},
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 4, "pi/4"},
		{3 * math.Pi / 2, "3*pi/2"},
	}
	for _, pf := range piForms {
		if math.Abs(val-pf.value) < 1e-10 {
			return pf.display
		}
		if math.Abs(val+pf.value) < 1e-10 {
			return "-" + pf.display
		}
	}
	return fmt.Sprintf("%g", val)
}
