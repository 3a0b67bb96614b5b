package circuit

import (
	"fmt"
	"slices"
	"strings"
)

const (
	H  = "h"
	X  = "x"
	Z  = "z"
	RY = "ry"
	// P is the phase gate diag(1, e^{i*theta}).
	P = "p"
)

// Gate is a single-target operation with zero or more control qubits.
// A controlled X with two controls is a Toffoli.
type Gate struct {
	Name     string    `json:"name"`
	Target   int       `json:"target"`
	Controls []int     `json:"controls,omitempty"`
	Params   []float64 `json:"params,omitempty"`
}

func NewH(q int) Gate { return Gate{Name: H, Target: q} }

func NewX(q int) Gate { return Gate{Name: X, Target: q} }

func NewZ(q int) Gate { return Gate{Name: Z, Target: q} }

func NewRY(q int, theta float64) Gate {
	return Gate{Name: RY, Target: q, Params: []float64{theta}}
}

func NewPhase(q int, theta float64) Gate {
	return Gate{Name: P, Target: q, Params: []float64{theta}}
}

func NewCX(control, target int) Gate {
	return Gate{Name: X, Target: target, Controls: []int{control}}
}

func NewCZ(control, target int) Gate {
	return Gate{Name: Z, Target: target, Controls: []int{control}}
}

// NewMCX copies controls so that callers may reuse their slice.
func NewMCX(controls []int, target int) Gate {
	return Gate{Name: X, Target: target, Controls: slices.Clone(controls)}
}

func NewMCZ(controls []int, target int) Gate {
	return Gate{Name: Z, Target: target, Controls: slices.Clone(controls)}
}

// Qubits returns the controls followed by the target.
func (g Gate) Qubits() []int {
	qs := make([]int, 0, len(g.Controls)+1)
	qs = append(qs, g.Controls...)
	return append(qs, g.Target)
}

func (g Gate) Param() float64 {
	if len(g.Params) == 0 {
		return 0
	}
	return g.Params[0]
}

// Inverse returns the adjoint of g. H, X and Z (controlled or not) are
// self-inverse, rotations negate their angle.
func (g Gate) Inverse() Gate {
	inv := Gate{Name: g.Name, Target: g.Target, Controls: slices.Clone(g.Controls)}
	for _, p := range g.Params {
		inv.Params = append(inv.Params, -p)
	}
	return inv
}

func (g Gate) String() string {
	var sb strings.Builder
	for range g.Controls {
		sb.WriteString("c")
	}
	sb.WriteString(g.Name)
	if len(g.Params) > 0 {
		fmt.Fprintf(&sb, "(%s)", formatParam(g.Param()))
	}
	qs := make([]string, 0, len(g.Controls)+1)
	for _, q := range g.Qubits() {
		qs = append(qs, fmt.Sprintf("q%d", q))
	}
	fmt.Fprintf(&sb, " %s", strings.Join(qs, ","))
	return sb.String()
}

// Inverse returns the adjoint of a gate sequence: each gate inverted, in
// reverse order.
func Inverse(gates []Gate) []Gate {
	inv := make([]Gate, 0, len(gates))
	for i := len(gates) - 1; i >= 0; i-- {
		inv = append(inv, gates[i].Inverse())
	}
	return inv
}

// Layer applies the same single-qubit gate constructor to every qubit.
func Layer(newGate func(int) Gate, qubits []int) []Gate {
	gates := make([]Gate, 0, len(qubits))
	for _, q := range qubits {
		gates = append(gates, newGate(q))
	}
	return gates
}
