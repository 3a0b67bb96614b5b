package oracle

import (
	"fmt"
	"slices"

	"github.com/oqtopus-team/grover-lab/circuit"
	"go.uber.org/multierr"
)

type builder struct {
	gates []circuit.Gate
	data  []int
}

func (b *builder) emit(gates ...circuit.Gate) {
	b.gates = append(b.gates, gates...)
}

func (b *builder) flip(qubits []int) {
	b.emit(circuit.Layer(circuit.NewX, qubits)...)
}

// withTerms computes every term into its own ancilla, lets combine read
// them, then uncomputes the terms in exact reverse order. Nested terms
// borrow from free beyond the term slots.
func (b *builder) withTerms(terms []Predicate, free []int, combine func(slots []int)) {
	slots, rest := free[:len(terms)], free[len(terms):]
	start := len(b.gates)
	for i, t := range terms {
		t.compile(b, slots[i], rest)
	}
	compute := slices.Clone(b.gates[start:])
	combine(slots)
	b.emit(circuit.Inverse(compute)...)
}

// Build emits the gate sequence that flips marker exactly on the data
// assignments satisfying p and leaves every ancilla as it found it.
// Every construction problem found is reported in one aggregated error.
func Build(p Predicate, data []int, marker int, ancillas []int) ([]circuit.Gate, error) {
	err := Validate(p)
	if err == nil {
		if p.Arity() != len(data) {
			err = multierr.Append(err, fmt.Errorf("%w: predicate arity %d, register width %d",
				ErrArityMismatch, p.Arity(), len(data)))
		}
		if need := p.Ancillas(); len(ancillas) < need {
			err = multierr.Append(err, fmt.Errorf("%w: need %d, got %d",
				ErrInsufficientAncillas, need, len(ancillas)))
		}
	}
	err = multierr.Append(err, checkDistinct(data, marker, ancillas))
	if err != nil {
		return nil, err
	}
	b := &builder{data: data}
	p.compile(b, marker, ancillas)
	return b.gates, nil
}

// Validate checks the predicate's own structure: term arities, pattern
// syntax and pattern disjointness.
func Validate(p Predicate) error {
	if p == nil {
		return fmt.Errorf("no predicate")
	}
	return p.validate()
}

func checkDistinct(data []int, marker int, ancillas []int) error {
	seen := map[int]string{}
	var err error
	check := func(q int, role string) {
		if q < 0 {
			err = multierr.Append(err, fmt.Errorf("%s qubit %d is negative", role, q))
			return
		}
		if prev, ok := seen[q]; ok {
			err = multierr.Append(err, fmt.Errorf("qubit %d is used as %s and %s", q, prev, role))
			return
		}
		seen[q] = role
	}
	for _, q := range data {
		check(q, "data")
	}
	check(marker, "marker")
	for _, q := range ancillas {
		check(q, "ancilla")
	}
	return err
}

// Bits unpacks value into arity bits; bits[0] is the most significant.
func Bits(value, arity int) []bool {
	bits := make([]bool, arity)
	for i := range bits {
		bits[i] = value&(1<<(arity-1-i)) != 0
	}
	return bits
}

// BitString renders value as an arity-wide binary string, qubit 0 first.
func BitString(value, arity int) string {
	return fmt.Sprintf("%0*b", arity, value)
}

func Matches(p Predicate, value int) bool {
	return p.Eval(Bits(value, p.Arity()))
}

// Solutions lists the marked assignments in ascending order.
func Solutions(p Predicate) []int {
	var out []int
	for v := 0; v < 1<<p.Arity(); v++ {
		if Matches(p, v) {
			out = append(out, v)
		}
	}
	return out
}

func SolutionCount(p Predicate) int {
	return len(Solutions(p))
}
