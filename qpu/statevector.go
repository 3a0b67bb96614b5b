package qpu

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/oqtopus-team/grover-lab/circuit"
)

// StateVector holds 2^NumQubits amplitudes. Qubit q is bit 1<<q of the
// amplitude index.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

func (s *StateVector) Apply(g circuit.Gate) error {
	mask := 0
	for _, c := range g.Controls {
		mask |= 1 << c
	}
	switch g.Name {
	case circuit.H:
		if mask != 0 {
			return fmt.Errorf("controlled %s is not supported", g.Name)
		}
		s.applyH(g.Target)
	case circuit.X:
		s.applyX(mask, g.Target)
	case circuit.Z:
		s.applyPhase(mask, g.Target, -1)
	case circuit.P:
		s.applyPhase(mask, g.Target, cmplx.Exp(complex(0, g.Param())))
	case circuit.RY:
		if mask != 0 {
			return fmt.Errorf("controlled %s is not supported", g.Name)
		}
		s.applyRY(g.Target, g.Param())
	default:
		return fmt.Errorf("unknown gate %q", g.Name)
	}
	return nil
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = hFactor * (a + b)
			s.Amplitudes[j] = hFactor * (a - b)
		}
	}
}

// applyX flips the target on every basis state whose control bits are all set.
func (s *StateVector) applyX(mask, q int) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&mask == mask && i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyPhase(mask, q int, factor complex128) {
	all := mask | 1<<q
	for i := range s.Amplitudes {
		if i&all == all {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyRY(q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a - sn*b
			s.Amplitudes[j] = sn*a + c*b
		}
	}
}

func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// RegisterValue packs the bits of qubits found in basis index i into a
// value whose most significant bit is qubits[0].
func RegisterValue(i int, qubits []int) int {
	v := 0
	for _, q := range qubits {
		v <<= 1
		if i&(1<<q) != 0 {
			v |= 1
		}
	}
	return v
}

// BasisIndex is the inverse of RegisterValue for a single register: it
// returns the basis index with qubits set from value.
func BasisIndex(value int, qubits []int) int {
	i := 0
	n := len(qubits)
	for k, q := range qubits {
		if value&(1<<(n-1-k)) != 0 {
			i |= 1 << q
		}
	}
	return i
}
