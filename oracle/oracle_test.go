//go:build unit
// +build unit

package oracle

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/oqtopus-team/grover-lab/circuit"
	"github.com/oqtopus-team/grover-lab/qpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

// runOracle applies gates to the basis state holding value on data and
// returns the single basis index the state ends in.
func runOracle(t *testing.T, gates []circuit.Gate, numQubits int, data []int, value int) int {
	sv := qpu.NewStateVector(numQubits)
	sv.Amplitudes[0] = 0
	sv.Amplitudes[qpu.BasisIndex(value, data)] = 1
	for _, g := range gates {
		require.Nil(t, sv.Apply(g))
	}
	for i, p := range sv.Probabilities() {
		if p > 0.5 {
			return i
		}
	}
	t.Fatalf("input %d did not end in a basis state", value)
	return -1
}

func TestOracleMarksExactlyTheSolutions(t *testing.T) {
	tests := []struct {
		name      string
		p         Predicate
		solutions []int
		ancillas  int
	}{
		{
			name:      "exactly two of four",
			p:         ExactlyOnes(4, 2),
			solutions: []int{0b0011, 0b0101, 0b0110, 0b1001, 0b1010, 0b1100},
			ancillas:  0,
		},
		{
			name:      "non-overlapping adjacency",
			p:         NonOverlappingAdjacency(),
			solutions: []int{0b0011, 0b1100},
			ancillas:  4,
		},
		{
			name:      "adjacent rooms",
			p:         NewPatterns(3, "110", "011"),
			solutions: []int{0b011, 0b110},
			ancillas:  0,
		},
		{
			name:      "single index",
			p:         Index(3, 6),
			solutions: []int{6},
			ancillas:  0,
		},
		{
			name:      "don't care cells",
			p:         NewPatterns(3, "1-0", "0-1"),
			solutions: []int{0b001, 0b011, 0b100, 0b110},
			ancillas:  0,
		},
		{
			name:      "xor of overlapping windows",
			p:         NewXor(Adjacent(3, 0), Adjacent(3, 1)),
			solutions: []int{0b011, 0b110},
			ancillas:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.p.Arity()
			assert.Equal(t, tt.ancillas, tt.p.Ancillas())
			assert.Equal(t, tt.solutions, Solutions(tt.p))
			assert.Equal(t, len(tt.solutions), SolutionCount(tt.p))

			data := seq(0, n)
			marker := n
			ancillas := seq(n+1, tt.p.Ancillas())
			gates, err := Build(tt.p, data, marker, ancillas)
			require.Nil(t, err)

			numQubits := n + 1 + len(ancillas)
			for v := 0; v < 1<<n; v++ {
				out := runOracle(t, gates, numQubits, data, v)
				assert.Equal(t, v, qpu.RegisterValue(out, data), "data changed for input %s", BitString(v, n))
				assert.Equal(t, Matches(tt.p, v), out&(1<<marker) != 0, "marker for input %s", BitString(v, n))
				for _, a := range ancillas {
					assert.Zero(t, out&(1<<a), "ancilla %d dirty for input %s", a, BitString(v, n))
				}
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	p := NonOverlappingAdjacency()
	a, err := Build(p, []int{0, 1, 2, 3}, 4, []int{5, 6, 7, 8})
	require.Nil(t, err)
	b, err := Build(p, []int{0, 1, 2, 3}, 4, []int{5, 6, 7, 8})
	require.Nil(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Build mismatch (-first +second):\n%s", diff)
	}
}

func TestPatternGates(t *testing.T) {
	gates, err := Build(Literal("10"), []int{0, 1}, 2, nil)
	require.Nil(t, err)
	want := []circuit.Gate{
		circuit.NewX(1),
		circuit.NewMCX([]int{0, 1}, 2),
		circuit.NewX(1),
	}
	if diff := cmp.Diff(want, gates); diff != "" {
		t.Errorf("gates mismatch (-want +got):\n%s", diff)
	}
}

func TestCompoundUncomputesInReverse(t *testing.T) {
	gates, err := Build(NewAnd(Literal("1-"), Literal("-1")), []int{0, 1}, 2, []int{3, 4})
	require.Nil(t, err)
	want := []circuit.Gate{
		circuit.NewMCX([]int{0}, 3),
		circuit.NewMCX([]int{1}, 4),
		circuit.NewMCX([]int{3, 4}, 2),
		circuit.NewMCX([]int{1}, 4),
		circuit.NewMCX([]int{0}, 3),
	}
	if diff := cmp.Diff(want, gates); diff != "" {
		t.Errorf("gates mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		p        Predicate
		data     []int
		marker   int
		ancillas []int
		wantIs   []error
		wantMsg  string
	}{
		{
			name:     "arity mismatch",
			p:        ExactlyOnes(4, 2),
			data:     []int{0, 1, 2},
			marker:   3,
			ancillas: nil,
			wantIs:   []error{ErrArityMismatch},
		},
		{
			name:     "insufficient ancillas",
			p:        NonOverlappingAdjacency(),
			data:     []int{0, 1, 2, 3},
			marker:   4,
			ancillas: []int{5, 6},
			wantIs:   []error{ErrInsufficientAncillas},
			wantMsg:  "need 4, got 2",
		},
		{
			name:     "both construction errors are reported",
			p:        NonOverlappingAdjacency(),
			data:     []int{0, 1, 2},
			marker:   4,
			ancillas: nil,
			wantIs:   []error{ErrArityMismatch, ErrInsufficientAncillas},
		},
		{
			name:    "overlapping patterns",
			p:       NewPatterns(3, "1--", "-1-"),
			data:    []int{0, 1, 2},
			marker:  3,
			wantIs:  []error{ErrOverlappingPatterns},
			wantMsg: "1-- and -1-",
		},
		{
			name:   "malformed pattern",
			p:      NewPatterns(2, "1x"),
			data:   []int{0, 1},
			marker: 2,
			wantIs: []error{ErrMalformedPattern},
		},
		{
			name:   "pattern of wrong width",
			p:      NewPatterns(3, "11"),
			data:   []int{0, 1, 2},
			marker: 3,
			wantIs: []error{ErrMalformedPattern},
		},
		{
			name:   "mixed arity terms",
			p:      NewAnd(Literal("11"), Literal("111")),
			data:   []int{0, 1},
			marker: 2,
			wantIs: []error{ErrArityMismatch},
		},
		{
			name:    "marker reused as data",
			p:       Literal("11"),
			data:    []int{0, 1},
			marker:  1,
			wantMsg: "qubit 1 is used as data and marker",
		},
		{
			name:     "negative ancilla",
			p:        NewAnd(Literal("1")),
			data:     []int{0},
			marker:   1,
			ancillas: []int{-1},
			wantMsg:  "ancilla qubit -1 is negative",
		},
		{
			name:    "empty compound",
			p:       NewXor(),
			data:    nil,
			marker:  0,
			wantMsg: "xor needs at least one term",
		},
		{
			name:    "nil term",
			p:       NewAnd(Literal("1"), nil),
			data:    []int{0},
			marker:  1,
			wantMsg: "and has a nil term",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gates, err := Build(tt.p, tt.data, tt.marker, tt.ancillas)
			assert.Nil(t, gates)
			require.NotNil(t, err)
			for _, target := range tt.wantIs {
				assert.True(t, errors.Is(err, target), "%v is not %v", err, target)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuildNilPredicate(t *testing.T) {
	_, err := Build(nil, []int{0}, 1, nil)
	assert.EqualError(t, err, "no predicate")
}

func TestLibrary(t *testing.T) {
	assert.Equal(t,
		[]string{"0011", "0101", "0110", "1001", "1010", "1100"},
		ExactlyOnes(4, 2).List())
	assert.Equal(t, []string{"--11"}, Adjacent(4, 2).List())
	assert.Equal(t, []string{"110"}, Index(3, 6).List())
	assert.Equal(t,
		"and({0011|0101|0110|1001|1010|1100}, xor({11--}, {--11}))",
		NonOverlappingAdjacency().String())
}

func TestBits(t *testing.T) {
	assert.Equal(t, []bool{true, true, false, false}, Bits(12, 4))
	assert.Equal(t, "1100", BitString(12, 4))
	assert.Equal(t, "011", BitString(3, 3))
	assert.True(t, Matches(Literal("1100"), 12))
	assert.False(t, Matches(Literal("1100"), 3))
}
