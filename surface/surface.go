// Package surface maps the probability of measuring |0> on one qubit over
// a grid of phase and amplitude angles.
package surface

import (
	"context"
	"fmt"
	"math"

	"github.com/oqtopus-team/grover-lab/circuit"
	"github.com/oqtopus-team/grover-lab/core"
	"go.uber.org/zap"
)

// GridSize is the number of samples along each axis.
const GridSize = 50

// Builder returns the single-qubit circuit for one grid point.
type Builder func(phase, amp float64) (*circuit.Circuit, error)

// Surface holds P(|0>) for every (phase, amplitude) pair. P0[r][c] belongs
// to Amps[r] and Phases[c]. It satisfies plotter.GridXYZ.
type Surface struct {
	Title  string
	XLabel string
	YLabel string
	Phases []float64
	Amps   []float64
	P0     [][]float64
}

func (s *Surface) Dims() (c, r int) { return len(s.Phases), len(s.Amps) }
func (s *Surface) Z(c, r int) float64 { return s.P0[r][c] }
func (s *Surface) X(c int) float64 { return s.Phases[c] }
func (s *Surface) Y(r int) float64 { return s.Amps[r] }

// Min and Max pin the colour scale to the probability range.
func (s *Surface) Min() float64 { return 0 }
func (s *Surface) Max() float64 { return 1 }

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// InterferenceCircuit rotates |0> by amp about Y, adds a phase of phase/2
// and closes with H.
func InterferenceCircuit(phase, amp float64) (*circuit.Circuit, error) {
	c := circuit.New(1)
	if err := c.Append(
		circuit.NewRY(0, amp),
		circuit.NewPhase(0, phase/2),
		circuit.NewH(0),
	); err != nil {
		return nil, err
	}
	return c.Freeze(), nil
}

// GroverCircuit starts from H and applies iterations rounds of an oracle
// phase followed by the one-qubit reflection H Z H.
func GroverCircuit(oraclePhase float64, iterations int) (*circuit.Circuit, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("iterations(%d) must not be negative", iterations)
	}
	c := circuit.New(1)
	gates := []circuit.Gate{circuit.NewH(0)}
	for i := 0; i < iterations; i++ {
		gates = append(gates,
			circuit.NewPhase(0, oraclePhase),
			circuit.NewH(0),
			circuit.NewZ(0),
			circuit.NewH(0),
		)
	}
	if err := c.Append(gates...); err != nil {
		return nil, err
	}
	return c.Freeze(), nil
}

// GroverIterations scales an amplitude angle in [0, pi] to 0..2 rounds.
func GroverIterations(amp float64) int {
	return int(amp * 2 / math.Pi)
}

func groverBuilder(phase, amp float64) (*circuit.Circuit, error) {
	return GroverCircuit(phase, GroverIterations(amp))
}

// Compute simulates build on every point of an n by n grid with phases in
// [0, 2pi] and amplitudes in [0, pi].
func Compute(ctx context.Context, sim core.Simulator, build Builder, n int) (*Surface, error) {
	if n < 2 {
		return nil, fmt.Errorf("grid size(%d) must be at least 2", n)
	}
	s := &Surface{
		Phases: Linspace(0, 2*math.Pi, n),
		Amps:   Linspace(0, math.Pi, n),
		P0:     make([][]float64, n),
	}
	for r, amp := range s.Amps {
		s.P0[r] = make([]float64, n)
		for c, phase := range s.Phases {
			circ, err := build(phase, amp)
			if err != nil {
				return nil, fmt.Errorf("failed to build the circuit at phase %.3f, amplitude %.3f. Reason:%s", phase, amp, err)
			}
			amps, err := sim.Simulate(ctx, circ)
			if err != nil {
				return nil, err
			}
			s.P0[r][c] = real(amps[0])*real(amps[0]) + imag(amps[0])*imag(amps[0])
		}
	}
	zap.L().Debug(fmt.Sprintf("computed a %dx%d surface", n, n))
	return s, nil
}

// Interference is the smooth saddle of ry, phase and H.
func Interference(ctx context.Context, sim core.Simulator, n int) (*Surface, error) {
	s, err := Compute(ctx, sim, InterferenceCircuit, n)
	if err != nil {
		return nil, err
	}
	s.Title = "Smooth Quantum Interference"
	s.XLabel = "Phase (radians)"
	s.YLabel = "Amplitude Rotation (radians)"
	return s, nil
}

// Grover is the same grid driven through Grover-style rounds, the
// amplitude axis selecting the number of rounds.
func Grover(ctx context.Context, sim core.Simulator, n int) (*Surface, error) {
	s, err := Compute(ctx, sim, groverBuilder, n)
	if err != nil {
		return nil, err
	}
	s.Title = "Grover-style Interference"
	s.XLabel = "Oracle Phase (radians)"
	s.YLabel = "Iterations (scaled from amplitude)"
	return s, nil
}
