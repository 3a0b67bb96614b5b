package grover

import (
	"context"
	"fmt"

	"github.com/oqtopus-team/grover-lab/circuit"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/oqtopus-team/grover-lab/histogram"
	"github.com/oqtopus-team/grover-lab/oracle"
	"go.uber.org/zap"
)

const ResultKey = "result"

// Layout assigns the qubits of a Grover circuit: data first, then the
// marker, then the oracle's ancillas.
type Layout struct {
	Data     []int
	Marker   int
	Ancillas []int
}

func NewLayout(arity, ancillas int) *Layout {
	l := &Layout{Data: make([]int, arity), Marker: arity, Ancillas: make([]int, ancillas)}
	for i := range l.Data {
		l.Data[i] = i
	}
	for i := range l.Ancillas {
		l.Ancillas[i] = arity + 1 + i
	}
	return l
}

func (l *Layout) NumQubits() int {
	return len(l.Data) + 1 + len(l.Ancillas)
}

// BuildCircuit prepares the data register in uniform superposition and the
// marker in |->, applies iterations rounds of oracle and diffusion and
// measures the data register under ResultKey. The returned circuit is frozen.
func BuildCircuit(p oracle.Predicate, iterations int) (*circuit.Circuit, *Layout, error) {
	if iterations < 0 {
		return nil, nil, fmt.Errorf("iterations(%d) must not be negative", iterations)
	}
	if err := oracle.Validate(p); err != nil {
		return nil, nil, err
	}
	if p.Arity() < 1 {
		return nil, nil, fmt.Errorf("predicate has no data qubits")
	}
	l := NewLayout(p.Arity(), p.Ancillas())
	orc, err := oracle.Build(p, l.Data, l.Marker, l.Ancillas)
	if err != nil {
		return nil, nil, err
	}

	c := circuit.New(l.NumQubits())
	steps := [][]circuit.Gate{
		circuit.Layer(circuit.NewH, l.Data),
		{circuit.NewX(l.Marker), circuit.NewH(l.Marker)},
	}
	diffusion := Diffusion(l.Data)
	for i := 0; i < iterations; i++ {
		steps = append(steps, orc, diffusion)
	}
	for _, s := range steps {
		if err := c.Append(s...); err != nil {
			return nil, nil, err
		}
	}
	if err := c.Measure(ResultKey, l.Data...); err != nil {
		return nil, nil, err
	}
	return c.Freeze(), l, nil
}

// Driver runs Grover searches on a simulator.
type Driver struct {
	sim core.Simulator
}

func NewDriver(sim core.Simulator) *Driver {
	return &Driver{sim: sim}
}

func (d *Driver) Run(ctx context.Context, p oracle.Predicate, iterations, shots int) (*histogram.Histogram, error) {
	c, l, err := BuildCircuit(p, iterations)
	if err != nil {
		return nil, err
	}
	return d.Sample(ctx, c, len(l.Data), shots)
}

// RunOptimal runs p with the iteration count derived from its solution
// count and returns that count alongside the histogram.
func (d *Driver) RunOptimal(ctx context.Context, p oracle.Predicate, shots int) (*histogram.Histogram, int, error) {
	k, err := OptimalIterationsFor(p)
	if err != nil {
		return nil, 0, err
	}
	h, err := d.Run(ctx, p, k, shots)
	return h, k, err
}

// Sample draws shots values of the ResultKey register of a built circuit.
func (d *Driver) Sample(ctx context.Context, c *circuit.Circuit, width, shots int) (*histogram.Histogram, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots(%d) must be greater than 0", shots)
	}
	samples, err := d.sim.Run(ctx, c, shots)
	if err != nil {
		return nil, err
	}
	values, ok := samples[ResultKey]
	if !ok {
		return nil, fmt.Errorf("no samples under %q", ResultKey)
	}
	zap.L().Debug(fmt.Sprintf("sampled %d shots of a %d-qubit circuit", len(values), c.NumQubits))
	return histogram.New(width, values), nil
}
