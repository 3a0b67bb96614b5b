package turtle

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/oqtopus-team/grover-lab/circuit"
	"github.com/oqtopus-team/grover-lab/core"
	"go.uber.org/zap"
)

const (
	QuantumWalk = "quantum-walk"
	RandomTurn  = "random-turn"
	Entangled   = "entangled"
	PhaseWalk   = "phase-walk"
)

const (
	walkTurn      = 36.0
	rotationQubit = 4
	headings      = 1 << rotationQubit
)

// Walk draws steps steps onto a fresh canvas, capturing a frame after each.
type Walk func(ctx context.Context, sim core.Simulator, rng *rand.Rand, steps int) (*Canvas, error)

var walks = map[string]Walk{
	QuantumWalk: quantumWalk,
	RandomTurn:  randomTurnWalk,
	Entangled:   entangledWalk,
	PhaseWalk:   phaseWalk,
}

// DefaultSteps is the walk length used when none is given.
var DefaultSteps = map[string]int{
	QuantumWalk: 100,
	RandomTurn:  100,
	Entangled:   100,
	PhaseWalk:   200,
}

func Names() []string {
	names := make([]string, 0, len(walks))
	for name := range walks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Run(ctx context.Context, sim core.Simulator, name string, rng *rand.Rand, steps int) (*Canvas, error) {
	w, ok := walks[name]
	if !ok {
		return nil, fmt.Errorf("unknown walk %q. choose from %v", name, Names())
	}
	if steps <= 0 {
		steps = DefaultSteps[name]
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	zap.L().Debug(fmt.Sprintf("starting %s walk with %d steps", name, steps))
	return w(ctx, sim, rng, steps)
}

// quantumWalk measures one qubit in superposition per step and turns 36
// degrees right after it.
func quantumWalk(ctx context.Context, sim core.Simulator, _ *rand.Rand, steps int) (*Canvas, error) {
	c, err := superposedCircuit(1, "walk", 0)
	if err != nil {
		return nil, err
	}
	canvas := NewCanvas(DefaultWidth, DefaultHeight)
	t := canvas.NewTurtle(-100, 0, Cyan)
	for i := 0; i < steps; i++ {
		samples, err := sim.Run(ctx, c, 1)
		if err != nil {
			return nil, err
		}
		t.Branches(samples["walk"][0] == 1, StepDistance)
		t.Right(walkTurn)
		canvas.CaptureFrame()
	}
	return canvas, nil
}

// randomTurnWalk adds four rotation qubits whose value picks one of 16
// headings after every step.
func randomTurnWalk(ctx context.Context, sim core.Simulator, _ *rand.Rand, steps int) (*Canvas, error) {
	c := circuit.New(rotationQubit + 1)
	rotation := make([]int, rotationQubit)
	for i := range rotation {
		// qubit 0 is the least significant bit of the rotation
		rotation[i] = rotationQubit - 1 - i
	}
	if err := c.Append(circuit.Layer(circuit.NewH, []int{0, 1, 2, 3, rotationQubit})...); err != nil {
		return nil, err
	}
	if err := c.Measure("rotation", rotation...); err != nil {
		return nil, err
	}
	if err := c.Measure("movement", rotationQubit); err != nil {
		return nil, err
	}
	c.Freeze()

	canvas := NewCanvas(DefaultWidth, DefaultHeight)
	t := canvas.NewTurtle(-100, 0, Cyan)
	for i := 0; i < steps; i++ {
		samples, err := sim.Run(ctx, c, 1)
		if err != nil {
			return nil, err
		}
		t.Branches(samples["movement"][0] == 1, StepDistance)
		t.Right(RotationAngle(samples["rotation"][0]))
		canvas.CaptureFrame()
	}
	return canvas, nil
}

// RotationAngle maps a 4-bit rotation value to degrees.
func RotationAngle(value int) float64 {
	return float64(value) / headings * 360
}

// entangledWalk drives two turtles from one Bell pair, so both always take
// the same branch.
func entangledWalk(ctx context.Context, sim core.Simulator, _ *rand.Rand, steps int) (*Canvas, error) {
	c := circuit.New(2)
	if err := c.Append(circuit.NewH(0), circuit.NewCX(0, 1)); err != nil {
		return nil, err
	}
	if err := c.Measure("q1", 0); err != nil {
		return nil, err
	}
	if err := c.Measure("q2", 1); err != nil {
		return nil, err
	}
	c.Freeze()

	canvas := NewCanvas(DefaultWidth, DefaultHeight)
	first := canvas.NewTurtle(-100, 50, Blue)
	second := canvas.NewTurtle(-100, -50, Green)
	for i := 0; i < steps; i++ {
		samples, err := sim.Run(ctx, c, 1)
		if err != nil {
			return nil, err
		}
		q1, q2 := samples["q1"][0], samples["q2"][0]
		if q1 != q2 {
			zap.L().Warn(fmt.Sprintf("entangled pair disagreed at step %d: %d and %d", i, q1, q2))
		}
		first.Branches(q1 == 1, StepDistance)
		second.Branches(q1 == 1, StepDistance)
		first.Right(walkTurn)
		second.Right(walkTurn)
		canvas.CaptureFrame()
	}
	return canvas, nil
}

// PhaseStep is one interference measurement of the phase walk.
type PhaseStep struct {
	Probability float64 // P(|0>)
	Phase       float64 // phase of the |0> amplitude in radians
}

// SimulatePhaseStep applies ry(pi/2), a phase of phase/2 and H, and reads
// the |0> amplitude.
func SimulatePhaseStep(ctx context.Context, sim core.Simulator, phase float64) (PhaseStep, error) {
	c := circuit.New(1)
	if err := c.Append(
		circuit.NewRY(0, math.Pi/2),
		circuit.NewPhase(0, phase/2),
		circuit.NewH(0),
	); err != nil {
		return PhaseStep{}, err
	}
	amps, err := sim.Simulate(ctx, c.Freeze())
	if err != nil {
		return PhaseStep{}, err
	}
	a0 := amps[0]
	return PhaseStep{
		Probability: real(a0)*real(a0) + imag(a0)*imag(a0),
		Phase:       cmplx.Phase(a0),
	}, nil
}

// Color maps the phase to hue and the probability to brightness.
func (s PhaseStep) Color() colorful.Color {
	hue := normalizeDegrees(s.Phase * 180 / math.Pi)
	return colorful.Hsv(hue, 1, s.Probability).Clamped()
}

// Turn is the right turn in degrees taken before the step.
func (s PhaseStep) Turn() float64 {
	return normalizeDegrees(s.Phase * 180 / math.Pi)
}

// phaseWalk turns by the phase and steps by the probability of a random
// interference circuit.
func phaseWalk(ctx context.Context, sim core.Simulator, rng *rand.Rand, steps int) (*Canvas, error) {
	canvas := NewCanvas(DefaultWidth, DefaultHeight)
	t := canvas.NewTurtle(0, 0, Cyan)
	for i := 0; i < steps; i++ {
		step, err := SimulatePhaseStep(ctx, sim, rng.Float64()*2*math.Pi)
		if err != nil {
			return nil, err
		}
		zap.L().Debug(fmt.Sprintf("phase step %d/probability:%.4f/phase:%.2f", i, step.Probability, step.Phase))
		t.SetPen(step.Color())
		t.Right(step.Turn())
		t.Forward(StepDistance * step.Probability)
		canvas.CaptureFrame()
	}
	return canvas, nil
}

func superposedCircuit(numQubits int, key string, qubits ...int) (*circuit.Circuit, error) {
	c := circuit.New(numQubits)
	if err := c.Append(circuit.Layer(circuit.NewH, qubits)...); err != nil {
		return nil, err
	}
	if err := c.Measure(key, qubits...); err != nil {
		return nil, err
	}
	return c.Freeze(), nil
}
