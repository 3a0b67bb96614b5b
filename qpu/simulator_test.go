//go:build unit
// +build unit

package qpu

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/oqtopus-team/grover-lab/circuit"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func frozen(t *testing.T, n int, gates ...circuit.Gate) *circuit.Circuit {
	c := circuit.New(n)
	require.Nil(t, c.Append(gates...))
	return c.Freeze()
}

func TestSimulateGates(t *testing.T) {
	h := 1 / math.Sqrt2
	tests := []struct {
		name  string
		n     int
		gates []circuit.Gate
		want  []complex128
	}{
		{
			name:  "hadamard",
			n:     1,
			gates: []circuit.Gate{circuit.NewH(0)},
			want:  []complex128{complex(h, 0), complex(h, 0)},
		},
		{
			name:  "x on qubit 1",
			n:     2,
			gates: []circuit.Gate{circuit.NewX(1)},
			want:  []complex128{0, 0, 1, 0},
		},
		{
			name:  "bell pair",
			n:     2,
			gates: []circuit.Gate{circuit.NewH(0), circuit.NewCX(0, 1)},
			want:  []complex128{complex(h, 0), 0, 0, complex(h, 0)},
		},
		{
			name:  "toffoli fires only with both controls",
			n:     3,
			gates: []circuit.Gate{circuit.NewX(0), circuit.NewX(1), circuit.NewMCX([]int{0, 1}, 2)},
			want:  []complex128{0, 0, 0, 0, 0, 0, 0, 1},
		},
		{
			name:  "toffoli idle with one control",
			n:     3,
			gates: []circuit.Gate{circuit.NewX(0), circuit.NewMCX([]int{0, 1}, 2)},
			want:  []complex128{0, 1, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "multi-controlled z flips only all ones",
			n:    2,
			gates: []circuit.Gate{
				circuit.NewH(0), circuit.NewH(1), circuit.NewMCZ([]int{0}, 1),
			},
			want: []complex128{0.5, 0.5, 0.5, -0.5},
		},
		{
			name:  "ry(pi) maps zero to one",
			n:     1,
			gates: []circuit.Gate{circuit.NewRY(0, math.Pi)},
			want:  []complex128{0, 1},
		},
		{
			name:  "phase pi/2 on one",
			n:     1,
			gates: []circuit.Gate{circuit.NewX(0), circuit.NewPhase(0, math.Pi/2)},
			want:  []complex128{0, 1i},
		},
		{
			name: "h z h is x",
			n:    1,
			gates: []circuit.Gate{
				circuit.NewH(0), circuit.NewZ(0), circuit.NewH(0),
			},
			want: []complex128{0, 1},
		},
	}
	sim := NewStateVectorSimulator(1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amps, err := sim.Simulate(context.Background(), frozen(t, tt.n, tt.gates...))
			assert.Nil(t, err)
			assert.Len(t, amps, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, real(tt.want[i]), real(amps[i]), tolerance, "real part of amplitude %d", i)
				assert.InDelta(t, imag(tt.want[i]), imag(amps[i]), tolerance, "imaginary part of amplitude %d", i)
			}
		})
	}
}

func TestRunBellPairIsCorrelated(t *testing.T) {
	c := circuit.New(2)
	require.Nil(t, c.Append(circuit.NewH(0), circuit.NewCX(0, 1)))
	require.Nil(t, c.Measure("q0", 0))
	require.Nil(t, c.Measure("q1", 1))
	c.Freeze()

	samples, err := NewStateVectorSimulator(7).Run(context.Background(), c, 500)
	assert.Nil(t, err)
	assert.Len(t, samples["q0"], 500)
	ones := 0
	for i := range samples["q0"] {
		assert.Equal(t, samples["q0"][i], samples["q1"][i])
		ones += samples["q0"][i]
	}
	assert.Greater(t, ones, 150)
	assert.Less(t, ones, 350)
}

func TestRunRegisterIsBigEndian(t *testing.T) {
	// data qubit 0 is the most significant bit of the measured value
	c := circuit.New(4)
	require.Nil(t, c.Append(circuit.NewX(0), circuit.NewX(1)))
	require.Nil(t, c.Measure("result", 0, 1, 2, 3))
	c.Freeze()

	samples, err := NewStateVectorSimulator(3).Run(context.Background(), c, 10)
	assert.Nil(t, err)
	for _, v := range samples["result"] {
		assert.Equal(t, 0b1100, v)
	}
}

func TestRunIsReproducibleWithSeed(t *testing.T) {
	c := circuit.New(3)
	require.Nil(t, c.Append(circuit.Layer(circuit.NewH, []int{0, 1, 2})...))
	require.Nil(t, c.Measure("result", 0, 1, 2))
	c.Freeze()

	a, err := NewStateVectorSimulator(42).Run(context.Background(), c, 64)
	assert.Nil(t, err)
	b, err := NewStateVectorSimulator(42).Run(context.Background(), c, 64)
	assert.Nil(t, err)
	assert.Equal(t, a, b)
}

func TestRunValidation(t *testing.T) {
	sim := &StateVectorSimulator{}
	assert.Nil(t, sim.Setup(&core.Conf{Seed: 1, MaxQubits: 3}))
	assert.Equal(t, 3, sim.GetDeviceInfo().MaxQubits)
	assert.Equal(t, int64(1), sim.GetDeviceInfo().Seed)

	measured := func(n int, freeze bool) *circuit.Circuit {
		c := circuit.New(n)
		require.Nil(t, c.Measure("result", 0))
		if freeze {
			c.Freeze()
		}
		return c
	}
	tests := []struct {
		name    string
		circ    *circuit.Circuit
		reps    int
		wantErr string
	}{
		{
			name:    "not frozen",
			circ:    measured(1, false),
			reps:    1,
			wantErr: "circuit must be frozen before execution",
		},
		{
			name:    "too many qubits",
			circ:    measured(4, true),
			reps:    1,
			wantErr: "too many qubits in the circuit(4). the simulator accepts up to 3 qubits",
		},
		{
			name:    "no repetitions",
			circ:    measured(1, true),
			reps:    0,
			wantErr: "repetitions(0) must be greater than 0",
		},
		{
			name:    "no measurement",
			circ:    circuit.New(1).Freeze(),
			reps:    1,
			wantErr: "circuit has no measurements",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.circ, tt.reps)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := circuit.New(1)
	require.Nil(t, c.Append(circuit.NewH(0)))
	require.Nil(t, c.Measure("result", 0))
	_, err := NewStateVectorSimulator(1).Run(ctx, c.Freeze(), 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeviceInfoDuringSetup(t *testing.T) {
	sim := NewStateVectorSimulator(1)
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			assert.Nil(t, sim.Setup(&core.Conf{Seed: int64(n), MaxQubits: n}))
		}(i)
		go func() {
			defer wg.Done()
			di := sim.GetDeviceInfo()
			assert.Equal(t, SimulatorDeviceName, di.DeviceName)
		}()
	}
	wg.Wait()
	di := sim.GetDeviceInfo()
	assert.Equal(t, di.Seed, int64(di.MaxQubits))
}

func TestRegisterValueAndBasisIndex(t *testing.T) {
	qubits := []int{2, 0, 1}
	for v := 0; v < 8; v++ {
		assert.Equal(t, v, RegisterValue(BasisIndex(v, qubits), qubits))
	}
	// qubit 2 set, others clear: value 100
	assert.Equal(t, 0b100, RegisterValue(0b100, qubits))
}

func TestSimulatorSettingApply(t *testing.T) {
	conf := &core.Conf{}
	SimulatorSetting{Seed: 42, MaxQubits: 12}.Apply(conf)
	assert.Equal(t, int64(42), conf.Seed)
	assert.Equal(t, 12, conf.MaxQubits)

	conf = &core.Conf{Seed: 7, MaxQubits: 9}
	SimulatorSetting{Seed: 42, MaxQubits: 12}.Apply(conf)
	assert.Equal(t, int64(7), conf.Seed)
	assert.Equal(t, 9, conf.MaxQubits)

	conf = &core.Conf{}
	NewSimulatorSetting().Apply(conf)
	assert.Equal(t, &core.Conf{}, conf)
}
