package qpu

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oqtopus-team/grover-lab/circuit"
	"github.com/oqtopus-team/grover-lab/core"
	"go.uber.org/zap"
)

const SimulatorDeviceName = "StateVectorSimulator"

const defaultMaxQubits = 16

// StateVectorSimulator is an exact simulator with seeded sampling.
// A zero seed draws one from the clock in Setup.
type StateVectorSimulator struct {
	seed      int64
	maxQubits int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewStateVectorSimulator(seed int64) *StateVectorSimulator {
	s := &StateVectorSimulator{}
	s.init(seed, defaultMaxQubits)
	return s
}

func (s *StateVectorSimulator) init(seed int64, maxQubits int) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxQubits <= 0 {
		maxQubits = defaultMaxQubits
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed = seed
	s.maxQubits = maxQubits
	s.rng = rand.New(rand.NewSource(seed))
}

func (s *StateVectorSimulator) Setup(conf *core.Conf) error {
	zap.L().Debug("setting up state vector simulator")
	s.init(conf.Seed, conf.MaxQubits)
	di := s.GetDeviceInfo()
	zap.L().Info(fmt.Sprintf("simulator seed is %d, max qubits is %d", di.Seed, di.MaxQubits))
	return nil
}

func (s *StateVectorSimulator) GetDeviceInfo() *core.DeviceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &core.DeviceInfo{
		DeviceName: SimulatorDeviceName,
		Type:       "simulator",
		Status:     core.Available,
		MaxQubits:  s.maxQubits,
		Seed:       s.seed,
	}
}

func (s *StateVectorSimulator) Simulate(ctx context.Context, c *circuit.Circuit) ([]complex128, error) {
	sv, err := s.evolve(ctx, c)
	if err != nil {
		return nil, err
	}
	return sv.Amplitudes, nil
}

func (s *StateVectorSimulator) Run(ctx context.Context, c *circuit.Circuit, repetitions int) (core.Samples, error) {
	if repetitions <= 0 {
		return nil, fmt.Errorf("repetitions(%d) must be greater than 0", repetitions)
	}
	if len(c.Measurements) == 0 {
		return nil, fmt.Errorf("circuit has no measurements")
	}
	sv, err := s.evolve(ctx, c)
	if err != nil {
		return nil, err
	}
	cdf := cumulative(sv.Probabilities())

	samples := make(core.Samples, len(c.Measurements))
	for _, m := range c.Measurements {
		samples[m.Key] = make([]int, 0, repetitions)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for r := 0; r < repetitions; r++ {
		if r%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		idx := sampleIndex(cdf, s.rng.Float64())
		for _, m := range c.Measurements {
			samples[m.Key] = append(samples[m.Key], RegisterValue(idx, m.Qubits))
		}
	}
	return samples, nil
}

func (s *StateVectorSimulator) evolve(ctx context.Context, c *circuit.Circuit) (*StateVector, error) {
	if err := s.validate(c); err != nil {
		zap.L().Info(err.Error())
		return nil, err
	}
	sv := NewStateVector(c.NumQubits)
	for i, g := range c.Gates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := sv.Apply(g); err != nil {
			return nil, fmt.Errorf("failed to apply gate %d (%s). Reason:%s", i, g, err)
		}
	}
	return sv, nil
}

func (s *StateVectorSimulator) validate(c *circuit.Circuit) error {
	if c == nil {
		return fmt.Errorf("no input circuit")
	}
	if !c.Frozen() {
		return fmt.Errorf("circuit must be frozen before execution")
	}
	if c.NumQubits <= 0 {
		return fmt.Errorf("circuit has no qubits")
	}
	if limit := s.GetDeviceInfo().MaxQubits; c.NumQubits > limit {
		return fmt.Errorf("too many qubits in the circuit(%d). the simulator accepts up to %d qubits", c.NumQubits, limit)
	}
	return nil
}

func cumulative(probs []float64) []float64 {
	cdf := make([]float64, len(probs))
	acc := 0.0
	for i, p := range probs {
		acc += p
		cdf[i] = acc
	}
	return cdf
}

// sampleIndex picks the first index whose cumulative probability exceeds u.
// u is scaled by the total so that rounding drift never selects past the end.
func sampleIndex(cdf []float64, u float64) int {
	total := cdf[len(cdf)-1]
	target := u * total
	i := sort.Search(len(cdf), func(i int) bool { return cdf[i] > target })
	if i == len(cdf) {
		return len(cdf) - 1
	}
	return i
}

const SimulatorSettingKey = "simulator"

// SimulatorSetting is read from [com.simulator]. Zero values leave the
// command line configuration untouched.
type SimulatorSetting struct {
	Seed      int64 `toml:"seed"`
	MaxQubits int   `toml:"max_qubits"`
}

func NewSimulatorSetting() SimulatorSetting {
	return SimulatorSetting{}
}

// Apply copies the non-zero values of s into conf unless conf already
// carries its own.
func (s SimulatorSetting) Apply(conf *core.Conf) {
	if conf.Seed == 0 && s.Seed != 0 {
		conf.Seed = s.Seed
	}
	if conf.MaxQubits == 0 && s.MaxQubits > 0 {
		conf.MaxQubits = s.MaxQubits
	}
}
