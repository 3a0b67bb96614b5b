package core

import (
	"context"
	"fmt"

	"github.com/oqtopus-team/grover-lab/circuit"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

var systemComponents *SystemComponents

type DeviceInfo struct {
	DeviceName string       `json:"device_name"`
	Type       string       `json:"type"`
	Status     DeviceStatus `json:"status"`
	MaxQubits  int          `json:"max_qubits"`
	Seed       int64        `json:"seed"`
}

type DeviceStatus int

const (
	Available DeviceStatus = iota
	Unavailable
)

func (ds DeviceStatus) String() string {
	switch ds {
	case Available:
		return "Available"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// Simulator executes frozen circuits.
type Simulator interface {
	Setup(*Conf) error
	// Run samples the circuit repetitions times. Samples are keyed by
	// measurement key.
	Run(ctx context.Context, c *circuit.Circuit, repetitions int) (Samples, error)
	// Simulate returns the final amplitudes, ignoring measurements.
	Simulate(ctx context.Context, c *circuit.Circuit) ([]complex128, error)
	GetDeviceInfo() *DeviceInfo
}

// Reporter is a one-way sink for finished runs.
type Reporter interface {
	Setup(*Conf) error
	Report(*RunData) error
	TearDown()
}

type RunStore interface {
	Setup(*Conf) error
	Insert(*RunData) error
	Get(id string) (*RunData, error)
	Update(*RunData) error
	List() []*RunData
}

type SystemComponents struct {
	*dig.Container
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{con}
}

func GetSystemComponents() *SystemComponents {
	return systemComponents
}

func (s *SystemComponents) Setup(conf *Conf) error {
	err := s.Invoke(func(sim Simulator, r Reporter, st RunStore) error {
		if err := sim.Setup(conf); err != nil {
			return fmt.Errorf("failed to setup the simulator. Reason:%s", err)
		}
		if err := r.Setup(conf); err != nil {
			return fmt.Errorf("failed to setup the reporter. Reason:%s", err)
		}
		if err := st.Setup(conf); err != nil {
			return fmt.Errorf("failed to setup the run store. Reason:%s", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	systemComponents = s
	return nil
}

func (s *SystemComponents) TearDown() {
	err := s.Invoke(func(r Reporter) {
		r.TearDown()
	})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to tear down system components. Reason:%s", err))
	}
	systemComponents = nil
}
