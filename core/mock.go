package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/oqtopus-team/grover-lab/circuit"
	"go.uber.org/dig"
)

const MockMaxQubits int = 10

type UnimplementedSimulator struct{}

func (u *UnimplementedSimulator) Setup(*Conf) error {
	return nil
}

func (u *UnimplementedSimulator) Run(context.Context, *circuit.Circuit, int) (Samples, error) {
	return Samples{}, nil
}

func (u *UnimplementedSimulator) Simulate(context.Context, *circuit.Circuit) ([]complex128, error) {
	return nil, nil
}

func (u *UnimplementedSimulator) GetDeviceInfo() *DeviceInfo {
	return &DeviceInfo{
		DeviceName: "unimplementedSimulator",
		Type:       "mock",
		MaxQubits:  MockMaxQubits,
	}
}

type failingSimulatorForTest struct {
	UnimplementedSimulator
}

func (failingSimulatorForTest) Run(context.Context, *circuit.Circuit, int) (Samples, error) {
	return nil, fmt.Errorf("simulator is down")
}

// RecordingReporter keeps every reported run in memory.
type RecordingReporter struct {
	mu       sync.Mutex
	Reported []*RunData
	Err      error
}

func (r *RecordingReporter) Setup(*Conf) error {
	return nil
}

func (r *RecordingReporter) Report(rd *RunData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reported = append(r.Reported, rd.Clone())
	return r.Err
}

func (r *RecordingReporter) TearDown() {}

func (r *RecordingReporter) Runs() []*RunData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RunData{}, r.Reported...)
}

// SCWithSimulator sets up global system components around sim with a
// recording reporter and a memory store.
func SCWithSimulator(sim Simulator) (*SystemComponents, *RecordingReporter) {
	reporter := &RecordingReporter{}
	return scWith(sim, reporter), reporter
}

func SCWithUnimplementedContainer() *SystemComponents {
	return scWith(&UnimplementedSimulator{}, &RecordingReporter{})
}

func SCWithFailingSimulatorContainer() *SystemComponents {
	return scWith(&failingSimulatorForTest{}, &RecordingReporter{})
}

func scWith(sim Simulator, reporter Reporter) *SystemComponents {
	container := dig.New()
	must(container.Provide(func() Simulator { return sim }))
	must(container.Provide(func() Reporter { return reporter }))
	must(container.Provide(func() RunStore { return &MemoryStore{} }))
	s := NewSystemComponents(container)
	must(s.Setup(&Conf{MaxQubits: MockMaxQubits}))
	return s
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
