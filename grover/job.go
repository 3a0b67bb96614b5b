package grover

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/oqtopus-team/grover-lab/circuit"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/oqtopus-team/grover-lab/histogram"
	"go.uber.org/zap"
)

const GROVER_JOB = "grover"

// GroverJob is one sampled run of a problem at a fixed iteration count.
type GroverJob struct {
	runData    *core.RunData
	jobContext *core.JobContext
	problem    Problem
	optimal    bool
	circuit    *circuit.Circuit
	histogram  *histogram.Histogram
}

func NewJob(p Problem, param *core.RunParam, jc *core.JobContext) (*GroverJob, error) {
	if err := core.ValidateRunParam(param); err != nil {
		return nil, err
	}
	if jc == nil {
		jc = core.NewJobContext(nil)
	}
	rd := core.NewRunData()
	rd.Problem = param.Problem
	rd.Title = p.Title
	rd.Iterations = param.Iterations
	rd.Shots = param.Shots
	return &GroverJob{
		runData:    rd,
		jobContext: jc,
		problem:    p,
		optimal:    param.Optimal,
	}, nil
}

// PreProcess builds and freezes the circuit. Construction errors fail the run.
func (j *GroverJob) PreProcess() {
	if err := j.preProcessImpl(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to build a circuit for run(%s). Reason:%s",
			j.runData.ID, err.Error()))
		core.SetFailureWithError(j, err)
	}
}

func (j *GroverJob) preProcessImpl() error {
	rd := j.runData
	if j.problem.Predicate == nil {
		return fmt.Errorf("problem %q has no predicate", rd.Problem)
	}
	if j.optimal {
		k, err := OptimalIterationsFor(j.problem.Predicate)
		if err != nil {
			return err
		}
		zap.L().Debug(fmt.Sprintf("run(%s) uses the optimal iteration count %d", rd.ID, k))
		rd.Iterations = k
	}
	c, l, err := BuildCircuit(j.problem.Predicate, rd.Iterations)
	if err != nil {
		return err
	}
	j.circuit = c
	rd.Arity = len(l.Data)
	rd.NumQubits = c.NumQubits
	rd.QASM = c.ToQASM()
	rd.Result.Valid = j.problem.ValidBits()
	if expected, err := SuccessProbability(rd.Arity, len(rd.Result.Valid), rd.Iterations); err == nil {
		rd.Result.ExpectedSuccessRate = expected
	} else {
		zap.L().Debug(fmt.Sprintf("no expected success rate for run(%s)/reason:%s", rd.ID, err))
	}
	return nil
}

// Process samples the circuit on the simulator in the system components.
func (j *GroverJob) Process() {
	rd := j.runData
	rd.Status = core.RUNNING
	start := time.Now()
	c := core.GetSystemComponents().Container
	err := c.Invoke(
		func(sim core.Simulator) error {
			h, err := NewDriver(sim).Sample(j.jobContext, j.circuit, rd.Arity, rd.Shots)
			if err != nil {
				return err
			}
			j.histogram = h
			return nil
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to sample run(%s). Reason:%s", rd.ID, err.Error()))
		core.SetFailureWithError(j, err)
		return
	}
	rd.Result.Counts = j.histogram.ToCounts()
	rd.Result.SuccessRate = j.histogram.SuccessRate(j.problem.Valid)
	rd.Result.ExecutionTime = time.Since(start)
	rd.Status = core.SUCCEEDED
	rd.Ended = strfmt.DateTime(time.Now())
	zap.L().Debug(fmt.Sprintf("finished to process run(%s)/status:%s", rd.ID, rd.Status))
}

// PostProcess hands the run to the reporter. A reporter error never fails
// the run.
func (j *GroverJob) PostProcess() {
	c := core.GetSystemComponents().Container
	err := c.Invoke(
		func(r core.Reporter) error {
			return r.Report(j.runData)
		})
	if err != nil {
		zap.L().Warn(fmt.Sprintf("failed to report run(%s). Reason:%s", j.runData.ID, err.Error()))
	}
}

func (j *GroverJob) IsFinished() bool {
	return j.runData.IsFinished()
}

func (j *GroverJob) RunData() *core.RunData {
	return j.runData
}

func (j *GroverJob) JobType() string {
	return GROVER_JOB
}

func (j *GroverJob) JobContext() *core.JobContext {
	return j.jobContext
}

func (j *GroverJob) Problem() Problem {
	return j.problem
}

// Histogram is nil until the job has been processed successfully.
func (j *GroverJob) Histogram() *histogram.Histogram {
	return j.histogram
}
