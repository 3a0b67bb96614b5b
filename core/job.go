package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"go.uber.org/zap"
)

type Job interface {
	// Job Control
	PreProcess()
	Process()
	PostProcess()
	IsFinished() bool

	// Data Access
	RunData() *RunData // Get mutable RunData
	JobType() string
	JobContext() *JobContext
}

type JobContext struct {
	context.Context
}

func NewJobContext(ctx context.Context) *JobContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &JobContext{Context: ctx}
}

type RunParam struct {
	Problem    string
	Iterations int
	Shots      int
	// Optimal derives the iteration count from the solution count and
	// ignores Iterations.
	Optimal bool
}

func ValidateRunParam(p *RunParam) error {
	if p.Problem == "" {
		return fmt.Errorf("problem is empty")
	}
	if p.Shots <= 0 {
		msg := fmt.Sprintf("shots(%d) must be greater than 0", p.Shots)
		zap.L().Info(msg + fmt.Sprintf("/problem:%s", p.Problem))
		return fmt.Errorf(msg)
	}
	if p.Iterations < 0 {
		msg := fmt.Sprintf("iterations(%d) must not be negative", p.Iterations)
		zap.L().Info(msg + fmt.Sprintf("/problem:%s", p.Problem))
		return fmt.Errorf(msg)
	}
	return nil
}

// RunJob drives a job through its lifecycle, stopping early once it is finished.
func RunJob(j Job) {
	rd := j.RunData()
	j.PreProcess()
	if j.IsFinished() {
		zap.L().Info(fmt.Sprintf("run(%s) finished in pre-process/status:%s", rd.ID, rd.Status))
		return
	}
	j.Process()
	j.PostProcess()
	zap.L().Debug(fmt.Sprintf("run(%s) finished/status:%s", rd.ID, rd.Status))
}

func GetRun(id string) (rd *RunData) {
	rd = nil
	c := GetSystemComponents().Container
	err := c.Invoke(
		func(s RunStore) error {
			var getErr error
			rd, getErr = s.Get(id)
			return getErr
		})
	if err != nil {
		zap.L().Info(fmt.Sprintf("failed to find a run(%s)", id))
		return nil
	}
	return rd
}

func SetFailureWithError(j Job, err error) (msg string) {
	return SetFailureWithErrorToRunData(j.RunData(), err)
}

func SetFailureWithErrorToRunData(rd *RunData, err error) (msg string) {
	msg = err.Error()
	rd.Result.Message = msg
	rd.Status = FAILED
	rd.Ended = strfmt.DateTime(time.Now())
	return msg
}
