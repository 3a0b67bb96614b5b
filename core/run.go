package core

import (
	"context"
	"fmt"
	"os"

	"github.com/oklog/run"
	"go.uber.org/zap"
)

type RunContext struct {
	*run.Group
	context.Context
}

func NewRunContext(ctx context.Context) *RunContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &RunContext{
		Group:   &run.Group{},
		Context: ctx,
	}
}

// Worker runs until its work is done or ctx is cancelled.
type Worker interface {
	Start(ctx context.Context) error
	Cleanup()
}

func (rc *RunContext) AddSignalHandler(signals ...os.Signal) {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt}
	}
	rc.Add(run.SignalHandler(rc.Context, signals...))
}

// AddWorker adds w as an actor. When w returns, the whole group is
// interrupted, so a finite worker ends the run.
func (rc *RunContext) AddWorker(w Worker, workerName string) {
	ctx, cancel := context.WithCancel(rc.Context)
	rc.Group.Add(
		func() error {
			zap.L().Info(fmt.Sprintf("[Worker/%s/Start]", workerName))
			err := w.Start(ctx)
			if err != nil {
				zap.L().Error(fmt.Sprintf("[Worker/%s/Error]worker stopped/reason:%s", workerName, err))
			}
			zap.L().Info(fmt.Sprintf("[Worker/%s/TearDown]cleaning up worker", workerName))
			w.Cleanup()
			zap.L().Info(fmt.Sprintf("[Worker/%s/TearDown]cleaned up worker", workerName))
			return err
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[Worker/%s/TearDown]cancelling worker", workerName))
			cancel()
		},
	)
}
