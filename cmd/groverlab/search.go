package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/oklog/run"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/oqtopus-team/grover-lab/grover"
	"github.com/oqtopus-team/grover-lab/scheduler"
	"github.com/oqtopus-team/grover-lab/truss"
	"go.uber.org/zap"
)

// sweepFlags override [com.search] when given.
type sweepFlags struct {
	Iterations []int `long:"iterations" short:"k" description:"iteration count to run, repeat for a sweep"`
	Shots      int   `long:"shots" short:"s" description:"measurements per run"`
	Optimal    bool  `long:"optimal" description:"run once at the optimal iteration count"`
}

func (f *sweepFlags) apply(setting *grover.SearchSetting) {
	if len(f.Iterations) > 0 {
		setting.Iterations = f.Iterations
	}
	if f.Shots != 0 {
		setting.Shots = f.Shots
	}
	setting.Optimal = setting.Optimal || f.Optimal
}

type searchCmd struct {
	sweepFlags
	Problem string `long:"problem" short:"p" description:"problem to search"`
}

func newSearchCmd() *searchCmd {
	return &searchCmd{}
}

func (c *searchCmd) Execute(args []string) error {
	s, err := openSession(lab.Conf)
	if err != nil {
		return err
	}
	defer s.Close()

	setting, err := core.DecodeComponentSetting(grover.SearchSettingKey, grover.NewSearchSetting())
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read the search setting/reason:%s", err))
		return err
	}
	if c.Problem != "" {
		setting.Problem = c.Problem
	}
	c.apply(&setting)
	return s.sweep(setting)
}

type trussCmd struct {
	sweepFlags
}

func newTrussCmd() *trussCmd {
	return &trussCmd{}
}

func (c *trussCmd) Execute(args []string) error {
	s, err := openSession(lab.Conf)
	if err != nil {
		return err
	}
	defer s.Close()

	setting, err := core.DecodeComponentSetting(grover.SearchSettingKey, grover.NewSearchSetting())
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read the search setting/reason:%s", err))
		return err
	}
	setting.Problem = grover.TrussProblemName
	c.apply(&setting)
	s.text.Ranking(truss.Rank(truss.Designs()))
	return s.sweep(setting)
}

// sweep queues one run per iteration count and drains the queue in a run
// group next to a signal handler.
func (s *session) sweep(setting grover.SearchSetting) error {
	p, err := grover.LookupProblem(setting.Problem)
	if err != nil {
		zap.L().Error(err.Error())
		return err
	}
	rc := core.NewRunContext(context.Background())
	jobs, err := grover.NewSweep(setting, core.NewJobContext(rc.Context))
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to prepare the sweep/reason:%s", err))
		return err
	}
	s.text.Banner(p)

	queue := scheduler.NewSweepQueue(len(jobs))
	for _, j := range jobs {
		if err := queue.Put(j); err != nil {
			return err
		}
	}
	sched := scheduler.NewSweepScheduler(queue)
	rc.AddSignalHandler(os.Interrupt, syscall.SIGTERM)
	rc.AddWorker(sched, "sweep")
	err = rc.Run()
	var se run.SignalError
	if errors.As(err, &se) {
		zap.L().Info(fmt.Sprintf("sweep stopped by %s", se.Signal))
		err = nil
	}
	s.logRuns()
	return err
}

// logRuns records a one-line summary of every stored run in the run log.
func (s *session) logRuns() {
	if s.runLog == nil {
		return
	}
	err := s.sc.Invoke(func(st core.RunStore) {
		for _, rd := range st.List() {
			s.runLog.Logger().Info("run",
				zap.String("id", rd.ID),
				zap.String("problem", rd.Problem),
				zap.Int("iterations", rd.Iterations),
				zap.Int("shots", rd.Shots),
				zap.String("status", rd.Status.String()),
				zap.Float64("success_rate", rd.Result.SuccessRate),
				zap.Float64("expected_success_rate", rd.Result.ExpectedSuccessRate))
		}
	})
	if err != nil {
		zap.L().Warn(fmt.Sprintf("failed to list runs. Reason:%s", err))
	}
}
