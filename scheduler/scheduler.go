package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/oqtopus-team/grover-lab/core"
	"go.uber.org/zap"
)

type statusHistory map[string][]core.Status

// SweepScheduler drains a SweepQueue one run at a time. It implements
// core.Worker and returns once the queue is empty.
type SweepScheduler struct {
	queue         *SweepQueue
	statusHistory statusHistory
	finished      []string
	mu            sync.RWMutex
}

func NewSweepScheduler(queue *SweepQueue) *SweepScheduler {
	return &SweepScheduler{
		queue:         queue,
		statusHistory: make(statusHistory),
	}
}

func (s *SweepScheduler) Start(ctx context.Context) error {
	for {
		// cancellation only stops the sweep between runs
		if err := ctx.Err(); err != nil {
			zap.L().Info(fmt.Sprintf("sweep cancelled with %d runs left", s.queue.Len()))
			return err
		}
		if s.queue.Len() == 0 {
			zap.L().Debug("sweep queue is empty")
			return nil
		}
		j, err := s.queue.Dequeue()
		if err != nil {
			return fmt.Errorf("failed to get a run from the queue. Reason:%s", err)
		}
		s.HandleJob(j)
	}
}

func (s *SweepScheduler) Cleanup() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	zap.L().Debug(fmt.Sprintf("sweep scheduler handled %d runs", len(s.finished)))
}

// HandleJob runs j to completion and keeps the run store in step with it.
func (s *SweepScheduler) HandleJob(j core.Job) {
	rd := j.RunData()
	s.record(rd.ID, rd.Status)
	if rd.Status != core.READY {
		zap.L().Error(fmt.Sprintf("finished to handle run(%s) with unexpected status:%s", rd.ID, rd.Status))
		return
	}
	if err := invokeStore(func(st core.RunStore) error { return st.Insert(rd) }); err != nil {
		zap.L().Warn(fmt.Sprintf("failed to insert run(%s). Reason:%s", rd.ID, err))
	}
	s.handleImpl(j)
	if err := invokeStore(func(st core.RunStore) error { return st.Update(rd) }); err != nil {
		zap.L().Warn(fmt.Sprintf("failed to update run(%s). Reason:%s", rd.ID, err))
	}
	s.record(rd.ID, rd.Status)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, rd.ID)
}

func (s *SweepScheduler) handleImpl(j core.Job) {
	defer func() {
		if r := recover(); r != nil {
			msg := core.SetFailureWithError(j, fmt.Errorf("run panicked: %v", r))
			zap.L().Error(fmt.Sprintf("recovered run(%s). Reason:%s", j.RunData().ID, msg))
		}
	}()
	core.RunJob(j)
}

// History lists the statuses run id was seen in, first to last.
func (s *SweepScheduler) History(id string) []core.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Status{}, s.statusHistory[id]...)
}

// Finished lists the handled run IDs in handling order.
func (s *SweepScheduler) Finished() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.finished...)
}

func (s *SweepScheduler) record(id string, st core.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusHistory[id] = append(s.statusHistory[id], st)
}

func invokeStore(f func(core.RunStore) error) error {
	sc := core.GetSystemComponents()
	if sc == nil {
		return fmt.Errorf("system components are not set up")
	}
	return sc.Invoke(f)
}
