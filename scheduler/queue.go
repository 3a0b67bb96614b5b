package scheduler

import (
	"fmt"

	conq "github.com/enriquebris/goconcurrentqueue"
	"github.com/oqtopus-team/grover-lab/core"
	"go.uber.org/zap"
)

type fifo interface {
	Enqueue(core.Job) error
	Dequeue() (core.Job, error)
	Get(index int) (core.Job, error)
	GetLen() int
	Remove(index int) error
}

type conqFIFO struct {
	*conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(j core.Job) error {
	return c.FIFO.Enqueue(j)
}

func (c *conqFIFO) Dequeue() (core.Job, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return nil, err
	}
	return tmp.(core.Job), nil
}

func (c *conqFIFO) Get(index int) (core.Job, error) {
	tmp, err := c.FIFO.Get(index)
	if err != nil {
		return nil, err
	}
	return tmp.(core.Job), nil
}

// SweepQueue holds the runs of a sweep in submission order.
type SweepQueue struct {
	fifo    fifo
	maxSize int
}

// NewSweepQueue returns a queue holding at most maxSize runs. A
// non-positive maxSize means unbounded.
func NewSweepQueue(maxSize int) *SweepQueue {
	return &SweepQueue{
		fifo:    newConqFIFO(),
		maxSize: maxSize,
	}
}

func (q *SweepQueue) Put(j core.Job) error {
	rd := j.RunData()
	if q.maxSize > 0 && q.maxSize <= q.fifo.GetLen() {
		zap.L().Info(fmt.Sprintf("Failed to put %s. Sweep Queue is full.", rd.ID))
		return fmt.Errorf("queue is full(%d)", q.maxSize)
	}
	zap.L().Debug(fmt.Sprintf("Putting %s to sweepQueue", rd.ID))
	if err := q.fifo.Enqueue(j); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to put %s to sweepQueue. Reason:%s", rd.ID, err))
		return err
	}
	return nil
}

func (q *SweepQueue) Dequeue() (core.Job, error) {
	j, err := q.fifo.Dequeue()
	if err != nil {
		zap.L().Debug("no job in SweepQueue.", zap.Error(err))
		return nil, err
	}
	zap.L().Debug(fmt.Sprintf("Dequeued run:%s", j.RunData().ID))
	return j, nil
}

func (q *SweepQueue) Delete(runID string) error {
	zap.L().Debug(fmt.Sprintf("deleting %s from sweepQueue", runID))
	idx, err := q.getIdx(runID)
	if err != nil {
		zap.L().Info(fmt.Sprintf("Failed to Delete %s. Reason:%s", runID, err))
		return err
	}
	if err := q.fifo.Remove(idx); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to remove idx:%d. Reason:%s", idx, err))
		return err
	}
	return nil
}

func (q *SweepQueue) Len() int {
	return q.fifo.GetLen()
}

func (q *SweepQueue) getIdx(runID string) (int, error) {
	for i := 0; i < q.fifo.GetLen(); i++ {
		j, err := q.fifo.Get(i)
		if err == nil && j.RunData().ID == runID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("No entry")
}
