package reporter

import (
	"github.com/oqtopus-team/grover-lab/core"
	"go.uber.org/multierr"
)

// Multi fans a run out to several reporters. Every reporter sees every
// run even when an earlier one fails.
type Multi struct {
	reporters []core.Reporter
}

func NewMulti(reporters ...core.Reporter) *Multi {
	return &Multi{reporters: reporters}
}

func (m *Multi) Setup(conf *core.Conf) error {
	var err error
	for _, r := range m.reporters {
		err = multierr.Append(err, r.Setup(conf))
	}
	return err
}

func (m *Multi) Report(rd *core.RunData) error {
	var err error
	for _, r := range m.reporters {
		err = multierr.Append(err, r.Report(rd))
	}
	return err
}

func (m *Multi) TearDown() {
	for _, r := range m.reporters {
		r.TearDown()
	}
}
