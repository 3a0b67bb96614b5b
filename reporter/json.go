package reporter

import (
	"fmt"
	"io"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/tidwall/pretty"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONReporter writes every run as one pretty-printed JSON document.
type JSONReporter struct {
	mu  sync.Mutex
	out io.Writer
	// WithQASM keeps the circuit text in the output.
	WithQASM bool
}

func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out}
}

func (j *JSONReporter) Setup(*core.Conf) error {
	if j.out == nil {
		return fmt.Errorf("json reporter has no output")
	}
	return nil
}

func (j *JSONReporter) Report(rd *core.RunData) error {
	c := rd.Clone()
	if !j.WithQASM {
		c.QASM = ""
	}
	b, err := jsonIter.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal run(%s). Reason:%s", rd.ID, err)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	_, err = j.out.Write(pretty.Pretty(b))
	return err
}

func (j *JSONReporter) TearDown() {}
