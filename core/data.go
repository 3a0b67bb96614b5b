package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type Status int

// Counts maps a measured bitstring ("1100") to the number of shots that produced it.
type Counts map[string]uint32

// Samples holds, per measurement key, one register value per repetition.
type Samples map[string][]int

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

func (c Counts) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal core.Counts")
		return ""
	}
	return string(st)
}

func (c Counts) Total() uint32 {
	var total uint32
	for _, v := range c {
		total += v
	}
	return total
}

// Keys returns the bitstrings in ascending order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const (
	READY     Status = iota // Built, not yet sent to the simulator.
	RUNNING                 // Being sampled.
	SUCCEEDED               // Finished successfully.
	FAILED                  // Finished with failure.
	CANCELLED               // Dropped before running.
)

func (s Status) String() string {
	switch s {
	case READY:
		return "ready"
	case RUNNING:
		return "running"
	case SUCCEEDED:
		return "succeeded"
	case FAILED:
		return "failed"
	case CANCELLED:
		return "cancelled"
	default:
		return "unknown"
	}
}

func ToStatus(s string) (Status, error) {
	switch s {
	case "ready":
		return READY, nil
	case "running":
		return RUNNING, nil
	case "succeeded":
		return SUCCEEDED, nil
	case "failed":
		return FAILED, nil
	case "cancelled":
		return CANCELLED, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", s)
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	st, err := ToStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

type Result struct {
	Counts Counts `json:"counts"`
	// Valid lists the bitstrings the predicate marks.
	Valid               []string      `json:"valid"`
	SuccessRate         float64       `json:"success_rate"`
	ExpectedSuccessRate float64       `json:"expected_success_rate"`
	Message             string        `json:"message"`
	ExecutionTime       time.Duration `json:"execution_time"`
}

func NewResult() *Result {
	return &Result{
		Counts: make(Counts),
	}
}

// RunData describes one Grover run: a problem sampled with a fixed
// iteration count.
type RunData struct {
	ID         string          `json:"id"`
	Problem    string          `json:"problem"`
	Title      string          `json:"title"`
	Arity      int             `json:"arity"`
	NumQubits  int             `json:"num_qubits"`
	Iterations int             `json:"iterations"`
	Shots      int             `json:"shots"`
	Status     Status          `json:"status"`
	QASM       string          `json:"qasm"`
	Result     *Result         `json:"result"`
	Created    strfmt.DateTime `json:"created"`
	Ended      strfmt.DateTime `json:"ended"`
}

func NewRunData() *RunData {
	return &RunData{
		ID:      uuid.New().String(),
		Status:  READY,
		Result:  NewResult(),
		Created: strfmt.DateTime(time.Now()),
	}
}

func (rd *RunData) Clone() *RunData {
	c := deepcopy.Copy(rd).(*RunData)
	c.Created = *rd.Created.DeepCopy()
	c.Ended = *rd.Ended.DeepCopy()
	return c
}

func (rd *RunData) IsFinished() bool {
	return rd.Status == SUCCEEDED || rd.Status == FAILED || rd.Status == CANCELLED
}

func (rd *RunData) ToString() string {
	b, err := jsonIter.Marshal(rd)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal run data(%s). Reason:%s", rd.ID, err))
		return ""
	}
	return string(pretty.Pretty(b))
}
