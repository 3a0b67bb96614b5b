package circuit

import (
	"errors"
	"fmt"

	"github.com/mohae/deepcopy"
	"go.uber.org/multierr"
)

var ErrFrozen = errors.New("circuit is frozen")

// Measurement samples Qubits under Key. Qubits[0] is the most significant
// bit of the sampled value.
type Measurement struct {
	Key    string `json:"key"`
	Qubits []int  `json:"qubits"`
}

// Circuit is append-only until Freeze is called. Simulators only accept
// frozen circuits.
type Circuit struct {
	NumQubits    int           `json:"num_qubits"`
	Gates        []Gate        `json:"gates"`
	Measurements []Measurement `json:"measurements,omitempty"`
	frozen       bool
}

func New(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

func (c *Circuit) Append(gates ...Gate) error {
	if c.frozen {
		return ErrFrozen
	}
	var err error
	for _, g := range gates {
		err = multierr.Append(err, c.checkGate(g))
	}
	if err != nil {
		return err
	}
	c.Gates = append(c.Gates, gates...)
	return nil
}

func (c *Circuit) Measure(key string, qubits ...int) error {
	if c.frozen {
		return ErrFrozen
	}
	if key == "" {
		return fmt.Errorf("measurement key must not be empty")
	}
	for _, m := range c.Measurements {
		if m.Key == key {
			return fmt.Errorf("measurement key %q is already used", key)
		}
	}
	if len(qubits) == 0 {
		return fmt.Errorf("measurement %q has no qubits", key)
	}
	seen := map[int]bool{}
	for _, q := range qubits {
		if err := c.checkQubit(q); err != nil {
			return err
		}
		if seen[q] {
			return fmt.Errorf("qubit %d is measured twice under %q", q, key)
		}
		seen[q] = true
	}
	c.Measurements = append(c.Measurements, Measurement{Key: key, Qubits: append([]int{}, qubits...)})
	return nil
}

func (c *Circuit) Freeze() *Circuit {
	c.frozen = true
	return c
}

func (c *Circuit) Frozen() bool {
	return c.frozen
}

// Clone returns an unfrozen deep copy.
func (c *Circuit) Clone() *Circuit {
	return deepcopy.Copy(c).(*Circuit)
}

func (c *Circuit) Len() int {
	return len(c.Gates)
}

func (c *Circuit) checkQubit(q int) error {
	if q < 0 || q >= c.NumQubits {
		return fmt.Errorf("qubit %d is out of range [0, %d)", q, c.NumQubits)
	}
	return nil
}

func (c *Circuit) checkGate(g Gate) error {
	switch g.Name {
	case H, X, Z:
	case RY, P:
		if len(g.Params) != 1 {
			return fmt.Errorf("%s needs exactly one parameter, got %d", g.Name, len(g.Params))
		}
	default:
		return fmt.Errorf("unknown gate %q", g.Name)
	}
	seen := map[int]bool{}
	var err error
	for _, q := range g.Qubits() {
		if e := c.checkQubit(q); e != nil {
			err = multierr.Append(err, e)
			continue
		}
		if seen[q] {
			err = multierr.Append(err, fmt.Errorf("qubit %d is used twice in %s", q, g))
		}
		seen[q] = true
	}
	return err
}
