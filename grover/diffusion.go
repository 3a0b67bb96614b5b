package grover

import (
	"fmt"
	"math"

	"github.com/oqtopus-team/grover-lab/circuit"
	"github.com/oqtopus-team/grover-lab/oracle"
)

// Diffusion reflects the data register about its mean amplitude:
// H, X, a Z on the last cell controlled by all the others, X, H.
func Diffusion(data []int) []circuit.Gate {
	n := len(data)
	if n == 0 {
		return nil
	}
	gates := make([]circuit.Gate, 0, 4*n+1)
	gates = append(gates, circuit.Layer(circuit.NewH, data)...)
	gates = append(gates, circuit.Layer(circuit.NewX, data)...)
	gates = append(gates, circuit.NewMCZ(data[:n-1], data[n-1]))
	gates = append(gates, circuit.Layer(circuit.NewX, data)...)
	gates = append(gates, circuit.Layer(circuit.NewH, data)...)
	return gates
}

// OptimalIterations is round(pi/4 * sqrt(2^arity / solutions)).
func OptimalIterations(arity, solutions int) (int, error) {
	if err := checkSolutions(arity, solutions); err != nil {
		return 0, err
	}
	return int(math.Round(math.Pi / 4 * math.Sqrt(float64(int(1)<<arity)/float64(solutions)))), nil
}

// SuccessProbability is the probability of measuring one of the solutions
// after k iterations: sin^2((2k+1)*theta) with sin(theta) = sqrt(M/N).
func SuccessProbability(arity, solutions, k int) (float64, error) {
	if err := checkSolutions(arity, solutions); err != nil {
		return 0, err
	}
	if k < 0 {
		return 0, fmt.Errorf("iterations(%d) must not be negative", k)
	}
	theta := math.Asin(math.Sqrt(float64(solutions) / float64(int(1)<<arity)))
	s := math.Sin(float64(2*k+1) * theta)
	return s * s, nil
}

// OptimalIterationsFor counts the solutions of p classically.
func OptimalIterationsFor(p oracle.Predicate) (int, error) {
	if err := oracle.Validate(p); err != nil {
		return 0, err
	}
	return OptimalIterations(p.Arity(), oracle.SolutionCount(p))
}

func checkSolutions(arity, solutions int) error {
	if arity < 1 {
		return fmt.Errorf("arity(%d) must be greater than 0", arity)
	}
	if solutions < 1 || solutions > 1<<arity {
		return fmt.Errorf("solutions(%d) must be in [1, %d]", solutions, 1<<arity)
	}
	return nil
}
