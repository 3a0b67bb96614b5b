package grover

import (
	"fmt"
	"sort"

	"github.com/oqtopus-team/grover-lab/histogram"
	"github.com/oqtopus-team/grover-lab/oracle"
	"github.com/oqtopus-team/grover-lab/truss"
)

const (
	ExactlyTwoProblem     = "exactly-two"
	NonOverlappingProblem = "non-overlapping"
	AdjacentRoomsProblem  = "adjacent-rooms"
	TrussProblemName      = "truss"
)

// Problem is a named search the CLI and the sweep can run.
type Problem struct {
	Name        string
	Title       string
	Description []string
	Predicate   oracle.Predicate
	Layout      histogram.LayoutFunc
}

// Valid reports whether value is one of the problem's solutions.
func (p Problem) Valid(value int) bool {
	return oracle.Matches(p.Predicate, value)
}

// ValidBits lists the solutions as bitstrings, ascending.
func (p Problem) ValidBits() []string {
	solutions := oracle.Solutions(p.Predicate)
	bits := make([]string, len(solutions))
	for i, v := range solutions {
		bits[i] = oracle.BitString(v, p.Predicate.Arity())
	}
	return bits
}

func Problems() map[string]Problem {
	problems := map[string]Problem{
		ExactlyTwoProblem: {
			Name:  ExactlyTwoProblem,
			Title: "Room layout with exactly two public rooms",
			Description: []string{
				"4 rooms in a row",
				"Looking for layouts with exactly 2 public rooms",
				"Public room = [P], Private room = [_]",
			},
			Predicate: oracle.ExactlyOnes(4, 2),
			Layout:    histogram.RoomLayout,
		},
		NonOverlappingProblem: {
			Name:  NonOverlappingProblem,
			Title: "Non-overlapping adjacency",
			Description: []string{
				"4 room-qubits in a row",
				"Exactly 2 public rooms",
				"Exactly one adjacency pair, only in (q0,q1) or (q2,q3)",
				"Valid states are 1100 and 0011 only",
			},
			Predicate: oracle.NonOverlappingAdjacency(),
			Layout:    histogram.RoomLayout,
		},
		AdjacentRoomsProblem: {
			Name:  AdjacentRoomsProblem,
			Title: "Two adjacent public rooms out of three",
			Description: []string{
				"3 rooms in a row",
				"Exactly 2 public rooms, next to each other",
			},
			Predicate: oracle.NewPatterns(3, "110", "011"),
			Layout:    histogram.RoomLayout,
		},
	}
	if p, err := TrussProblem(truss.Designs()); err == nil {
		problems[p.Name] = p
	}
	return problems
}

// TrussProblem marks the index of the minimum-fitness design.
func TrussProblem(designs []truss.Design) (Problem, error) {
	best, err := truss.Best(designs)
	if err != nil {
		return Problem{}, err
	}
	width := max(truss.RegisterWidth(designs), 1)
	return Problem{
		Name:  TrussProblemName,
		Title: "Minimum-fitness truss design",
		Description: []string{
			fmt.Sprintf("%d candidate designs indexed by a %d-qubit register", len(designs), width),
			fmt.Sprintf("fitness = |stress-%g| + length/100 + nodes*10, lower is better", truss.TargetStress),
		},
		Predicate: oracle.Index(width, best),
		Layout:    histogram.DesignLayout,
	}, nil
}

func ProblemNames() []string {
	var names []string
	for name := range Problems() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LookupProblem(name string) (Problem, error) {
	p, ok := Problems()[name]
	if !ok {
		return Problem{}, fmt.Errorf("unknown problem %q. choose from %v", name, ProblemNames())
	}
	return p, nil
}
