package truss

import (
	"fmt"
	"math"
	"sort"
)

const TargetStress = 200.0

// Design is a candidate truss.
type Design struct {
	Nodes     int     `json:"nodes" toml:"nodes"`
	Length    float64 `json:"length" toml:"length"`
	MaxStress float64 `json:"max_stress" toml:"max_stress"`
}

func (d Design) String() string {
	return fmt.Sprintf("[%d, %g, %g]", d.Nodes, d.Length, d.MaxStress)
}

// Designs is the reference population of eight trusses. Its size fits a
// 3-qubit search register.
func Designs() []Design {
	return []Design{
		{Nodes: 4, Length: 120, MaxStress: 250},
		{Nodes: 5, Length: 150, MaxStress: 200},
		{Nodes: 6, Length: 180, MaxStress: 180},
		{Nodes: 4, Length: 130, MaxStress: 220},
		{Nodes: 5, Length: 160, MaxStress: 190},
		{Nodes: 6, Length: 200, MaxStress: 150},
		{Nodes: 4, Length: 140, MaxStress: 210},
		{Nodes: 5, Length: 170, MaxStress: 170},
	}
}

// Fitness scores a design; lower is better. It adds the distance of the
// peak stress from TargetStress, the length in hundreds and ten per node.
func Fitness(d Design) float64 {
	return math.Abs(d.MaxStress-TargetStress) + d.Length/100 + float64(d.Nodes)*10
}

type Ranked struct {
	Index   int
	Design  Design
	Fitness float64
}

// Rank orders designs from best to worst fitness. Equal scores keep their
// original order.
func Rank(designs []Design) []Ranked {
	ranked := make([]Ranked, len(designs))
	for i, d := range designs {
		ranked[i] = Ranked{Index: i, Design: d, Fitness: Fitness(d)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness < ranked[j].Fitness
	})
	return ranked
}

// Best returns the index of the minimum-fitness design.
func Best(designs []Design) (int, error) {
	if len(designs) == 0 {
		return 0, fmt.Errorf("no designs")
	}
	return Rank(designs)[0].Index, nil
}

// RegisterWidth is the number of qubits needed to index every design.
func RegisterWidth(designs []Design) int {
	w := 0
	for 1<<w < len(designs) {
		w++
	}
	return w
}
