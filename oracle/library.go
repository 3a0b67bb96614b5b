package oracle

import (
	"math/bits"
	"strings"
)

// ExactlyOnes marks every width-bit assignment with exactly k ones. The
// patterns are fully specified, so they never overlap.
func ExactlyOnes(width, k int) *Patterns {
	var patterns []string
	for v := 0; v < 1<<width; v++ {
		if bits.OnesCount(uint(v)) == k {
			patterns = append(patterns, BitString(v, width))
		}
	}
	return NewPatterns(width, patterns...)
}

// Adjacent requires cells i and i+1 to both be 1.
func Adjacent(width, i int) *Patterns {
	cells := []byte(strings.Repeat("-", width))
	cells[i], cells[i+1] = '1', '1'
	return NewPatterns(width, string(cells))
}

// Index marks the single assignment equal to value.
func Index(width, value int) *Patterns {
	return Literal(BitString(value, width))
}

// NonOverlappingAdjacency marks four rooms with exactly two public ones
// forming exactly one adjacent pair in the window (0,1) or (2,3). Only
// 1100 and 0011 qualify.
func NonOverlappingAdjacency() Predicate {
	return NewAnd(
		ExactlyOnes(4, 2),
		NewXor(Adjacent(4, 0), Adjacent(4, 2)),
	)
}
