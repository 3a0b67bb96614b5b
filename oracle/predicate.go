package oracle

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/oqtopus-team/grover-lab/circuit"
	"go.uber.org/multierr"
)

var (
	ErrArityMismatch        = errors.New("predicate arity does not match the data register")
	ErrInsufficientAncillas = errors.New("not enough ancillas for the predicate")
	ErrOverlappingPatterns  = errors.New("patterns overlap")
	ErrMalformedPattern     = errors.New("malformed pattern")
)

// Predicate is a boolean function over a fixed-width bit assignment.
// The set of variants is closed: Patterns, And and Xor.
type Predicate interface {
	Arity() int
	// Ancillas is the number of helper qubits Build needs for the predicate.
	Ancillas() int
	// Eval evaluates the predicate classically. bits[i] is data qubit i.
	Eval(bits []bool) bool
	String() string

	validate() error
	compile(b *builder, target int, free []int)
}

// Patterns is a disjunction of literal patterns over '0', '1' and '-'
// (don't care). Character i constrains data qubit i.
type Patterns struct {
	width    int
	patterns []string
}

func NewPatterns(width int, patterns ...string) *Patterns {
	return &Patterns{width: width, patterns: slices.Clone(patterns)}
}

// Literal matches exactly one pattern; its width is the pattern length.
func Literal(pattern string) *Patterns {
	return NewPatterns(len(pattern), pattern)
}

func (p *Patterns) Arity() int { return p.width }

func (p *Patterns) Ancillas() int { return 0 }

func (p *Patterns) List() []string { return slices.Clone(p.patterns) }

func (p *Patterns) Eval(bits []bool) bool {
	for _, pat := range p.patterns {
		if patternMatches(pat, bits) {
			return true
		}
	}
	return false
}

func (p *Patterns) String() string {
	return "{" + strings.Join(p.patterns, "|") + "}"
}

func (p *Patterns) validate() error {
	var err error
	for _, pat := range p.patterns {
		if len(pat) != p.width {
			err = multierr.Append(err, fmt.Errorf("%w: %q has width %d, want %d", ErrMalformedPattern, pat, len(pat), p.width))
			continue
		}
		if strings.Trim(pat, "01-") != "" {
			err = multierr.Append(err, fmt.Errorf("%w: %q may only contain '0', '1' and '-'", ErrMalformedPattern, pat))
		}
	}
	if err != nil {
		return err
	}
	for i := 0; i < len(p.patterns); i++ {
		for j := i + 1; j < len(p.patterns); j++ {
			if overlaps(p.patterns[i], p.patterns[j]) {
				err = multierr.Append(err, fmt.Errorf("%w: %s and %s", ErrOverlappingPatterns, p.patterns[i], p.patterns[j]))
			}
		}
	}
	return err
}

// compile toggles target once per matching pattern: X on the cells that
// must be 0, a multi-controlled X on every constrained cell, X again.
func (p *Patterns) compile(b *builder, target int, _ []int) {
	for _, pat := range p.patterns {
		var zeros, controls []int
		for i, c := range pat {
			switch c {
			case '0':
				zeros = append(zeros, b.data[i])
				controls = append(controls, b.data[i])
			case '1':
				controls = append(controls, b.data[i])
			}
		}
		b.flip(zeros)
		b.emit(circuit.NewMCX(controls, target))
		b.flip(zeros)
	}
}

func patternMatches(pat string, bits []bool) bool {
	if len(pat) != len(bits) {
		return false
	}
	for i, c := range pat {
		switch c {
		case '0':
			if bits[i] {
				return false
			}
		case '1':
			if !bits[i] {
				return false
			}
		}
	}
	return true
}

// overlaps reports whether some assignment matches both patterns.
func overlaps(a, b string) bool {
	for i := range a {
		if a[i] != '-' && b[i] != '-' && a[i] != b[i] {
			return false
		}
	}
	return true
}

// And holds when every term holds.
type And struct {
	Terms []Predicate
}

func NewAnd(terms ...Predicate) *And {
	return &And{Terms: terms}
}

func (a *And) Arity() int { return compoundArity(a.Terms) }

func (a *And) Ancillas() int { return compoundAncillas(a.Terms) }

func (a *And) Eval(bits []bool) bool {
	for _, t := range a.Terms {
		if !t.Eval(bits) {
			return false
		}
	}
	return len(a.Terms) > 0
}

func (a *And) String() string { return compoundString("and", a.Terms) }

func (a *And) validate() error { return validateCompound("and", a.Terms) }

func (a *And) compile(b *builder, target int, free []int) {
	b.withTerms(a.Terms, free, func(slots []int) {
		b.emit(circuit.NewMCX(slots, target))
	})
}

// Xor holds when an odd number of terms hold.
type Xor struct {
	Terms []Predicate
}

func NewXor(terms ...Predicate) *Xor {
	return &Xor{Terms: terms}
}

func (x *Xor) Arity() int { return compoundArity(x.Terms) }

func (x *Xor) Ancillas() int { return compoundAncillas(x.Terms) }

func (x *Xor) Eval(bits []bool) bool {
	odd := false
	for _, t := range x.Terms {
		if t.Eval(bits) {
			odd = !odd
		}
	}
	return odd
}

func (x *Xor) String() string { return compoundString("xor", x.Terms) }

func (x *Xor) validate() error { return validateCompound("xor", x.Terms) }

func (x *Xor) compile(b *builder, target int, free []int) {
	b.withTerms(x.Terms, free, func(slots []int) {
		for _, s := range slots {
			b.emit(circuit.NewCX(s, target))
		}
	})
}

func compoundArity(terms []Predicate) int {
	if len(terms) == 0 {
		return 0
	}
	return terms[0].Arity()
}

// compoundAncillas is one ancilla per term plus the deepest term's needs;
// terms uncompute their own helpers, so siblings share the rest of the arena.
func compoundAncillas(terms []Predicate) int {
	deepest := 0
	for _, t := range terms {
		deepest = max(deepest, t.Ancillas())
	}
	return len(terms) + deepest
}

func compoundString(op string, terms []Predicate) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.String())
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}

func validateCompound(op string, terms []Predicate) error {
	if len(terms) == 0 {
		return fmt.Errorf("%s needs at least one term", op)
	}
	for _, t := range terms {
		if t == nil {
			return fmt.Errorf("%s has a nil term", op)
		}
	}
	var err error
	arity := terms[0].Arity()
	for _, t := range terms {
		if t.Arity() != arity {
			err = multierr.Append(err, fmt.Errorf("%w: %s mixes arity %d and %d", ErrArityMismatch, op, arity, t.Arity()))
		}
		err = multierr.Append(err, t.validate())
	}
	return err
}
