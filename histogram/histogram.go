package histogram

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oqtopus-team/grover-lab/core"
)

// LayoutFunc renders a measured value of the given register width for humans.
type LayoutFunc func(value, width int) string

// Summarize counts how often each value occurs in samples.
func Summarize(samples []int) map[int]int {
	counts := make(map[int]int)
	for _, s := range samples {
		counts[s]++
	}
	return counts
}

// Histogram is the frequency table of one measured register.
type Histogram struct {
	Width  int
	Counts map[int]int
	Total  int
}

func New(width int, samples []int) *Histogram {
	return &Histogram{
		Width:  width,
		Counts: Summarize(samples),
		Total:  len(samples),
	}
}

// Entry is one observed value, ready to be printed or plotted.
type Entry struct {
	Value   int
	Bits    string
	Layout  string
	Count   int
	Percent float64
	Valid   bool
}

func BitString(value, width int) string {
	return fmt.Sprintf("%0*b", width, value)
}

// ToCounts converts the histogram into bitstring keyed counts.
func (h *Histogram) ToCounts() core.Counts {
	counts := make(core.Counts, len(h.Counts))
	for v, c := range h.Counts {
		counts[BitString(v, h.Width)] = uint32(c)
	}
	return counts
}

// FromCounts rebuilds a histogram from bitstring keyed counts. Every key
// must have the same length.
func FromCounts(counts core.Counts) (*Histogram, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("counts is empty")
	}
	h := &Histogram{Counts: make(map[int]int, len(counts))}
	for k, c := range counts {
		if h.Width == 0 {
			h.Width = len(k)
		} else if h.Width != len(k) {
			return nil, fmt.Errorf("different length of keys in counts")
		}
		v, err := strconv.ParseUint(k, 2, 32)
		if err != nil {
			return nil, fmt.Errorf("%q is not a bitstring", k)
		}
		h.Counts[int(v)] += int(c)
		h.Total += int(c)
	}
	return h, nil
}

// Entries lists every observed value, most frequent first. Ties are broken
// by value.
func (h *Histogram) Entries(valid func(int) bool, layout LayoutFunc) []Entry {
	entries := make([]Entry, 0, len(h.Counts))
	for v, c := range h.Counts {
		e := Entry{
			Value: v,
			Bits:  BitString(v, h.Width),
			Count: c,
			Valid: valid != nil && valid(v),
		}
		if h.Total > 0 {
			e.Percent = float64(c) / float64(h.Total) * 100
		}
		if layout != nil {
			e.Layout = layout(v, h.Width)
		} else {
			e.Layout = e.Bits
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	return entries
}

// Dense returns the count of every value of the register, observed or not.
func (h *Histogram) Dense() []int {
	dense := make([]int, 1<<h.Width)
	for v, c := range h.Counts {
		if v >= 0 && v < len(dense) {
			dense[v] = c
		}
	}
	return dense
}

// SuccessRate is the fraction of samples that landed on a valid value.
// A nil valid marks nothing.
func (h *Histogram) SuccessRate(valid func(int) bool) float64 {
	if h.Total == 0 || valid == nil {
		return 0
	}
	hits := 0
	for v, c := range h.Counts {
		if valid(v) {
			hits += c
		}
	}
	return float64(hits) / float64(h.Total)
}

// RoomLayout draws a public room (1) as [P] and a private room (0) as [_].
func RoomLayout(value, width int) string {
	var sb strings.Builder
	for _, b := range BitString(value, width) {
		if b == '1' {
			sb.WriteString("[P]")
		} else {
			sb.WriteString("[_]")
		}
	}
	return sb.String()
}

// DesignLayout names the value as a 1-based design number.
func DesignLayout(value, _ int) string {
	return fmt.Sprintf("Design %d", value+1)
}
