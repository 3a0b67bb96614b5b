package reporter

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/oqtopus-team/grover-lab/grover"
	"github.com/oqtopus-team/grover-lab/histogram"
	"github.com/oqtopus-team/grover-lab/truss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	validStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9ece6a"))

	invalidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	failedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f7768e"))
)

// TextReporter prints one table per run.
type TextReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTextReporter(out io.Writer) *TextReporter {
	return &TextReporter{out: out}
}

func (t *TextReporter) Setup(*core.Conf) error {
	if t.out == nil {
		return fmt.Errorf("text reporter has no output")
	}
	return nil
}

func (t *TextReporter) TearDown() {}

// Banner prints the problem statement before the runs.
func (t *TextReporter) Banner(p grover.Problem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	title := strings.ToUpper("Grover's algorithm: " + p.Title)
	fmt.Fprintln(t.out, titleStyle.Render(title))
	fmt.Fprintln(t.out, strings.Repeat("=", len(title)))
	if len(p.Description) > 0 {
		fmt.Fprintln(t.out, "\nProblem Configuration:")
		for _, d := range p.Description {
			fmt.Fprintf(t.out, "- %s\n", d)
		}
	}
	fmt.Fprintf(t.out, "\nValid states: %s\n", strings.Join(p.ValidBits(), ", "))
}

func (t *TextReporter) Report(rd *core.RunData) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "\nRunning with %s:\n", iterationsLabel(rd.Iterations))
	fmt.Fprintln(t.out, strings.Repeat("-", 40))
	if rd.Status == core.FAILED {
		fmt.Fprintf(t.out, "%s %s\n", failedStyle.Render("FAILED"), rd.Result.Message)
		return nil
	}
	h, err := histogram.FromCounts(rd.Result.Counts)
	if err != nil {
		return fmt.Errorf("failed to read the counts of run(%s). Reason:%s", rd.ID, err)
	}
	fmt.Fprintf(t.out, "Results from %d measurements:\n", h.Total)

	table := tablewriter.NewWriter(t.out)
	table.SetHeader([]string{"Layout", "Binary", "Count", "Percent", "Result"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range h.Entries(validFunc(rd, h.Width), layoutFor(rd.Problem)) {
		result := invalidStyle.Render("invalid")
		if e.Valid {
			result = validStyle.Render("VALID")
		}
		table.Append([]string{
			e.Layout,
			e.Bits,
			fmt.Sprintf("%d", e.Count),
			fmt.Sprintf("%.1f%%", e.Percent),
			result,
		})
	}
	table.Render()
	fmt.Fprintf(t.out, "Success rate: %.1f%% (expected %.1f%%)\n",
		rd.Result.SuccessRate*100, rd.Result.ExpectedSuccessRate*100)
	return nil
}

// Ranking prints the designs from best to worst fitness.
func (t *TextReporter) Ranking(ranked []truss.Ranked) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, "\nDesign ranking:")
	table := tablewriter.NewWriter(t.out)
	table.SetHeader([]string{"Rank", "Design", "Nodes, Length, Stress", "Fitness"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, r := range ranked {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			histogram.DesignLayout(r.Index, 0),
			r.Design.String(),
			fmt.Sprintf("%.3f", r.Fitness),
		})
	}
	table.Render()
}

func iterationsLabel(k int) string {
	if k == 1 {
		return "1 iteration"
	}
	return fmt.Sprintf("%d iterations", k)
}

// validFunc trusts the valid bitstrings recorded in the run rather than
// the problem catalogue, so custom problems report correctly.
func validFunc(rd *core.RunData, width int) func(int) bool {
	return func(v int) bool {
		return slices.Contains(rd.Result.Valid, histogram.BitString(v, width))
	}
}

func layoutFor(problem string) histogram.LayoutFunc {
	p, err := grover.LookupProblem(problem)
	if err != nil {
		return nil
	}
	return p.Layout
}
