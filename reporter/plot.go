package reporter

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/oqtopus-team/grover-lab/common"
	"github.com/oqtopus-team/grover-lab/core"
	"github.com/oqtopus-team/grover-lab/histogram"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	PlotPattern    = "grover_plot_%Y%m%d_%H%M%S.png"
	PlotSettingKey = "plot"
)

// PlotSetting is read from [com.plot].
type PlotSetting struct {
	OutputDir string `toml:"output_dir"`
	Disable   bool   `toml:"disable"`
}

func NewPlotSetting() PlotSetting {
	return PlotSetting{}
}

// Apply overrides the output directory when one is set and disables
// plotting when either side asks for it.
func (s PlotSetting) Apply(conf *core.Conf) {
	if s.OutputDir != "" {
		conf.OutputDir = s.OutputDir
	}
	conf.DisablePlot = conf.DisablePlot || s.Disable
}

var (
	validColor   = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	invalidColor = color.RGBA{R: 211, G: 211, B: 211, A: 255}
)

// PlotReporter collects the succeeded runs of a sweep and renders them
// side by side as bar charts into one PNG on TearDown.
type PlotReporter struct {
	mu       sync.Mutex
	dir      string
	start    time.Time
	disabled bool
	runs     []*core.RunData
	saved    string
}

func NewPlotReporter(start time.Time) *PlotReporter {
	return &PlotReporter{start: start}
}

func (p *PlotReporter) Setup(conf *core.Conf) error {
	p.dir = conf.OutputDir
	p.disabled = conf.DisablePlot
	return nil
}

func (p *PlotReporter) Report(rd *core.RunData) error {
	if rd.Status != core.SUCCEEDED {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs = append(p.runs, rd.Clone())
	return nil
}

// TearDown writes the plot. Rendering problems are logged and never
// propagated.
func (p *PlotReporter) TearDown() {
	if p.disabled {
		return
	}
	path, err := p.Save()
	if err != nil {
		zap.L().Warn(fmt.Sprintf("failed to save the plot. Reason:%s", err))
		return
	}
	if path != "" {
		zap.L().Info(fmt.Sprintf("saved plot to %s", path))
	}
}

// Saved is the path of the last written plot, empty before TearDown.
func (p *PlotReporter) Saved() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saved
}

// Save renders the collected runs into the output directory. It returns
// an empty path when there is nothing to plot.
func (p *PlotReporter) Save() (path string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.runs) == 0 {
		return "", nil
	}
	if err := common.EnsureWritableDir(p.dir); err != nil {
		return "", err
	}
	path, err = common.TimestampedPath(p.dir, PlotPattern, p.start)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil {
				zap.L().Warn(fmt.Sprintf("failed to remove %s. Reason:%s", path, rerr))
			}
			path = ""
		}
	}()
	if err = renderRuns(f, p.runs); err != nil {
		return "", err
	}
	p.saved = path
	return path, nil
}

// Render writes the PNG of the collected runs to w.
func (p *PlotReporter) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return renderRuns(w, p.runs)
}

func renderRuns(w io.Writer, runs []*core.RunData) (err error) {
	if len(runs) == 0 {
		return fmt.Errorf("no runs to plot")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plot panicked: %v", r)
		}
	}()
	plots := make([][]*plot.Plot, 1)
	for _, rd := range runs {
		plt, err := runPlot(rd)
		if err != nil {
			return err
		}
		plots[0] = append(plots[0], plt)
	}
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(len(runs))*6*vg.Inch, 5*vg.Inch),
		vgimg.UseDPI(96))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(runs),
		PadX:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i, plt := range plots[0] {
		plt.Draw(canvases[0][i])
	}
	_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

func runPlot(rd *core.RunData) (*plot.Plot, error) {
	h, err := histogram.FromCounts(rd.Result.Counts)
	if err != nil {
		return nil, fmt.Errorf("failed to read the counts of run(%s). Reason:%s", rd.ID, err)
	}
	dense := h.Dense()
	valid := make(plotter.Values, len(dense))
	invalid := make(plotter.Values, len(dense))
	names := make([]string, len(dense))
	labels := plotter.XYLabels{}
	layout := layoutFor(rd.Problem)
	for v, c := range dense {
		bits := histogram.BitString(v, h.Width)
		names[v] = "|" + bits + ">"
		if slices.Contains(rd.Result.Valid, bits) {
			valid[v] = float64(c)
		} else {
			invalid[v] = float64(c)
		}
		if c > 0 && layout != nil {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(v), Y: float64(c)})
			labels.Labels = append(labels.Labels, layout(v, h.Width))
		}
	}

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("%s, %s", rd.Problem, iterationsLabel(rd.Iterations))
	plt.Y.Label.Text = "Frequency"
	plt.X.Tick.Label.Rotation = math.Pi / 4
	plt.X.Tick.Label.XAlign = draw.XRight
	plt.X.Tick.Label.YAlign = draw.YCenter
	for _, series := range []struct {
		values plotter.Values
		color  color.Color
	}{
		{values: valid, color: validColor},
		{values: invalid, color: invalidColor},
	} {
		bars, err := plotter.NewBarChart(series.values, vg.Points(12))
		if err != nil {
			return nil, err
		}
		bars.Color = series.color
		bars.LineStyle.Width = 0
		plt.Add(bars)
	}
	if len(labels.Labels) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Font.Size = vg.Points(7)
			l.TextStyle[i].Rotation = math.Pi / 4
			l.TextStyle[i].YAlign = draw.YBottom
		}
		plt.Add(l)
	}
	plt.NominalX(names...)
	return plt, nil
}
