package surface

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/oqtopus-team/grover-lab/common"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const SurfacePattern = "grover_surface_%Y%m%d_%H%M%S.png"

var (
	phaseTicks = plot.ConstantTicks{
		{Value: 0, Label: "0"},
		{Value: math.Pi / 2, Label: "π/2"},
		{Value: math.Pi, Label: "π"},
		{Value: 3 * math.Pi / 2, Label: "3π/2"},
		{Value: 2 * math.Pi, Label: "2π"},
	}
	amplitudeTicks = plot.ConstantTicks{
		{Value: 0, Label: "0"},
		{Value: math.Pi / 4, Label: "π/4"},
		{Value: math.Pi / 2, Label: "π/2"},
		{Value: 3 * math.Pi / 4, Label: "3π/4"},
		{Value: math.Pi, Label: "π"},
	}
)

// Render draws the surfaces side by side as heat maps into a PNG.
func Render(w io.Writer, surfaces ...*Surface) (err error) {
	if len(surfaces) == 0 {
		return fmt.Errorf("no surfaces to render")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("surface rendering panicked: %v", r)
		}
	}()
	plots := make([][]*plot.Plot, 1)
	for _, s := range surfaces {
		plots[0] = append(plots[0], heatPlot(s))
	}
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(len(surfaces))*6*vg.Inch, 5*vg.Inch),
		vgimg.UseDPI(96))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(surfaces),
		PadX:      vg.Millimeter * 8,
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

// Save renders the surfaces into dir under a file name stamped with start.
func Save(dir string, start time.Time, surfaces ...*Surface) (path string, err error) {
	if err := common.EnsureWritableDir(dir); err != nil {
		return "", err
	}
	path, err = common.TimestampedPath(dir, SurfacePattern, start)
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
	}()
	if err = Render(f, surfaces...); err != nil {
		return "", err
	}
	return path, nil
}

func heatPlot(s *Surface) *plot.Plot {
	plt := plot.New()
	plt.Title.Text = s.Title
	plt.X.Label.Text = s.XLabel
	plt.Y.Label.Text = s.YLabel
	plt.X.Tick.Marker = phaseTicks
	plt.Y.Tick.Marker = amplitudeTicks

	h := plotter.NewHeatMap(s, palette.Heat(32, 1))
	plt.Add(h)
	return plt
}
