package turtle

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/oqtopus-team/grover-lab/common"
	"go.uber.org/multierr"
)

// FrameDelay is the GIF frame delay in 100ths of a second.
const FrameDelay = 10

type output struct {
	ext    string
	encode func(io.Writer) error
}

// Image draws the first n segments.
func (c *Canvas) Image(n int) image.Image {
	return c.context(n).Image()
}

func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.context(len(c.Segments)).EncodePNG(w)
}

// EncodeGIF writes one frame per captured frame, looping forever.
func (c *Canvas) EncodeGIF(w io.Writer) error {
	if len(c.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := &gif.GIF{LoopCount: 0}
	for _, n := range c.frames {
		img := c.Image(n)
		paletted := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.Draw(paletted, paletted.Rect, img, img.Bounds().Min, draw.Src)
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, FrameDelay)
	}
	return gif.EncodeAll(w, anim)
}

// Save writes <name>_<timestamp>.png and, when frames were captured, the
// matching .gif into dir. It returns the written paths.
func (c *Canvas) Save(dir, name string, start time.Time) (paths []string, err error) {
	if err := common.EnsureWritableDir(dir); err != nil {
		return nil, err
	}
	base, err := common.TimestampedPath(dir, name+"_%Y%m%d_%H%M%S", start)
	if err != nil {
		return nil, err
	}
	outputs := []output{{ext: ".png", encode: c.EncodePNG}}
	if c.Frames() > 0 {
		outputs = append(outputs, output{ext: ".gif", encode: c.EncodeGIF})
	}
	for _, o := range outputs {
		path := base + o.ext
		if err := writeFile(path, o.encode); err != nil {
			return paths, fmt.Errorf("failed to write %s. Reason:%s", filepath.Base(path), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (c *Canvas) context(n int) *gg.Context {
	if n > len(c.Segments) {
		n = len(c.Segments)
	}
	dc := gg.NewContext(c.Width, c.Height)
	dc.SetColor(c.Background)
	dc.Clear()
	dc.SetLineCapRound()
	cx, cy := float64(c.Width)/2, float64(c.Height)/2
	for _, s := range c.Segments[:n] {
		dc.SetColor(s.Color)
		dc.SetLineWidth(s.Width)
		dc.DrawLine(cx+s.From.X, cy-s.From.Y, cx+s.To.X, cy-s.To.Y)
		dc.Stroke()
	}
	return dc
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return encode(f)
}
