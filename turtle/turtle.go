// Package turtle draws walks whose turns are decided by measuring qubits.
package turtle

import (
	"image/color"
	"math"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 800
	// StepDistance is the length of one walk step.
	StepDistance = 50.0
)

var (
	Black       = color.RGBA{A: 255}
	Cyan        = color.RGBA{G: 255, B: 255, A: 255}
	Blue        = color.RGBA{B: 255, A: 255}
	Green       = color.RGBA{G: 128, A: 255}
	ghostZero   = color.RGBA{R: 102, B: 102, A: 255}
	ghostOne    = color.RGBA{R: 102, G: 102, A: 255}
	penWidth    = 2.0
	branchWidth = 1.0
)

type Point struct {
	X, Y float64
}

type Segment struct {
	From, To Point
	Color    color.Color
	Width    float64
}

// Canvas records what its turtles draw. Coordinates are centred with y
// pointing up. A frame is the number of segments drawn when it was captured.
type Canvas struct {
	Width      int
	Height     int
	Background color.Color
	Segments   []Segment
	frames     []int
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:      width,
		Height:     height,
		Background: Black,
	}
}

func (c *Canvas) NewTurtle(x, y float64, pen color.Color) *Turtle {
	return &Turtle{
		canvas: c,
		pos:    Point{X: x, Y: y},
		pen:    pen,
		width:  penWidth,
	}
}

func (c *Canvas) CaptureFrame() {
	c.frames = append(c.frames, len(c.Segments))
}

func (c *Canvas) Frames() int {
	return len(c.frames)
}

func (c *Canvas) line(from, to Point, col color.Color, width float64) {
	c.Segments = append(c.Segments, Segment{From: from, To: to, Color: col, Width: width})
}

// Turtle headings are in degrees, 0 pointing east and growing
// counterclockwise.
type Turtle struct {
	canvas  *Canvas
	pos     Point
	heading float64
	pen     color.Color
	width   float64
}

func (t *Turtle) Position() Point {
	return t.pos
}

func (t *Turtle) Heading() float64 {
	return t.heading
}

func (t *Turtle) SetHeading(deg float64) {
	t.heading = normalizeDegrees(deg)
}

func (t *Turtle) Right(deg float64) {
	t.SetHeading(t.heading - deg)
}

func (t *Turtle) Left(deg float64) {
	t.SetHeading(t.heading + deg)
}

func (t *Turtle) SetPen(c color.Color) {
	t.pen = c
}

func (t *Turtle) Forward(distance float64) {
	to := t.ahead(t.heading, distance)
	t.canvas.line(t.pos, to, t.pen, t.width)
	t.pos = to
}

// Branches draws the two possible continuations 45 degrees either side of
// the heading, then walks half a step along the measured one. The turtle
// keeps the heading of the branch it took.
func (t *Turtle) Branches(measuredOne bool, distance float64) {
	heading := t.heading
	t.Forward(distance / 2)
	mid := t.pos
	t.canvas.line(mid, t.ahead(heading+45, distance), ghostZero, branchWidth)
	t.canvas.line(mid, t.ahead(heading-45, distance), ghostOne, branchWidth)
	if measuredOne {
		t.SetHeading(heading - 45)
	} else {
		t.SetHeading(heading + 45)
	}
	t.Forward(distance / 2)
}

func (t *Turtle) ahead(heading, distance float64) Point {
	rad := heading * math.Pi / 180
	return Point{
		X: t.pos.X + distance*math.Cos(rad),
		Y: t.pos.Y + distance*math.Sin(rad),
	}
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
