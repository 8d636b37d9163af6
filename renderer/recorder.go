package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// OpKind identifies a recorded drawing call.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpRadial
	OpLinearV
	OpCircleGradient
	OpCircle
	OpRect
	OpLine
)

var opNames = [...]string{"clear", "radial", "linear-v", "circle-gradient", "circle", "rect", "line"}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "unknown"
}

// Op is one recorded drawing call.
type Op struct {
	Kind   OpKind
	From   r2.Vec // Centre, line start or rectangle origin
	To     r2.Vec // Line end or rectangle size
	Radius float64 // Radius or line width
	Colors []color.NRGBA
}

// Recorder is a Surface that keeps every call instead of drawing.
type Recorder struct {
	W, H     float64
	Ops      []Op
	Released bool
}

// NewRecorder creates a recorder of the given size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) record(op Op) {
	if r.Released {
		return
	}
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) Clear(c color.NRGBA) {
	r.record(Op{Kind: OpClear, Colors: []color.NRGBA{c}})
}

func (r *Recorder) FillRadial(center r2.Vec, radius float64, inner, outer color.NRGBA) {
	r.record(Op{Kind: OpRadial, From: center, Radius: radius, Colors: []color.NRGBA{inner, outer}})
}

func (r *Recorder) FillLinearV(x, y, w, h float64, top, bottom color.NRGBA) {
	r.record(Op{Kind: OpLinearV, From: r2.Vec{X: x, Y: y}, To: r2.Vec{X: w, Y: h}, Colors: []color.NRGBA{top, bottom}})
}

func (r *Recorder) FillCircleGradient(center r2.Vec, radius float64, stops []Stop) {
	cs := make([]color.NRGBA, len(stops))
	for i, s := range stops {
		cs[i] = s.Color
	}
	r.record(Op{Kind: OpCircleGradient, From: center, Radius: radius, Colors: cs})
}

func (r *Recorder) FillCircle(center r2.Vec, radius float64, c color.NRGBA) {
	r.record(Op{Kind: OpCircle, From: center, Radius: radius, Colors: []color.NRGBA{c}})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.NRGBA) {
	r.record(Op{Kind: OpRect, From: r2.Vec{X: x, Y: y}, To: r2.Vec{X: w, Y: h}, Colors: []color.NRGBA{c}})
}

func (r *Recorder) StrokeLine(from, to r2.Vec, width float64, c color.NRGBA) {
	r.record(Op{Kind: OpLine, From: from, To: to, Radius: width, Colors: []color.NRGBA{c}})
}

func (r *Recorder) Release() { r.Released = true }

// Count returns the number of recorded calls of a kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
