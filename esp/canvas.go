package esp

import "image/color"

// Canvas is the render surface the repaint pass draws on. Text positions
// are baselines, as in a native text-out call.
type Canvas interface {
	DrawText(x, y float64, s string, clr color.RGBA)
	FillRect(x, y, w, h float64, clr color.RGBA)
}

type OpKind int

const (
	OpText OpKind = iota
	OpRect
)

// Op is one recorded drawing call.
type Op struct {
	Kind       OpKind
	X, Y, W, H float64
	Text       string
	Color      color.RGBA
}

// DisplayList is a Canvas that records calls for later replay. The overlay
// rebuilds it on each repaint tick and replays it on each frame.
type DisplayList struct {
	ops []Op
}

func (d *DisplayList) DrawText(x, y float64, s string, clr color.RGBA) {
	d.ops = append(d.ops, Op{Kind: OpText, X: x, Y: y, Text: s, Color: clr})
}

func (d *DisplayList) FillRect(x, y, w, h float64, clr color.RGBA) {
	d.ops = append(d.ops, Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Color: clr})
}

// Reset empties the list, keeping its capacity.
func (d *DisplayList) Reset() {
	d.ops = d.ops[:0]
}

// Ops returns the recorded calls in order. The slice is only valid until
// the next Reset.
func (d *DisplayList) Ops() []Op {
	return d.ops
}

func (d *DisplayList) Len() int {
	return len(d.ops)
}

// Replay issues every recorded call on c, in order.
func (d *DisplayList) Replay(c Canvas) {
	for _, op := range d.ops {
		switch op.Kind {
		case OpText:
			c.DrawText(op.X, op.Y, op.Text, op.Color)
		case OpRect:
			c.FillRect(op.X, op.Y, op.W, op.H, op.Color)
		}
	}
}
