package qdx

import "strconv"

// Canvas is a dense row-major {0,1} bitmap, reused across layers (§3
// "Ownership & lifecycle": the decoder owns a single reusable rasterization
// canvas). Canvas satisfies ImageSource so a caller can feed a rasterized
// layer straight back into Encode for a round-trip test.
type Canvas struct {
	h, w int
	px   []Value
}

// NewCanvas allocates a zero-filled canvas of shape (h, w).
func NewCanvas(h, w int) *Canvas {
	return &Canvas{h: h, w: w, px: make([]Value, h*w)}
}

func (c *Canvas) Height() int                  { return c.h }
func (c *Canvas) Width() int                   { return c.w }
func (c *Canvas) PixelAt(row, col int) Value   { return c.px[row*c.w+col] }
func (c *Canvas) set(row, col int, v Value)    { c.px[row*c.w+col] = v }

// Clear resets every pixel to 0 without reallocating, for reuse at each
// layer boundary.
func (c *Canvas) Clear() {
	for i := range c.px {
		c.px[i] = Off
	}
}

// accumulator is the per-layer, per-plane running state of §4.4's
// "Accumulator semantics": last_row (a sentinel that never equals a valid
// row) and segment_start.
type accumulator struct {
	lastRow      int
	segmentStart int
	started      bool
}

func newAccumulator() accumulator {
	return accumulator{lastRow: -1, segmentStart: 0, started: false}
}

// Rasterizer reconstructs the main and thumb canvases for one layer from
// decoded triplet events, applying the mirror rule (§4.4) and flagging
// OverflowRow/ShortRow diagnostics. It implements EventSink so a caller can
// pass it directly to Decode as an extra sink.
type Rasterizer struct {
	Main  *Canvas
	Thumb *Canvas

	mainAcc  accumulator
	thumbAcc accumulator
	curLayer int

	diags []Diagnostic
}

// NewRasterizer allocates the X x Y main canvas and the ThumbX x ThumbY
// thumb canvas.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{
		Main:  NewCanvas(X, Y),
		Thumb: NewCanvas(ThumbX, ThumbY),
	}
}

// Diagnostics returns every diagnostic the rasterizer has raised itself
// (OverflowRow, ShortRow, and MalformedTriplet for a non-positive length)
// together with every diagnostic forwarded to it through Diagnostic, since
// construction (or the last Reset).
func (z *Rasterizer) Diagnostics() []Diagnostic { return z.diags }

// Reset clears both canvases and the diagnostic log, for reuse across an
// entire file's worth of layers when the caller only wants the last layer's
// raster.
func (z *Rasterizer) Reset() {
	z.Main.Clear()
	z.Thumb.Clear()
	z.diags = z.diags[:0]
}

func (z *Rasterizer) Header(string, bool) {}

func (z *Rasterizer) LayerBegin(n int) {
	z.curLayer = n
	z.mainAcc = newAccumulator()
	z.thumbAcc = newAccumulator()
	z.Main.Clear()
	z.Thumb.Clear()
}

func (z *Rasterizer) LayerEnd(int) {}
func (z *Rasterizer) Recap(int, int64, bool) {}

func (z *Rasterizer) MainTriplet(n int, t Triplet) {
	z.paint(z.Main, &z.mainAcc, n, t, PlaneMain, X, Y)
}

func (z *Rasterizer) ThumbTriplet(n int, t Triplet) {
	z.paint(z.Thumb, &z.thumbAcc, n, t, PlaneThumb, ThumbX, ThumbY)
}

func (z *Rasterizer) Diagnostic(d Diagnostic) { z.diags = append(z.diags, d) }

// paint implements the §4.4 accumulator algorithm for one triplet against
// one plane's canvas.
func (z *Rasterizer) paint(canvas *Canvas, acc *accumulator, layer int, t Triplet, plane Plane, extentX, extentY int) {
	if !acc.started || t.Row != acc.lastRow {
		if acc.started && acc.segmentStart < extentX {
			d := Diagnostic{
				Kind:   ShortRow,
				Layer:  layer,
				Plane:  plane,
				Row:    acc.lastRow,
				Detail: "row ended with segment_start " + strconv.Itoa(acc.segmentStart) + " < " + strconv.Itoa(extentX),
			}
			z.diags = append(z.diags, d)
		}
		acc.segmentStart = 0
		acc.lastRow = t.Row
		acc.started = true
	}

	if t.Length < 1 {
		z.diags = append(z.diags, Diagnostic{
			Kind:   MalformedTriplet,
			Layer:  layer,
			Plane:  plane,
			Row:    t.Row,
			Detail: "length " + strconv.Itoa(t.Length) + " is not a positive run",
		})
		return
	}

	segEnd := acc.segmentStart + t.Length
	value := t.Value
	if segEnd > extentX {
		d := Diagnostic{
			Kind:   OverflowRow,
			Layer:  layer,
			Plane:  plane,
			Row:    t.Row,
			Detail: "laser x reaches " + strconv.Itoa(segEnd) + ", canvas extent " + strconv.Itoa(extentX),
		}
		z.diags = append(z.diags, d)
		segEnd = extentX
		value = On
	}

	if value == On {
		// Canvas is stored (extentX, extentY): the first axis is the short
		// axis swept by segment_start..segment_end, the second is the long
		// axis fixed at the (possibly mirrored) row coordinate. A mirrored
		// column can land one past the end (row 0 mirrors to extentY); the
		// original clips such draws rather than wrapping onto the next row,
		// so skip the draw instead of writing out of range.
		col := xCoord(layer, t.Row, extentY)
		if col >= 0 && col < extentY {
			for sweep := acc.segmentStart; sweep < segEnd; sweep++ {
				canvas.set(sweep, col, On)
			}
		}
	}

	acc.segmentStart = segEnd
}

// xCoord implements the §4.4 mirror rule: odd layers render straight, even
// layers mirror across the canvas's long axis.
func xCoord(layer, row, extentY int) int {
	if layer%2 == 1 {
		return row
	}
	return extentY - row
}
