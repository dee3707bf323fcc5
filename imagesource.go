package qdx

// ImageSource is the narrow capability the encoder consumes instead of a
// concrete image type (§9 "Duck-typed image inputs"). Grayscale thresholding
// and resizing are the caller's responsibility; the core only reads pixels.
type ImageSource interface {
	Height() int
	Width() int
	// PixelAt returns 0 or 1 for the pixel at (row, col).
	PixelAt(row, col int) Value
}

// GrayGrid is the simplest ImageSource: a dense {0,1} grid held in memory.
// Encoder instances do not retain GrayGrid values across calls; callers keep
// ownership (§3 "Ownership & lifecycle").
type GrayGrid struct {
	h, w int
	px   []Value
}

// NewGrayGrid allocates a zero-filled grid of the given shape.
func NewGrayGrid(h, w int) *GrayGrid {
	return &GrayGrid{h: h, w: w, px: make([]Value, h*w)}
}

func (g *GrayGrid) Height() int { return g.h }
func (g *GrayGrid) Width() int  { return g.w }

func (g *GrayGrid) PixelAt(row, col int) Value {
	return g.px[row*g.w+col]
}

// Set stores a pixel value at (row, col).
func (g *GrayGrid) Set(row, col int, v Value) {
	g.px[row*g.w+col] = v
}

// Centered returns a new grid of shape (targetH, targetW) with src painted in
// the middle, per §4.2 "Centering": offsets are floor((target-src)/2) on each
// axis. If src already matches the target shape it is returned unchanged.
func Centered(src ImageSource, targetH, targetW int) ImageSource {
	if src.Height() == targetH && src.Width() == targetW {
		return src
	}
	out := NewGrayGrid(targetH, targetW)
	yOff := (targetH - src.Height()) / 2
	xOff := (targetW - src.Width()) / 2
	for r := 0; r < src.Height(); r++ {
		tr := r + yOff
		if tr < 0 || tr >= targetH {
			continue
		}
		for c := 0; c < src.Width(); c++ {
			tc := c + xOff
			if tc < 0 || tc >= targetW {
				continue
			}
			out.Set(tr, tc, src.PixelAt(r, c))
		}
	}
	return out
}
