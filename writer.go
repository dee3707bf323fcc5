package qdx

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// writer is a buffered writer, kept from the teacher's writer interface:
// bufio.Writer already satisfies it, and callers may pass their own.
type writer interface {
	Flush() error
	io.Writer
}

// encoder writes a QDX stream. Like the teacher's JPEG encoder, it carries a
// sticky first error: once set, every subsequent write becomes a no-op so
// callers don't need to check an error after every line.
type encoder struct {
	w   writer
	err error

	layerHeight int
	triplets    int // running total, for the recap checksum field
	layers      int
}

func (e *encoder) writeLine(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

func (e *encoder) flush() {
	if e.err != nil {
		return
	}
	e.err = e.w.Flush()
}

// writeTriplets runs the RLE column scan (§4.2) over src and writes one line
// per emitted triplet, in ascending-column then ascending-row order.
//
// Algorithm per column: track the previous value and a run count; emit
// (col, count, prev) on every value change and after the last row. A run
// spanning the entire column height is suppressed (§4.2 "Uniform-column
// suppression") — decoders must not assume full coverage because of this.
func (e *encoder) writeTriplets(src ImageSource) {
	h, w := src.Height(), src.Width()
	for col := 0; col < w; col++ {
		prev := src.PixelAt(0, col)
		count := 1
		for row := 1; row < h; row++ {
			v := src.PixelAt(row, col)
			if v == prev {
				count++
				continue
			}
			if count != h {
				e.writeLine("%s", Triplet{Row: col, Length: count, Value: prev})
				e.triplets++
			}
			prev = v
			count = 1
		}
		if count != h {
			e.writeLine("%s", Triplet{Row: col, Length: count, Value: prev})
			e.triplets++
		}
	}
}

// EncodeOptions configures Encode. A nil *EncodeOptions uses defaults:
// LayerHeight must be set by the caller (there is no sane default printer
// layer height), so EncodeOptions is mandatory where LayerHeight matters.
type EncodeOptions struct {
	LayerHeight int
	Logger      zerolog.Logger
}

func (o *EncodeOptions) logger() zerolog.Logger {
	if o == nil {
		return DefaultLogger
	}
	return o.Logger
}

// Encode writes a complete QDX stream for the given ordered images to w.
// Every image must share the same (height, width), with height <= X and
// width <= Y; otherwise Encode returns a *GeometryMismatchError and aborts
// without writing a partial footer (§7: GeometryMismatch is fatal on encode).
//
// Each image is centered onto the full X x Y canvas (and, independently, its
// caller-supplied thumbnail source is centered onto ThumbX x ThumbY) before
// the RLE column scan runs; see §4.2 "Centering".
func Encode(w io.Writer, mains []ImageSource, thumbs []ImageSource, o *EncodeOptions) error {
	if len(mains) != len(thumbs) {
		return fmt.Errorf("qdx: encode: %d main images but %d thumbnails", len(mains), len(thumbs))
	}
	layerHeight := 0
	if o != nil {
		layerHeight = o.LayerHeight
	}
	log := o.logger()

	var e encoder
	if ww, ok := w.(writer); ok {
		e.w = ww
	} else {
		e.w = bufio.NewWriter(w)
	}
	e.layerHeight = layerHeight

	var wantH, wantW int
	if len(mains) > 0 {
		wantH, wantW = mains[0].Height(), mains[0].Width()
	}

	e.writeLine("%s", Header(layerHeight))

	for i, main := range mains {
		if main.Height() > X || main.Width() > Y {
			return &GeometryMismatchError{Index: i, Got: [2]int{main.Height(), main.Width()}, Expect: [2]int{X, Y}}
		}
		if main.Height() != wantH || main.Width() != wantW {
			return &GeometryMismatchError{Index: i, Got: [2]int{main.Height(), main.Width()}, Expect: [2]int{wantH, wantW}}
		}
		thumb := thumbs[i]
		if thumb.Height() > ThumbX || thumb.Width() > ThumbY {
			return &GeometryMismatchError{Index: i, Got: [2]int{thumb.Height(), thumb.Width()}, Expect: [2]int{ThumbX, ThumbY}}
		}

		layerNum := i + 1
		log.Debug().Int("layer", layerNum).Int("of", len(mains)).Msg("encoding layer")

		e.writeLine("%d", layerNum)
		e.writeTriplets(Centered(thumbs[i], ThumbX, ThumbY))
		e.writeLine(tokFB)
		e.writeTriplets(Centered(main, X, Y))
		e.writeLine(tokFC)
		e.layers++

		if e.err != nil {
			return &IOError{Op: "encode", Err: e.err}
		}
	}

	e.writeLine(tokFD)
	checksum := e.triplets + e.layers*2
	e.writeLine("%d|%d", e.layers, checksum)

	e.flush()
	if e.err != nil {
		return &IOError{Op: "encode", Err: e.err}
	}
	log.Info().Int("layers", e.layers).Int("triplets", e.triplets).Msg("encode complete")
	return nil
}
