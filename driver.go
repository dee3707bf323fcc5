package qdx

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Driver composes the encoder and decoder ends of the codec (§4.5). It is
// the thing a CLI or test holds: a logger. Analyze paints each decode into a
// fresh Rasterizer.
type Driver struct {
	Logger zerolog.Logger
}

// NewDriver returns a Driver logging through the given logger (zerolog.Nop()
// if the zero value is passed).
func NewDriver(logger zerolog.Logger) *Driver {
	return &Driver{Logger: logger}
}

// LayerSource supplies one layer's pair of already-prepared (main, thumb)
// ImageSources, e.g. backed by a folder of PNGs (internal/pngsrc) or an
// in-memory fixture in a test.
type LayerSource interface {
	Len() int
	Layer(i int) (main, thumb ImageSource, err error)
}

// EncodeFiles drives a full encode of every layer in src to w, sequentially,
// per §5's baseline single-threaded model.
func (d *Driver) EncodeFiles(w io.Writer, src LayerSource, o *EncodeOptions) error {
	mains := make([]ImageSource, src.Len())
	thumbs := make([]ImageSource, src.Len())
	for i := 0; i < src.Len(); i++ {
		m, t, err := src.Layer(i)
		if err != nil {
			return &IOError{Op: fmt.Sprintf("read layer %d", i+1), Err: err}
		}
		mains[i] = m
		thumbs[i] = t
	}
	var opts EncodeOptions
	if o != nil {
		opts = *o
	}
	opts.Logger = d.Logger
	return Encode(w, mains, thumbs, &opts)
}

// BatchEncodeFiles implements §5's optional batch parallelism: each layer's
// RLE column scan runs on a bounded worker pool, but output lines are
// gathered and written in strict layer order, so the result is byte-
// identical to EncodeFiles run on the same images. workers <= 0 means
// runtime.NumCPU semantics are left to the caller; here it is just clamped
// to at least 1.
func (d *Driver) BatchEncodeFiles(ctx context.Context, w io.Writer, src LayerSource, o *EncodeOptions, workers int) error {
	if workers < 1 {
		workers = 1
	}
	n := src.Len()
	chunks := make([][]byte, n)

	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < n; i++ {
		i := i
		if err := sem.Acquire(gctx, 1); err != nil {
			return &IOError{Op: "batch encode", Err: err}
		}
		g.Go(func() error {
			defer sem.Release(1)
			main, thumb, err := src.Layer(i)
			if err != nil {
				return &IOError{Op: fmt.Sprintf("read layer %d", i+1), Err: err}
			}
			var buf bytes.Buffer
			var e encoder
			e.w = nopFlusher{&buf}
			e.writeLine("%d", i+1)
			e.writeTriplets(Centered(thumb, ThumbX, ThumbY))
			e.writeLine(tokFB)
			e.writeTriplets(Centered(main, X, Y))
			e.writeLine(tokFC)
			if e.err != nil {
				return &IOError{Op: "batch encode", Err: e.err}
			}
			chunks[i] = buf.Bytes()
			d.Logger.Debug().Int("layer", i+1).Msg("batch-encoded layer")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	layerHeight := 0
	if o != nil {
		layerHeight = o.LayerHeight
	}
	var bw io.Writer = w
	if _, err := fmt.Fprintf(bw, "%s\n", Header(layerHeight)); err != nil {
		return &IOError{Op: "batch encode", Err: err}
	}
	triplets, layers := 0, 0
	for _, c := range chunks {
		if _, err := bw.Write(c); err != nil {
			return &IOError{Op: "batch encode", Err: err}
		}
		layers++
		triplets += countLines(c) - 3 // minus the layer-number, FB, and FC lines
	}
	if _, err := fmt.Fprintf(bw, "%s\n%d|%d\n", tokFD, layers, triplets+layers*2); err != nil {
		return &IOError{Op: "batch encode", Err: err}
	}
	d.Logger.Info().Int("layers", layers).Msg("batch encode complete")
	return nil
}

// nopFlusher adapts a plain io.Writer (here, a *bytes.Buffer) to the
// writer interface the encoder type expects.
type nopFlusher struct{ io.Writer }

func (nopFlusher) Flush() error { return nil }

func countLines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}

// AnalyzeResult bundles the decode summary with the rasterized last layer's
// canvases, mirroring what the CLI's `analyze` subcommand reports.
type AnalyzeResult struct {
	*DecodeResult
	Rasterizer *Rasterizer
}

// Analyze drives a full decode of r, feeding every event into a fresh
// Rasterizer in addition to the internal diagnostic collector, per §4.5
// "On decode: feeds events to the rasterizer, accumulates diagnostics".
func (d *Driver) Analyze(ctx context.Context, r io.Reader, o *DecodeOptions) (*AnalyzeResult, error) {
	var opts DecodeOptions
	if o != nil {
		opts = *o
	}
	opts.Logger = d.Logger
	z := NewRasterizer()
	result, err := Decode(ctx, r, &opts, z)
	if err != nil {
		return &AnalyzeResult{DecodeResult: result, Rasterizer: z}, err
	}
	return &AnalyzeResult{DecodeResult: result, Rasterizer: z}, nil
}

// ErrorLog renders every diagnostic as the §6 "Error log format" line:
// "Error in layer {n}: {kind} at row {r}: {detail}".
func ErrorLog(diags []Diagnostic) []string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.Error()
	}
	return lines
}
