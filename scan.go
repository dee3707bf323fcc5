package qdx

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// decodeState is the explicit state enum §9 asks for, replacing the source
// scripts' cyclic coupling between the per-line loop and ad hoc flags
// (in_layer, current_layer, error_flag) with a fold over (state, line).
type decodeState int

const (
	stStart decodeState = iota
	stAwaitLayer
	stInThumb
	stInMain
	stRecap
	stEnd
)

// decoder holds the streaming state for one QDX file, mirroring the
// teacher's scan.go decoder: a single reusable scratch buffer (here, the
// per-layer triplet slices) rather than re-allocating per line.
type decoder struct {
	state       decodeState
	layerHeight int
	expectLayer int // next layer number expected by I1
	curLayer    int
	layersSeen  int // count of completed layers, independent of numbering gaps

	thumb []Triplet
	main  []Triplet

	sink EventSink
	log  zerolog.Logger
}

// FormatError reports decode options that cannot be honored (a StartLayer
// greater than a non-zero EndLayer); Decode returns it before reading any
// input. Unlike a Diagnostic, which is always non-fatal per §7, it aborts
// the decode. Named after the teacher's scan.go FormatError, kept as a
// distinct type from Diagnostic/IOError.
type FormatError string

func (e FormatError) Error() string { return "qdx: format error: " + string(e) }

// DecodeOptions configures Decode.
type DecodeOptions struct {
	LayerHeight int // expected LH for header validation; 0 accepts any LH
	StartLayer  int // layers before StartLayer are parsed but not rasterized
	EndLayer    int // 0 means no limit
	Logger      zerolog.Logger
}

func (o *DecodeOptions) logger() zerolog.Logger {
	if o == nil {
		return DefaultLogger
	}
	return o.Logger
}

// DecodeResult is the summary §4.5 asks the driver to produce:
// (header_ok, per_layer_diagnostics, recap_ok), plus the observed layer count.
// The rasterized canvases stay on the Rasterizer passed to Decode.
type DecodeResult struct {
	HeaderOK    bool
	RecapOK     bool
	LayerCount  int
	Diagnostics []Diagnostic
}

// diagCollector is an EventSink that only gathers diagnostics, used by
// Decode to build DecodeResult regardless of what other sink the caller
// wants events fanned to.
type diagCollector struct {
	discardSink
	diags    []Diagnostic
	headerOK bool
	recapOK  bool
	layers   int
}

func (c *diagCollector) Header(_ string, ok bool)      { c.headerOK = ok }
func (c *diagCollector) LayerEnd(int)                  { c.layers++ }
func (c *diagCollector) Recap(_ int, _ int64, ok bool)  { c.recapOK = ok }
func (c *diagCollector) Diagnostic(d Diagnostic)        { c.diags = append(c.diags, d) }

// Decode streams r line by line through the §4.3 state machine, optionally
// fanning parsed events to extraSinks (e.g. a Rasterizer), and returns the
// aggregate DecodeResult; when extraSinks includes a Rasterizer, the result's
// diagnostics also hold the ones it raised while painting. Decode never
// aborts on content errors (§7); it returns a non-nil error only for a
// StartLayer greater than EndLayer (FormatError), a failure reading r, or a
// cancelled ctx (both *IOError).
func Decode(ctx context.Context, r io.Reader, o *DecodeOptions, extraSinks ...EventSink) (*DecodeResult, error) {
	if o != nil && o.EndLayer != 0 && o.StartLayer > o.EndLayer {
		return nil, FormatError("start_layer must not exceed end_layer")
	}

	collector := &diagCollector{}
	sinks := make(multiSink, 0, len(extraSinks)+1)
	sinks = append(sinks, collector)
	if len(extraSinks) > 0 {
		start, end := 0, 0
		if o != nil {
			start, end = o.StartLayer, o.EndLayer
		}
		sinks = append(sinks, &rangeSink{inner: multiSink(extraSinks), start: start, end: end})
	}

	// A Rasterizer raises OverflowRow/ShortRow diagnostics of its own and is
	// also forwarded every decoder diagnostic, so the part of its log written
	// during this Decode is the complete diagnostic list, in event order.
	var raster *Rasterizer
	rasterBase := 0
	for _, s := range extraSinks {
		if z, ok := s.(*Rasterizer); ok {
			raster, rasterBase = z, len(z.diags)
			break
		}
	}

	d := &decoder{
		state: stStart,
		sink:  sinks,
		log:   o.logger(),
	}
	if o != nil {
		d.layerHeight = o.LayerHeight
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lastLine string
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return buildResult(collector), &IOError{Op: "decode", Err: ctx.Err()}
		default:
		}
		line := strings.TrimRight(sc.Text(), "\r")
		lastLine = line
		d.step(line)
	}
	if err := sc.Err(); err != nil {
		return buildResult(collector), &IOError{Op: "decode", Err: err}
	}

	if d.state != stEnd {
		// EOF before FD (or before the recap line after FD): §7 TruncatedStream.
		d.emitTruncated(lastLine)
	}

	if raster != nil {
		collector.diags = append([]Diagnostic(nil), raster.diags[rasterBase:]...)
	}
	result := buildResult(collector)
	d.log.Info().
		Int("layers", result.LayerCount).
		Int("diagnostics", len(result.Diagnostics)).
		Bool("header_ok", result.HeaderOK).
		Bool("recap_ok", result.RecapOK).
		Msg("decode complete")
	return result, nil
}

func buildResult(c *diagCollector) *DecodeResult {
	return &DecodeResult{
		HeaderOK:    c.headerOK,
		RecapOK:     c.recapOK,
		LayerCount:  c.layers,
		Diagnostics: c.diags,
	}
}

func (d *decoder) emitTruncated(lastLine string) {
	d.sink.Diagnostic(Diagnostic{
		Kind:   TruncatedStream,
		Layer:  d.curLayer,
		Row:    -1,
		Detail: "stream ended before FD/recap, last line: " + lastLine,
	})
}

// step folds one logical line into the state machine, per the §4.3
// transition table.
func (d *decoder) step(line string) {
	switch d.state {
	case stStart:
		ok := HeaderMatches(line, d.layerHeight)
		if d.layerHeight == 0 {
			ok = strings.HasPrefix(line, "JieHe,") && strings.HasSuffix(line, headerTail)
		}
		d.sink.Header(line, ok)
		if !ok {
			d.sink.Diagnostic(Diagnostic{Kind: HeaderMismatch, Layer: 0, Row: -1, Detail: "found: " + line})
		}
		d.state = stAwaitLayer
		d.expectLayer = 1

	case stAwaitLayer:
		if line == tokFD {
			d.state = stRecap
			return
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			// Anything else: ignore (resync), per the transition table.
			return
		}
		if n != d.expectLayer {
			d.sink.Diagnostic(Diagnostic{
				Kind:   LayerSequenceGap,
				Layer:  n,
				Row:    -1,
				Detail: "expected " + strconv.Itoa(d.expectLayer),
			})
		}
		d.curLayer = n
		d.expectLayer = n + 1
		d.thumb = d.thumb[:0]
		d.main = d.main[:0]
		d.sink.LayerBegin(n)
		d.state = stInThumb

	case stInThumb:
		if line == tokFB {
			d.state = stInMain
			return
		}
		if t, ok := parseTriplet(line); ok {
			d.thumb = append(d.thumb, t)
			d.sink.ThumbTriplet(d.curLayer, t)
		} else {
			d.sink.Diagnostic(Diagnostic{Kind: MalformedTriplet, Layer: d.curLayer, Plane: PlaneThumb, Row: -1, Detail: line})
		}

	case stInMain:
		if line == tokFC {
			d.layersSeen++
			d.sink.LayerEnd(d.curLayer)
			d.state = stAwaitLayer
			return
		}
		if t, ok := parseTriplet(line); ok {
			d.main = append(d.main, t)
			d.sink.MainTriplet(d.curLayer, t)
		} else {
			d.sink.Diagnostic(Diagnostic{Kind: MalformedTriplet, Layer: d.curLayer, Plane: PlaneMain, Row: -1, Detail: line})
		}

	case stRecap:
		total, opaque, ok := parseRecap(line)
		d.sink.Recap(total, opaque, ok)
		if ok && total != d.layerCountSoFar() {
			d.sink.Diagnostic(Diagnostic{
				Kind:   RecapMismatch,
				Layer:  d.curLayer,
				Row:    -1,
				Detail: "recap says " + strconv.Itoa(total),
			})
		}
		d.state = stEnd

	case stEnd:
		// Trailing blank lines after the recap are ignored.
	}
}

// layerCountSoFar reports how many layers have fully closed (reached FC) by
// the time the recap line is parsed, used to validate I5. It counts closed
// layers, not the highest layer number seen, so a LayerSequenceGap does not
// also spuriously trigger a RecapMismatch.
func (d *decoder) layerCountSoFar() int {
	return d.layersSeen
}

// parseTriplet splits a line on ',' and requires exactly three integer
// fields (§4.3 "Triplet parsing").
func parseTriplet(line string) (Triplet, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return Triplet{}, false
	}
	row, err1 := strconv.Atoi(parts[0])
	length, err2 := strconv.Atoi(parts[1])
	val, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Triplet{}, false
	}
	if val != 0 && val != 1 {
		return Triplet{}, false
	}
	return Triplet{Row: row, Length: length, Value: Value(val)}, true
}

// parseRecap splits the footer line on '|': total_layers|opaque_integer.
func parseRecap(line string) (total int, opaque int64, ok bool) {
	parts := strings.SplitN(line, "|", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	t, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	o, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		// §9 Open Question: the opaque field's semantics are unknown and
		// decoders MUST NOT fail on any value, so a non-numeric opaque field
		// still yields a compliant recap as far as I5 is concerned.
		return t, 0, true
	}
	return t, o, true
}
