package qdx

// EventSink receives the typed events the decoder emits while streaming
// through a QDX file (§6, §9). Triplets are passed by value, one
// ThumbTriplet/MainTriplet call per triplet line.
type EventSink interface {
	Header(line string, ok bool)
	LayerBegin(n int)
	ThumbTriplet(n int, t Triplet)
	MainTriplet(n int, t Triplet)
	LayerEnd(n int)
	Recap(total int, opaque int64, ok bool)
	Diagnostic(d Diagnostic)
}

// discardSink implements EventSink by doing nothing; used when a caller only
// wants the DecodeResult summary and not a live event feed.
type discardSink struct{}

func (discardSink) Header(string, bool)          {}
func (discardSink) LayerBegin(int)               {}
func (discardSink) ThumbTriplet(int, Triplet)    {}
func (discardSink) MainTriplet(int, Triplet)     {}
func (discardSink) LayerEnd(int)                 {}
func (discardSink) Recap(int, int64, bool)       {}
func (discardSink) Diagnostic(Diagnostic)        {}

// multiSink fans an event out to several sinks, e.g. the rasterizer plus a
// caller-supplied observer.
type multiSink []EventSink

func (m multiSink) Header(line string, ok bool) {
	for _, s := range m {
		s.Header(line, ok)
	}
}
func (m multiSink) LayerBegin(n int) {
	for _, s := range m {
		s.LayerBegin(n)
	}
}
func (m multiSink) ThumbTriplet(n int, t Triplet) {
	for _, s := range m {
		s.ThumbTriplet(n, t)
	}
}
func (m multiSink) MainTriplet(n int, t Triplet) {
	for _, s := range m {
		s.MainTriplet(n, t)
	}
}
func (m multiSink) LayerEnd(n int) {
	for _, s := range m {
		s.LayerEnd(n)
	}
}
func (m multiSink) Recap(total int, opaque int64, ok bool) {
	for _, s := range m {
		s.Recap(total, opaque, ok)
	}
}
func (m multiSink) Diagnostic(d Diagnostic) {
	for _, s := range m {
		s.Diagnostic(d)
	}
}

// rangeSink forwards events to inner only for layers within [start, end]
// (end == 0 means unbounded), per the CLI's <end_layer>/<start_layer>
// arguments (§6). Diagnostics and the recap are always forwarded: I5
// validates against every observed layer, not just the visible window.
type rangeSink struct {
	inner      EventSink
	start, end int
}

func (r *rangeSink) inRange(n int) bool {
	return n >= r.start && (r.end == 0 || n <= r.end)
}

func (r *rangeSink) Header(line string, ok bool) { r.inner.Header(line, ok) }
func (r *rangeSink) LayerBegin(n int) {
	if r.inRange(n) {
		r.inner.LayerBegin(n)
	}
}
func (r *rangeSink) ThumbTriplet(n int, t Triplet) {
	if r.inRange(n) {
		r.inner.ThumbTriplet(n, t)
	}
}
func (r *rangeSink) MainTriplet(n int, t Triplet) {
	if r.inRange(n) {
		r.inner.MainTriplet(n, t)
	}
}
func (r *rangeSink) LayerEnd(n int) {
	if r.inRange(n) {
		r.inner.LayerEnd(n)
	}
}
func (r *rangeSink) Recap(total int, opaque int64, ok bool) { r.inner.Recap(total, opaque, ok) }
func (r *rangeSink) Diagnostic(d Diagnostic)                { r.inner.Diagnostic(d) }
