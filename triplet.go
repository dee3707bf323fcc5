package qdx

import "fmt"

// Value is a single pixel/segment value: 0 (off) or 1 (laser on).
type Value uint8

const (
	Off Value = 0
	On  Value = 1
)

// Triplet is one RLE segment record (row, length, value) as described in
// §3 of the format: row is the column index on the long axis Y, length is
// the run length along the short axis X.
type Triplet struct {
	Row    int
	Length int
	Value  Value
}

// String renders a triplet in its on-the-wire CSV form.
func (t Triplet) String() string {
	return fmt.Sprintf("%d,%d,%d", t.Row, t.Length, t.Value)
}
