// Package qdx implements the QDX layer file codec for the Galaxy 1 class of
// LCD/laser printers: an RLE column encoder, a streaming line-driven decoder,
// and a rasterizer that reconstructs per-layer images from decoded segments.
package qdx

import "fmt"

// Canvas geometry for the Galaxy 1 profile. QDX does not encode these values
// generically: they are fixed by the printer hardware and only appear in the
// header line for cross-checking.
const (
	X = 4000 // vertical extent, short axis of the canvas
	Y = 8000 // horizontal extent, long axis of the canvas

	ThumbX = X / 10
	ThumbY = Y / 10
)

// Separator tokens framing a layer and terminating the file.
const (
	tokFB = "FB"
	tokFC = "FC"
	tokFD = "FD"
)

// headerTail is the opaque trailing portion of the header line. It is never
// interpreted, only compared verbatim on decode.
const headerTail = "2,030,0,FA"

// Header formats the expected header line for the given layer height.
func Header(layerHeight int) string {
	return fmt.Sprintf("JieHe,%d,%d,%d,%s", layerHeight, X, Y, headerTail)
}

// HeaderMatches reports whether line is the expected header for layerHeight.
func HeaderMatches(line string, layerHeight int) bool {
	return line == Header(layerHeight)
}
