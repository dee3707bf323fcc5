package qdx_test

import (
	"bytes"
	"context"
	"fmt"

	"github.com/galaxy1/qdx"
)

// ExampleEncode demonstrates encoding a single all-white layer and decoding
// it back, mirroring example_custom_script.go's "three ways to call the
// top-level entry point" shape from the teacher repo.
func ExampleEncode() {
	main := qdx.NewGrayGrid(qdx.X, qdx.Y)
	for r := 0; r < qdx.X; r++ {
		for c := 0; c < qdx.Y; c++ {
			main.Set(r, c, qdx.On)
		}
	}
	thumb := qdx.NewGrayGrid(qdx.ThumbX, qdx.ThumbY)
	for r := 0; r < qdx.ThumbX; r++ {
		for c := 0; c < qdx.ThumbY; c++ {
			thumb.Set(r, c, qdx.On)
		}
	}

	var buf bytes.Buffer
	err := qdx.Encode(&buf, []qdx.ImageSource{main}, []qdx.ImageSource{thumb}, &qdx.EncodeOptions{LayerHeight: 50})
	if err != nil {
		fmt.Println("encode error:", err)
		return
	}

	// Every column of an all-one canvas is a single full-height run, which
	// the encoder suppresses (§4.2), so the stream carries no triplets; the
	// decoder still reports a compliant header and recap, one layer, and
	// zero diagnostics.
	result, err := qdx.Decode(context.Background(), bytes.NewReader(buf.Bytes()), &qdx.DecodeOptions{LayerHeight: 50})
	if err != nil {
		fmt.Println("decode error:", err)
		return
	}
	fmt.Println(result.HeaderOK, result.RecapOK, result.LayerCount, len(result.Diagnostics))
	// Output: true true 1 0
}

// ExampleDriver_Analyze demonstrates round-tripping through the Rasterizer
// for an all-zero image (§8 scenario S2): nothing is emitted on the wire,
// and decode reports a clean single layer.
func ExampleDriver_Analyze() {
	main := qdx.NewGrayGrid(qdx.X, qdx.Y)
	thumb := qdx.NewGrayGrid(qdx.ThumbX, qdx.ThumbY)

	var buf bytes.Buffer
	if err := qdx.Encode(&buf, []qdx.ImageSource{main}, []qdx.ImageSource{thumb}, &qdx.EncodeOptions{LayerHeight: 50}); err != nil {
		fmt.Println("encode error:", err)
		return
	}

	driver := qdx.NewDriver(qdx.DefaultLogger)
	result, err := driver.Analyze(context.Background(), bytes.NewReader(buf.Bytes()), &qdx.DecodeOptions{LayerHeight: 50})
	if err != nil {
		fmt.Println("analyze error:", err)
		return
	}
	fmt.Println(result.LayerCount, len(result.Diagnostics))
	// Output: 1 0
}
