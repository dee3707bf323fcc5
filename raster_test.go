package qdx_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galaxy1/qdx"
)

func TestRasterizerMirrorRule(t *testing.T) {
	t.Run("odd layers render the row directly", func(t *testing.T) {
		src := strings.Join([]string{
			qdx.Header(50),
			"1",
			"FB",
			"5,1,1",
			"FC",
			"FD",
			"1|3",
		}, "\n") + "\n"

		z := qdx.NewRasterizer()
		_, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50}, z)
		require.NoError(t, err)

		assert.Equal(t, qdx.On, z.Main.PixelAt(0, 5))
	})

	t.Run("even layers mirror across the long axis", func(t *testing.T) {
		src := strings.Join([]string{
			qdx.Header(50),
			"2",
			"FB",
			"100,1,1",
			"FC",
			"FD",
			"1|3",
		}, "\n") + "\n"

		z := qdx.NewRasterizer()
		_, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50}, z)
		require.NoError(t, err)

		assert.Equal(t, qdx.On, z.Main.PixelAt(0, qdx.Y-100))
		assert.Equal(t, qdx.Off, z.Main.PixelAt(0, 100))
	})

	t.Run("a mirrored column landing one past the axis clips instead of wrapping", func(t *testing.T) {
		// Row 0 on an even layer mirrors to extentY, one past the valid
		// [0, extentY) range; the original clips such draws, so nothing
		// should be written anywhere on the canvas.
		src := strings.Join([]string{
			qdx.Header(50),
			"2",
			"FB",
			"0,1,1",
			"FC",
			"FD",
			"1|3",
		}, "\n") + "\n"

		z := qdx.NewRasterizer()
		_, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50}, z)
		require.NoError(t, err)

		assert.Equal(t, qdx.Off, z.Main.PixelAt(0, qdx.Y-1))
		assert.Equal(t, qdx.Off, z.Main.PixelAt(1, 0))
	})
}

func TestRasterizerOverflowRow(t *testing.T) {
	t.Run("flags OverflowRow and clamps to the canvas extent when accumulated segments overflow", func(t *testing.T) {
		src := strings.Join([]string{
			qdx.Header(50),
			"1",
			"FB",
			fmt.Sprintf("0,%d,1", qdx.X-10),
			fmt.Sprintf("0,%d,1", 20),
			"FC",
			"FD",
			"1|4",
		}, "\n") + "\n"

		z := qdx.NewRasterizer()
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50}, z)
		require.NoError(t, err)

		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, qdx.OverflowRow, result.Diagnostics[0].Kind)
		assert.Equal(t, qdx.On, z.Main.PixelAt(qdx.X-1, 0))
	})

	t.Run("flags OverflowRow and fully draws the column for a single over-length triplet", func(t *testing.T) {
		// S3: a single triplet whose own length already exceeds X is an
		// OverflowRow, not a MalformedTriplet — the column must still be
		// drawn in full up to the canvas extent.
		src := strings.Join([]string{
			qdx.Header(50),
			"1",
			"FB",
			fmt.Sprintf("0,%d,1", qdx.X+1000),
			"FC",
			"FD",
			"1|3",
		}, "\n") + "\n"

		z := qdx.NewRasterizer()
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50}, z)
		require.NoError(t, err)

		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, qdx.OverflowRow, result.Diagnostics[0].Kind)
		assert.Equal(t, qdx.On, z.Main.PixelAt(0, 0))
		assert.Equal(t, qdx.On, z.Main.PixelAt(qdx.X-1, 0))
	})
}

func TestRasterizerShortRow(t *testing.T) {
	t.Run("flags ShortRow when a row changes before covering the full extent", func(t *testing.T) {
		src := strings.Join([]string{
			qdx.Header(50),
			"1",
			"FB",
			"0,5,1",
			"1,5,1",
			"FC",
			"FD",
			"1|4",
		}, "\n") + "\n"

		z := qdx.NewRasterizer()
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50}, z)
		require.NoError(t, err)

		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, qdx.ShortRow, result.Diagnostics[0].Kind)
		assert.Equal(t, 0, result.Diagnostics[0].Row)
	})
}
