package qdx_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galaxy1/qdx"
)

func qdxFile(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestDecode(t *testing.T) {
	t.Run("accepts a clean single-layer file", func(t *testing.T) {
		src := qdxFile(
			qdx.Header(50),
			"1",
			"FB",
			"0,1,1",
			"FC",
			"FD",
			"1|3",
		)
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50})
		require.NoError(t, err)
		assert.True(t, result.HeaderOK)
		assert.True(t, result.RecapOK)
		assert.Equal(t, 1, result.LayerCount)
		assert.Empty(t, result.Diagnostics)
	})

	t.Run("flags a header mismatch but keeps decoding", func(t *testing.T) {
		src := qdxFile(
			"JieHe,999,1,1,2,030,0,FA",
			"1",
			"FB",
			"FC",
			"FD",
			"1|2",
		)
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50})
		require.NoError(t, err)
		assert.False(t, result.HeaderOK)
		assert.Equal(t, 1, result.LayerCount)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, qdx.HeaderMismatch, result.Diagnostics[0].Kind)
	})

	t.Run("flags a layer sequence gap without aborting", func(t *testing.T) {
		src := qdxFile(
			qdx.Header(50),
			"1",
			"FB",
			"FC",
			"3",
			"FB",
			"FC",
			"FD",
			"2|4",
		)
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50})
		require.NoError(t, err)
		assert.Equal(t, 2, result.LayerCount)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, qdx.LayerSequenceGap, result.Diagnostics[0].Kind)
	})

	t.Run("flags a malformed triplet line and keeps the layer open", func(t *testing.T) {
		src := qdxFile(
			qdx.Header(50),
			"1",
			"FB",
			"not,a,triplet,line",
			"FC",
			"FD",
			"1|2",
		)
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50})
		require.NoError(t, err)
		assert.Equal(t, 1, result.LayerCount)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, qdx.MalformedTriplet, result.Diagnostics[0].Kind)
		assert.Equal(t, qdx.PlaneMain, result.Diagnostics[0].Plane)
	})

	t.Run("flags a truncated stream instead of failing", func(t *testing.T) {
		src := qdxFile(
			qdx.Header(50),
			"1",
			"FB",
		)
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50})
		require.NoError(t, err)
		require.NotEmpty(t, result.Diagnostics)
		assert.Equal(t, qdx.TruncatedStream, result.Diagnostics[len(result.Diagnostics)-1].Kind)
	})

	t.Run("flags a recap mismatch", func(t *testing.T) {
		src := qdxFile(
			qdx.Header(50),
			"1",
			"FB",
			"FC",
			"FD",
			"99|2",
		)
		result, err := qdx.Decode(context.Background(), strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50})
		require.NoError(t, err)
		assert.True(t, result.RecapOK)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, qdx.RecapMismatch, result.Diagnostics[0].Kind)
	})

	t.Run("rejects a start_layer greater than end_layer as a format error", func(t *testing.T) {
		_, err := qdx.Decode(context.Background(), strings.NewReader(""), &qdx.DecodeOptions{StartLayer: 5, EndLayer: 1})
		require.Error(t, err)
		var fe qdx.FormatError
		assert.ErrorAs(t, err, &fe)
	})

	t.Run("honors context cancellation as a fatal I/O error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		src := qdxFile(qdx.Header(50), "1", "FB", "FC", "FD", "1|2")
		_, err := qdx.Decode(ctx, strings.NewReader(src), &qdx.DecodeOptions{LayerHeight: 50})
		require.Error(t, err)
		var ioErr *qdx.IOError
		assert.ErrorAs(t, err, &ioErr)
	})
}
