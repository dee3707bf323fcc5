package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/galaxy1/qdx"
	"github.com/galaxy1/qdx/internal/pngsrc"
)

func newEncodeCmd(logFormat, logFile *string, defaultLayerHeight *int) *cobra.Command {
	var check bool
	var workers int

	cmd := &cobra.Command{
		Use:   "encode [layer_height] <png_folder>",
		Short: "Encode a folder of equal-sized PNG files into a QDX stream",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layerHeight := *defaultLayerHeight
			folderArg := args[0]
			if len(args) == 2 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return usageError{fmt.Errorf("layer_height must be an integer: %w", err)}
				}
				layerHeight = n
				folderArg = args[1]
			}
			if layerHeight == 0 {
				return usageError{fmt.Errorf("layer_height must be set via argument, --layer-height, or --config")}
			}
			logger := buildLogger(*logFormat, *logFile)

			folder, err := pngsrc.OpenFolder(folderArg)
			if err != nil {
				return ioExitError{err}
			}

			out, err := os.Create("qdx.qdx")
			if err != nil {
				return ioExitError{err}
			}
			defer out.Close()

			driver := qdx.NewDriver(logger)
			opts := &qdx.EncodeOptions{LayerHeight: layerHeight}

			if workers > 1 {
				err = driver.BatchEncodeFiles(cmd.Context(), out, folder, opts, workers)
			} else {
				err = driver.EncodeFiles(out, folder, opts)
			}
			if err != nil {
				return ioExitError{err}
			}

			if check {
				return verifyRoundTrip(cmd.Context(), "qdx.qdx", layerHeight, logger)
			}
			color.Green("encoded %d layers to qdx.qdx", folder.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "re-analyze the freshly written file and report diagnostics")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel encode workers (output order is unaffected)")
	return cmd
}

func verifyRoundTrip(ctx context.Context, path string, layerHeight int, logger zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return ioExitError{err}
	}
	defer f.Close()

	driver := qdx.NewDriver(logger)
	result, err := driver.Analyze(ctx, f, &qdx.DecodeOptions{LayerHeight: layerHeight})
	if err != nil {
		return ioExitError{err}
	}
	if len(result.Diagnostics) > 0 {
		for _, line := range qdx.ErrorLog(result.Diagnostics) {
			color.Yellow("%s", line)
		}
		return structuralExitError{fmt.Errorf("%d diagnostics found during --check", len(result.Diagnostics))}
	}
	color.Green("--check: no diagnostics")
	return nil
}
