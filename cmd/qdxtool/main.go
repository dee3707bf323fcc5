// Command qdxtool encodes PNG folders into QDX layer files and analyzes
// existing QDX files for structural and geometric defects.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/galaxy1/qdx"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// newRootCmd wires the three-tier precedence described in §12: CLI flags
// beat the --config file, which beats the zero-value defaults below.
func newRootCmd() *cobra.Command {
	var logFormat string
	var logFile string
	var configPath string
	var layerHeight int

	root := &cobra.Command{
		Use:           "qdxtool",
		Short:         "Encode and analyze QDX layer files for the Galaxy 1 printer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return nil
			}
			cfg, err := qdx.LoadConfig(configPath)
			if err != nil {
				return usageError{fmt.Errorf("loading --config: %w", err)}
			}
			flags := cmd.Flags()
			if !flags.Changed("log-format") && cfg.LogFormat != "" {
				logFormat = cfg.LogFormat
			}
			if !flags.Changed("log-file") && cfg.LogFile != "" {
				logFile = cfg.LogFile
			}
			if !flags.Changed("layer-height") && cfg.LayerHeight != 0 {
				layerHeight = cfg.LayerHeight
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log output format: console or json")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "rotate logs to this file instead of stderr")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a qdx.yaml config file supplying defaults")
	root.PersistentFlags().IntVar(&layerHeight, "layer-height", 0, "printer layer height; overrides --config's layer_height")

	root.AddCommand(newEncodeCmd(&logFormat, &logFile, &layerHeight))
	root.AddCommand(newAnalyzeCmd(&logFormat, &logFile))
	return root
}

// exitCodeFor maps an error to the §6 exit code contract: 0 success,
// 1 usage error, 2 I/O error, 3 structural error with diagnostics produced.
func exitCodeFor(err error) int {
	switch err.(type) {
	case usageError:
		return 1
	case ioExitError:
		return 2
	case structuralExitError:
		return 3
	default:
		return 1
	}
}

type usageError struct{ error }
type ioExitError struct{ error }
type structuralExitError struct{ error }
