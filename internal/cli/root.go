// Package cli provides the command-line interface for threecolours.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/threecolours/internal/version"
)

// NewRootCmd builds the threecolours command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "threecolours",
		Short: "Pick foreground, middleground and background colours from an image",
		Long: `threecolours picks three colours from an image for use in a layout:
a background taken from the image border, a foreground that contrasts with it,
and a middleground for secondary elements.

Colours are grouped by perceptual similarity after the image is resized and
smoothed, so small details and noise do not dominate the result.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("trace", false, "enable trace output, including every convergence step")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// newLogger configures a logger from the global verbosity flags.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	trace, _ := cmd.Flags().GetBool("trace")

	switch {
	case trace:
		return hclog.New(&hclog.LoggerOptions{
			Name:   "threecolours",
			Output: cmd.ErrOrStderr(),
			Level:  hclog.Trace,
		})
	case verbose:
		return hclog.New(&hclog.LoggerOptions{
			Name:   "threecolours",
			Output: cmd.ErrOrStderr(),
			Level:  hclog.Debug,
		})
	default:
		return hclog.New(&hclog.LoggerOptions{
			Name:   "threecolours",
			Output: io.Discard,
			Level:  hclog.Off,
		})
	}
}
