package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cimagectl",
		Short: "Inspect images through the cimage decode/release boundary",
		Long: `cimagectl drives the same decode and release path as the libcimage
shared library, from Go, and reports what the boundary hands out.

Environment variables:
  CIMAGE_LOG_LEVEL=debug    Log every issued and released handle to stderr`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("cimagectl {{.Version}}\n")
	root.PersistentFlags().Bool("json", false, "Print results as JSON")

	root.AddCommand(
		newInfoCmd(),
		newDecodeCmd(),
		newSampleCmd(),
		newPaletteCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cimagectl %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

// debugLogging reports whether CIMAGE_LOG_LEVEL asks for handle tracing.
func debugLogging() bool {
	return os.Getenv("CIMAGE_LOG_LEVEL") == "debug"
}

// printJSON writes v as indented JSON when --json is set and reports whether
// it did.
func printJSON(cmd *cobra.Command, v interface{}) (bool, error) {
	asJSON, _ := cmd.Flags().GetBool("json")
	if !asJSON {
		return false, nil
	}
	return true, writeJSON(cmd.OutOrStdout(), v)
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func main() {
	// Logs go to stderr so stdout stays machine-readable with --json
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if debugLogging() {
		log.Printf("cimagectl v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
