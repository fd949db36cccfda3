package main

import (
	"fmt"

	"github.com/ironsheep/cimage/internal/codec"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show image metadata without decoding pixels",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := codec.Inspect(path)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}

	if done, err := printJSON(cmd, info); done || err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", path)
	fmt.Fprintf(out, "Format:      %s\n", info.Format)
	fmt.Fprintf(out, "Dimensions:  %d x %d\n", info.Width, info.Height)
	fmt.Fprintf(out, "Color depth: %s\n", info.ColorDepth)
	fmt.Fprintf(out, "Alpha:       %v\n", info.HasAlpha)
	fmt.Fprintf(out, "File size:   %d bytes (%.1f KB)\n", info.FileSizeBytes, float64(info.FileSizeBytes)/1024)
	return nil
}
