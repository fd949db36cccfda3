package main

import (
	"fmt"
	"strconv"

	"github.com/ironsheep/cimage/internal/bridge"
	"github.com/ironsheep/cimage/internal/imaging"
	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <file> <x> <y>",
		Short: "Print the color of one pixel of the decoded buffer",
		Long: `sample decodes <file> and prints the pixel at column <x>. By default <y>
is a buffer row, where row 0 is the bottom of the image. With --source, <y>
counts from the top of the image as a viewer shows it.`,
		Args: cobra.ExactArgs(3),
		RunE: runSample,
	}
	cmd.Flags().Bool("source", false, "Treat <y> as a source row (0 = top)")
	return cmd
}

func newPaletteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette <file>",
		Short: "List the most common colors of the decoded buffer",
		Args:  cobra.ExactArgs(1),
		RunE:  runPalette,
	}
	cmd.Flags().Int("count", 5, "Number of colors to list")
	return cmd
}

// withHandle decodes path, runs fn on the issued handle and releases it.
// A refused release or a leaked block is reported even when fn succeeds.
func withHandle(path string, fn func(img *bridge.Image) error) error {
	b, tracker := newInspectBridge()
	img, err := b.Decode(path)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	err = fn(img)
	if rerr := releaseChecked(b, tracker, path, img); err == nil {
		err = rerr
	}
	return err
}

func runSample(cmd *cobra.Command, args []string) error {
	x, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[1], err)
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[2], err)
	}
	source, _ := cmd.Flags().GetBool("source")

	return withHandle(args[0], func(img *bridge.Image) error {
		sample := imaging.SampleColor
		if source {
			sample = imaging.SampleSourceColor
		}
		c, err := sample(img, x, y)
		if err != nil {
			return err
		}

		if done, err := printJSON(cmd, c); done || err != nil {
			return err
		}

		row := y
		if source {
			row = imaging.SourceRow(img, y)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Buffer:  (%d, %d)\n", x, row)
		fmt.Fprintf(out, "Source:  (%d, %d)\n", x, imaging.SourceRow(img, row))
		fmt.Fprintf(out, "Hex:     %s\n", c.Hex)
		fmt.Fprintf(out, "RGBA:    %d, %d, %d, %d\n", c.RGBA.R, c.RGBA.G, c.RGBA.B, c.RGBA.A)
		fmt.Fprintf(out, "HSL:     %d, %d%%, %d%%\n", c.HSL.H, c.HSL.S, c.HSL.L)
		return nil
	})
}

func runPalette(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")

	return withHandle(args[0], func(img *bridge.Image) error {
		result := imaging.DominantColors(img, count)

		if done, err := printJSON(cmd, result); done || err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range result.Colors {
			fmt.Fprintf(out, "%s  %5.1f%%\n", c.Hex, c.Percentage)
		}
		return nil
	})
}
