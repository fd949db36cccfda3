package main

import (
	"fmt"
	"log"

	"github.com/ironsheep/cimage/internal/bridge"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode through the boundary, release, and report allocations",
		Long: `decode issues a handle exactly as cimage_image_decode would, prints the
handle fields and the C heap blocks it owns, releases it, and checks that
every block came back.`,
		Args: cobra.ExactArgs(1),
		RunE: runDecode,
	}
}

// decodeReport is what the decode command prints.
type decodeReport struct {
	Path         string            `json:"path"`
	Width        uint32            `json:"width"`
	Height       uint32            `json:"height"`
	Pixels       int               `json:"pixels"`
	Bytes        int               `json:"bytes"`
	Issued       bridge.AllocStats `json:"issued"`
	AfterRelease bridge.AllocStats `json:"after_release"`
}

// newInspectBridge returns a debug-mode bridge over a tracked C heap.
func newInspectBridge() (*bridge.Bridge, *bridge.TrackingAllocator) {
	tracker := bridge.NewTrackingAllocator(bridge.CAllocator{})
	opts := bridge.Options{Allocator: tracker, Debug: true}
	if debugLogging() {
		opts.Logger = log.Default()
	}
	return bridge.New(opts), tracker
}

// releaseChecked releases img and fails if the bridge refused it or if any
// block is still outstanding afterwards.
func releaseChecked(b *bridge.Bridge, tracker *bridge.TrackingAllocator, path string, img *bridge.Image) error {
	if err := b.Release(img); err != nil {
		return fmt.Errorf("releasing %s: %w", path, err)
	}
	if n := tracker.Outstanding(); n != 0 {
		return fmt.Errorf("release of %s leaked %d blocks", path, n)
	}
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	path := args[0]
	b, tracker := newInspectBridge()

	img, err := b.Decode(path)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	report := decodeReport{
		Path:   path,
		Width:  img.Width,
		Height: img.Height,
		Pixels: img.Len(),
		Bytes:  len(img.Bytes()),
		Issued: tracker.Stats(),
	}

	if err := releaseChecked(b, tracker, path, img); err != nil {
		return err
	}
	report.AfterRelease = tracker.Stats()

	if done, err := printJSON(cmd, report); done || err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", report.Path)
	fmt.Fprintf(out, "Dimensions:  %d x %d\n", report.Width, report.Height)
	fmt.Fprintf(out, "Pixels:      %d (%d bytes RGBA, bottom row first)\n", report.Pixels, report.Bytes)
	fmt.Fprintf(out, "Issued:      %d blocks, %d bytes\n", report.Issued.Outstanding, report.Issued.OutstandingBytes)
	fmt.Fprintf(out, "Released:    %d blocks outstanding\n", report.AfterRelease.Outstanding)
	return nil
}
