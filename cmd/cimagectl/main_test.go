package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/cimage/internal/bridge"
)

// writeQuad writes the 2x2 image red, green over blue, yellow.
func writeQuad(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 0, 255})

	path := filepath.Join(t.TempDir(), "quad.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInfoCommand(t *testing.T) {
	path := writeQuad(t)

	out, err := execute(t, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Format:      png", "Dimensions:  2 x 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoCommandJSON(t *testing.T) {
	path := writeQuad(t)

	out, err := execute(t, "info", "--json", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	var got struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Width != 2 || got.Height != 2 || got.Format != "png" {
		t.Errorf("got %+v, want 2x2 png", got)
	}
}

func TestDecodeCommandReleasesEverything(t *testing.T) {
	path := writeQuad(t)

	out, err := execute(t, "decode", "--json", path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	var report decodeReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if report.Width != 2 || report.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", report.Width, report.Height)
	}
	if report.Pixels != 4 || report.Bytes != 16 {
		t.Errorf("pixels = %d, bytes = %d; want 4, 16", report.Pixels, report.Bytes)
	}
	if report.Issued.Outstanding != 2 {
		t.Errorf("issued blocks = %d, want 2 (record and pixels)", report.Issued.Outstanding)
	}
	if report.AfterRelease.Outstanding != 0 || report.AfterRelease.OutstandingBytes != 0 {
		t.Errorf("after release = %+v, want nothing outstanding", report.AfterRelease)
	}
}

func TestDecodeCommandMissingFile(t *testing.T) {
	_, err := execute(t, "decode", filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "decode failure") {
		t.Errorf("error %q does not name the failure kind", err)
	}
}

func TestReleaseChecked(t *testing.T) {
	path := writeQuad(t)

	t.Run("clean release", func(t *testing.T) {
		b, tracker := newInspectBridge()
		img, err := b.Decode(path)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if err := releaseChecked(b, tracker, path, img); err != nil {
			t.Errorf("releaseChecked: %v", err)
		}
	})

	t.Run("refused release", func(t *testing.T) {
		b, tracker := newInspectBridge()
		img, err := b.Decode(path)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if err := releaseChecked(b, tracker, path, img); err != nil {
			t.Fatalf("first release: %v", err)
		}

		err = releaseChecked(b, tracker, path, img)
		if !errors.Is(err, bridge.ErrCallerMisuse) {
			t.Errorf("second release: got %v, want caller misuse", err)
		}
		if tracker.Stats().Frees != 2 {
			t.Errorf("frees: got %d, want 2", tracker.Stats().Frees)
		}
	})

	t.Run("leaked block", func(t *testing.T) {
		b, tracker := newInspectBridge()
		kept, err := b.Decode(path)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		img, err := b.Decode(path)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		err = releaseChecked(b, tracker, path, img)
		if err == nil || !strings.Contains(err.Error(), "leaked 2 blocks") {
			t.Errorf("got %v, want a leak of 2 blocks", err)
		}
		if err := b.Release(kept); err != nil {
			t.Fatalf("cleanup release: %v", err)
		}
	})
}

func TestSampleCommand(t *testing.T) {
	path := writeQuad(t)

	tests := []struct {
		name string
		args []string
		hex  string
	}{
		{"buffer row 0 is bottom", []string{"sample", path, "0", "0"}, "#0000FF"},
		{"buffer row 1 is top", []string{"sample", path, "1", "1"}, "#00FF00"},
		{"source row 0 is top", []string{"sample", "--source", path, "0", "0"}, "#FF0000"},
		{"source row 1 is bottom", []string{"sample", "--source", path, "1", "1"}, "#FFFF00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("sample failed: %v", err)
			}
			if !strings.Contains(out, "Hex:     "+tt.hex) {
				t.Errorf("output missing hex %s:\n%s", tt.hex, out)
			}
		})
	}
}

func TestSampleCommandErrors(t *testing.T) {
	path := writeQuad(t)

	tests := []struct {
		name string
		args []string
	}{
		{"out of bounds", []string{"sample", path, "2", "0"}},
		{"source row past bottom", []string{"sample", "--source", path, "0", "2"}},
		{"bad x", []string{"sample", path, "x", "0"}},
		{"missing args", []string{"sample", path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPaletteCommand(t *testing.T) {
	path := writeQuad(t)

	out, err := execute(t, "palette", "--count", "2", path)
	if err != nil {
		t.Fatalf("palette failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	for _, line := range lines {
		if !strings.Contains(line, "25.0%") {
			t.Errorf("line %q: want 25.0%%", line)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "cimagectl "+Version) {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if strings.TrimSpace(out) != "cimagectl "+Version {
		t.Errorf("--version output = %q", out)
	}
}
