package imaging

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ironsheep/cimage/internal/bridge"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component is straight (not premultiplied):
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor reads the pixel at column x of buffer row `row` of a decoded
// handle.
//
// Buffer coordinates follow the handle's memory layout: row 0 is the bottom
// row of the source image. Use SampleSourceColor to address pixels the way
// an image viewer shows them.
//
// Returns an error if (x, row) is outside the buffer.
func SampleColor(img *bridge.Image, x, row int) (*ColorResult, error) {
	if x < 0 || x >= int(img.Width) || row < 0 || row >= int(img.Height) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside %dx%d buffer", x, row, img.Width, img.Height)
	}
	return describe(img.At(x, row)), nil
}

// SampleSourceColor reads the pixel at (x, y) in source coordinates, where
// y = 0 is the top row of the file. It maps y through the decode-time flip.
func SampleSourceColor(img *bridge.Image, x, y int) (*ColorResult, error) {
	if y < 0 || y >= int(img.Height) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside %dx%d image", x, y, img.Width, img.Height)
	}
	return SampleColor(img, x, SourceRow(img, y))
}

// SourceRow converts a source row index (0 = top of the file) into the
// buffer row that holds it.
func SourceRow(img *bridge.Image, y int) int {
	return int(img.Height) - 1 - y
}

func describe(p bridge.Pixel) *ColorResult {
	c := colorful.Color{
		R: float64(p.R) / 255.0,
		G: float64(p.G) / 255.0,
		B: float64(p.B) / 255.0,
	}
	h, s, l := c.Hsl()

	return &ColorResult{
		Hex:  strings.ToUpper(c.Hex()),
		RGB:  RGBColor{R: p.R, G: p.G, B: p.B},
		RGBA: RGBAColor{R: p.R, G: p.G, B: p.B, A: p.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// LabeledPoint represents a buffer coordinate with an optional descriptive
// label.
type LabeledPoint struct {
	X     int    // Column (0-based)
	Y     int    // Row (0-based); buffer or source row depending on the call
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"` // Optional label (empty if not provided)
	X     int         `json:"x"`               // Column that was sampled
	Y     int         `json:"y"`               // Row that was sampled, as given
	Color ColorResult `json:"color"`           // The color at this location
}

// MultiColorResult contains color samples from multiple points.
//
// Results are returned in the same order as the input points.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"` // Color samples in input order
}

// SampleColorsMulti samples every point in one call. When source is true the
// Y of each point is a source row, otherwise a buffer row.
//
// On error no partial results are returned.
func SampleColorsMulti(img *bridge.Image, points []LabeledPoint, source bool) (*MultiColorResult, error) {
	sample := SampleColor
	if source {
		sample = SampleSourceColor
	}

	results := make([]LabeledColorResult, 0, len(points))
	for _, p := range points {
		color, err := sample(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// ColorFrequency represents a color and its occurrence frequency in a buffer.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequently occurring colors.
//
// Colors are sorted by frequency in descending order (most common first).
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"` // Colors sorted by frequency (descending)
}

// DominantColors returns up to count of the most common colors in a decoded
// buffer. Each channel is quantized to a multiple of 16 before counting, so
// near-identical colors are grouped. Alpha is ignored.
//
// Ties are broken by hex value so the result is deterministic.
func DominantColors(img *bridge.Image, count int) *DominantColorsResult {
	counts := make(map[RGBColor]int)
	pixels := img.PixelSlice()
	for _, p := range pixels {
		counts[RGBColor{R: p.R / 16 * 16, G: p.G / 16 * 16, B: p.B / 16 * 16}]++
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B),
			Percentage: float64(n) / float64(len(pixels)) * 100,
			RGB:        rgb,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count >= 0 && len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}
}
