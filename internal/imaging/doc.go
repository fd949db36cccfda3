// Package imaging provides read-only views over decoded cimage handles.
//
// The functions here never allocate or free handle memory; they only read a
// buffer that a bridge.Bridge issued and that the caller has not yet
// released.
//
// # Coordinate Systems
//
// Two row conventions are in play:
//   - Buffer rows: the handle's memory order. Row 0 is the bottom row of the
//     source image.
//   - Source rows: the order an image viewer shows. Row 0 is the top.
//
// SampleColor takes buffer rows. SampleSourceColor takes source rows and maps
// them through SourceRow. Columns are the same in both.
//
// # Color Representation
//
// Colors are reported as:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB / RGBA: 8-bit components, alpha straight (not premultiplied)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100), computed with
//     github.com/lucasb-eyer/go-colorful
package imaging
