// Package codec is the image-format collaborator behind the cimage boundary.
//
// It owns everything format-specific: opening a path, recognizing the file,
// decoding it with github.com/disintegration/imaging and producing the
// canonical pixel layout the boundary hands to C callers.
//
// # Canonical Layout
//
// Decode returns an *image.NRGBA whose rows are stored bottom-to-top: row 0
// of the result is the last row of the source file, so the rows can go
// straight into APIs whose origin is the lower-left corner.
//
// Every source color model is widened to non-premultiplied 8-bit RGBA.
// Sources without an alpha channel come out fully opaque (A = 255) and 16-bit
// sources are narrowed to their high byte.
//
// # Supported Formats
//
// PNG, JPEG, GIF, BMP and TIFF are registered by imaging itself; WebP is
// registered here through golang.org/x/image/webp. Format detection is by
// content, never by file extension.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package codec
