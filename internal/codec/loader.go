package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrTooLarge is returned when a header declares more pixels than a 32-bit
// count can hold. The file is rejected before any pixel memory is allocated.
var ErrTooLarge = errors.New("image exceeds 2^32-1 pixels")

// Decoder decodes image files into the canonical bottom-up RGBA layout.
//
// The zero value is ready to use. Decoder carries no state, so a single value
// may be shared by any number of goroutines.
type Decoder struct{}

// Decode opens and decodes the image at path.
//
// See the package documentation for the row order and color widening applied
// to the result.
func (Decoder) Decode(path string) (*image.NRGBA, error) {
	return Decode(path)
}

// Decode opens and decodes the image at path.
//
// Parameters:
//   - path: Absolute or relative file path. Any format registered with the
//     image package (PNG, JPEG, GIF, BMP, TIFF, WebP) is accepted.
//
// Returns:
//   - *image.NRGBA: Decoded pixels with row 0 holding the bottom source row.
//     The rectangle always starts at (0,0).
//   - error: Non-nil if the file cannot be opened or decoded.
//
// EXIF orientation tags are ignored; the pixel grid is the one stored in the
// file. The header is checked before the raster is decoded, so a file that
// declares an oversized image fails with ErrTooLarge instead of exhausting
// memory.
func Decode(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if uint64(cfg.Width)*uint64(cfg.Height) > math.MaxUint32 {
		return nil, fmt.Errorf("failed to decode image: %dx%d: %w", cfg.Width, cfg.Height, ErrTooLarge)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind image: %w", err)
	}
	img, err := imaging.Decode(f, imaging.AutoOrientation(false))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return Flip(img), nil
}

// Flip converts img to non-premultiplied RGBA with the rows reversed.
func Flip(img image.Image) *image.NRGBA {
	return imaging.FlipV(img)
}

// Info contains metadata about an image file, read from its header only.
type Info struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the name the decoder registered for the file's content:
	// "png", "jpeg", "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the source carries transparency information.
	// Decode produces an alpha channel either way.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Inspect reads the header of the image at path and describes it without
// decoding any pixels.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the content is not a registered image format
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha, colorDepth := describeModel(cfg.ColorModel)

	return &Info{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// Dimensions returns the width and height recorded in the image header.
func Dimensions(path string) (width, height int, err error) {
	info, err := Inspect(path)
	if err != nil {
		return 0, 0, err
	}
	return info.Width, info.Height, nil
}

func describeModel(m color.Model) (hasAlpha bool, colorDepth string) {
	// Decoders report RGBAModel for truecolor sources without an alpha
	// channel; straight-alpha sources report the NRGBA models.
	colorDepth = "8-bit"
	switch m {
	case color.NRGBAModel, color.AlphaModel:
		hasAlpha = true
	case color.NRGBA64Model, color.Alpha16Model:
		hasAlpha = true
		colorDepth = "16-bit"
	case color.RGBA64Model, color.Gray16Model:
		colorDepth = "16-bit"
	}

	// Paletted images are transparent when any palette entry is.
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				hasAlpha = true
				break
			}
		}
	}
	return hasAlpha, colorDepth
}
