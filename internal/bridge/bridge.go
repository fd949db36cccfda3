package bridge

import (
	"image"
	"log"
	"math"
	"os"
	"sync"
	"unsafe"

	"github.com/ironsheep/cimage/internal/codec"
)

// Codec decodes a path into the canonical bottom-up RGBA layout.
// codec.Decoder is the production implementation.
type Codec interface {
	Decode(path string) (*image.NRGBA, error)
}

// Options configures a Bridge. The zero value gives a release-mode bridge over
// the C heap and the default codec.
type Options struct {
	// Allocator backs both the pixel buffer and the handle record.
	// Defaults to CAllocator.
	Allocator Allocator

	// Codec performs the actual file decoding. Defaults to codec.Decoder.
	Codec Codec

	// Debug keeps a Ledger of issued handles so Release can refuse handles
	// it did not issue or already consumed.
	Debug bool

	// Logger receives one line per decode, release and refused release.
	// Nil disables logging.
	Logger *log.Logger
}

// Bridge issues and reclaims image handles.
type Bridge struct {
	alloc  Allocator
	codec  Codec
	ledger *Ledger
	logger *log.Logger
}

// New creates a Bridge from opts.
func New(opts Options) *Bridge {
	b := &Bridge{
		alloc:  opts.Allocator,
		codec:  opts.Codec,
		logger: opts.Logger,
	}
	if b.alloc == nil {
		b.alloc = CAllocator{}
	}
	if b.codec == nil {
		b.codec = codec.Decoder{}
	}
	if opts.Debug {
		b.ledger = NewLedger()
	}
	return b
}

var defaultBridge = sync.OnceValue(func() *Bridge {
	opts := Options{Debug: debugBuild}
	if debugBuild {
		opts.Logger = log.New(os.Stderr, "cimage: ", log.Ldate|log.Ltime|log.Lshortfile)
	}
	return New(opts)
})

// Default returns the process-wide Bridge used by the exported C functions.
// It is in debug mode exactly when the binary was built with the
// cimage_debug tag.
func Default() *Bridge {
	return defaultBridge()
}

// Ledger returns the misuse ledger, or nil when the bridge is not in debug
// mode.
func (b *Bridge) Ledger() *Ledger {
	return b.ledger
}

// Decode decodes the image at path into a newly issued handle.
//
// On success the caller owns the handle and must pass it to Release exactly
// once. On failure the returned error is an *Error of kind
// KindDecodeFailure or KindAllocation and nothing is left allocated.
func (b *Bridge) Decode(path string) (*Image, error) {
	img, err := b.codec.Decode(path)
	if err != nil {
		b.logf("decode %q failed: %v", path, err)
		return nil, &Error{Kind: KindDecodeFailure, Path: path, Err: err}
	}
	return b.issue(path, img)
}

// DecodeCString is Decode for a NUL-terminated path in caller memory.
//
// The path bytes are read in place, never copied, and are not referenced
// after DecodeCString returns, including by the returned error. Bytes that
// are not valid UTF-8 fail with KindInvalidPathEncoding.
func (b *Bridge) DecodeCString(path unsafe.Pointer) (*Image, error) {
	p, err := pathView(path)
	if err != nil {
		b.logf("rejected path: %v", err)
		return nil, err
	}
	h, err := b.Decode(p)
	if err != nil {
		return nil, detach(err)
	}
	return h, nil
}

// issue copies img into a fresh pixel buffer, wraps it in a handle record and
// returns the handle. Either both blocks are allocated or neither is.
func (b *Bridge) issue(path string, img *image.NRGBA) (*Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	n := uint64(w) * uint64(h)
	if uint64(w) > math.MaxUint32 || uint64(h) > math.MaxUint32 ||
		n > math.MaxUint32 || n > uint64(^uintptr(0))/uint64(PixelSize) {
		return nil, &Error{Kind: KindDecodeFailure, Path: path, Err: errTooLarge}
	}
	size := uintptr(n) * PixelSize

	var pixels unsafe.Pointer
	if n > 0 {
		pixels = b.alloc.Alloc(size)
		if pixels == nil {
			return nil, &Error{Kind: KindAllocation, Path: path, Err: errOutOfMemory}
		}

		dst := unsafe.Slice((*byte)(pixels), size)
		stride := w * int(PixelSize)
		for y := 0; y < h; y++ {
			off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst[y*stride:(y+1)*stride], img.Pix[off:off+stride])
		}
	}

	rec := b.alloc.Alloc(ImageSize)
	if rec == nil {
		if pixels != nil {
			b.alloc.Free(pixels, size)
		}
		return nil, &Error{Kind: KindAllocation, Path: path, Err: errOutOfMemory}
	}

	handle := (*Image)(rec)
	*handle = Image{
		Width:  uint32(w),
		Height: uint32(h),
		Pixels: (*Pixel)(pixels),
	}

	if b.ledger != nil {
		gen := b.ledger.Issue(rec)
		b.logf("issued handle %p gen %d (%dx%d) for %q", rec, gen, w, h, path)
	} else {
		b.logf("issued handle %p (%dx%d) for %q", rec, w, h, path)
	}
	return handle, nil
}

// Release frees a handle and the pixel buffer it owns.
//
// The handle is dangling once Release returns. Release(nil) does nothing.
// Without a ledger Release always returns nil and a bad handle is undefined
// behavior; with one, an unknown or already released handle is refused with
// ErrCallerMisuse and nothing is freed.
func (b *Bridge) Release(img *Image) error {
	if img == nil {
		return nil
	}
	rec := unsafe.Pointer(img)

	if b.ledger != nil {
		gen, err := b.ledger.Consume(rec)
		if err != nil {
			b.logf("refused release of %p: %v", rec, err)
			return err
		}
		b.logf("releasing handle %p gen %d", rec, gen)
	}

	// Read everything needed from the record before any of it is freed.
	n := uintptr(img.Width) * uintptr(img.Height)
	pixels := unsafe.Pointer(img.Pixels)

	if pixels != nil {
		b.alloc.Free(pixels, n*PixelSize)
	}
	b.alloc.Free(rec, ImageSize)
	return nil
}

// ReleasePointer is Release for a handle address received from C.
func (b *Bridge) ReleasePointer(p unsafe.Pointer) error {
	return b.Release((*Image)(p))
}

func (b *Bridge) logf(format string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Printf(format, args...)
	}
}
