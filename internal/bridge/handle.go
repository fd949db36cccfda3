package bridge

import "unsafe"

// Pixel is one cimage_rgba8: four straight (non-premultiplied) 8-bit channels.
type Pixel struct {
	R, G, B, A uint8
}

// PixelSize is the size of a Pixel in bytes.
const PixelSize = unsafe.Sizeof(Pixel{})

// Image is the handle record shared with C callers (cimage_image).
//
// Values of this type are only ever obtained from Bridge.Decode and live in
// memory owned by the bridge's Allocator. Never construct, copy-then-release
// or retain an Image past its Release.
type Image struct {
	Width  uint32
	Height uint32
	Pixels *Pixel
}

// ImageSize is the size of the handle record in bytes.
const ImageSize = unsafe.Sizeof(Image{})

// Len returns the number of pixels in the buffer, width*height.
func (img *Image) Len() int {
	return int(img.Width) * int(img.Height)
}

// PixelSlice returns the pixel buffer as a slice sharing the handle's memory.
// The slice is invalid once the handle is released.
func (img *Image) PixelSlice() []Pixel {
	if img.Pixels == nil {
		return nil
	}
	return unsafe.Slice(img.Pixels, img.Len())
}

// Row returns buffer row y; row 0 is the bottom row of the source image.
func (img *Image) Row(y int) []Pixel {
	w := int(img.Width)
	return img.PixelSlice()[y*w : (y+1)*w]
}

// At returns the pixel at column x of buffer row y.
func (img *Image) At(x, y int) Pixel {
	return img.PixelSlice()[y*int(img.Width)+x]
}

// Bytes returns the buffer as interleaved R,G,B,A bytes sharing the handle's
// memory.
func (img *Image) Bytes() []byte {
	if img.Pixels == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(img.Pixels)), uintptr(img.Len())*PixelSize)
}

// StatusMessageSize is the capacity of the message field of cimage_status,
// including the terminating NUL.
const StatusMessageSize = 256

// Status mirrors the caller-owned out-parameter cimage_status.
type Status struct {
	Kind    int32
	Message [StatusMessageSize]byte
}

// Set records err in s. A nil err records success with an empty message.
// Messages longer than the buffer are truncated; the result is always
// NUL-terminated.
func (s *Status) Set(err error) {
	s.Kind = int32(KindOf(err))
	s.Message = [StatusMessageSize]byte{}
	if err == nil {
		return
	}
	copy(s.Message[:StatusMessageSize-1], err.Error())
}

// Text returns the message stored in s.
func (s *Status) Text() string {
	for i, c := range s.Message {
		if c == 0 {
			return string(s.Message[:i])
		}
	}
	return string(s.Message[:])
}
