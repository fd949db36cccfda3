package bridge

import (
	"errors"
	"strings"
	"testing"
	"unsafe"
)

func TestLayout_MatchesCHeader(t *testing.T) {
	if PixelSize != 4 {
		t.Errorf("Pixel size: got %d, want 4", PixelSize)
	}
	if got := unsafe.Offsetof(Pixel{}.A); got != 3 {
		t.Errorf("alpha offset: got %d, want 3", got)
	}

	ptr := unsafe.Sizeof(uintptr(0))
	if got := unsafe.Offsetof(Image{}.Height); got != 4 {
		t.Errorf("height offset: got %d, want 4", got)
	}
	if got := unsafe.Offsetof(Image{}.Pixels); got != 8 {
		t.Errorf("pixels offset: got %d, want 8", got)
	}
	if ImageSize != 8+ptr {
		t.Errorf("Image size: got %d, want %d", ImageSize, 8+ptr)
	}

	if got := unsafe.Sizeof(Status{}); got != 4+StatusMessageSize {
		t.Errorf("Status size: got %d, want %d", got, 4+StatusMessageSize)
	}
}

func TestStatus_Set(t *testing.T) {
	var s Status

	s.Set(&Error{Kind: KindDecodeFailure, Path: "a.png", Err: errors.New("boom")})
	if Kind(s.Kind) != KindDecodeFailure {
		t.Errorf("Kind: got %d, want %d", s.Kind, KindDecodeFailure)
	}
	if got := s.Text(); got != "decode failure: a.png: boom" {
		t.Errorf("Text: got %q", got)
	}

	s.Set(nil)
	if s.Kind != 0 || s.Text() != "" {
		t.Errorf("Set(nil): got kind %d text %q", s.Kind, s.Text())
	}
}

func TestStatus_SetTruncates(t *testing.T) {
	var s Status
	s.Set(&Error{Kind: KindInvalidPathEncoding, Err: errors.New(strings.Repeat("x", 1000))})

	if s.Message[StatusMessageSize-1] != 0 {
		t.Error("message must stay NUL-terminated")
	}
	if got := len(s.Text()); got != StatusMessageSize-1 {
		t.Errorf("truncated length: got %d, want %d", got, StatusMessageSize-1)
	}
}

func TestStatus_ForeignErrorIsDecodeFailure(t *testing.T) {
	var s Status
	s.Set(errors.New("codec exploded"))
	if Kind(s.Kind) != KindDecodeFailure {
		t.Errorf("Kind: got %d, want %d", s.Kind, KindDecodeFailure)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNone, "ok"},
		{KindInvalidPathEncoding, "invalid path encoding"},
		{KindDecodeFailure, "decode failure"},
		{KindCallerMisuse, "caller misuse"},
		{KindAllocation, "allocation failure"},
		{Kind(42), "kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String(): got %q, want %q", int32(tt.kind), got, tt.want)
		}
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	inner := errors.New("inner")
	err := &Error{Kind: KindDecodeFailure, Err: inner}

	if !errors.Is(err, ErrDecodeFailure) {
		t.Error("should match ErrDecodeFailure")
	}
	if errors.Is(err, ErrInvalidPathEncoding) {
		t.Error("should not match ErrInvalidPathEncoding")
	}
	if !errors.Is(err, inner) {
		t.Error("should unwrap to inner error")
	}
	if KindOf(nil) != KindNone {
		t.Error("KindOf(nil) should be KindNone")
	}
}

func TestImage_Views(t *testing.T) {
	pixels := []Pixel{
		{1, 1, 1, 255}, {2, 2, 2, 255}, {3, 3, 3, 255},
		{4, 4, 4, 255}, {5, 5, 5, 255}, {6, 6, 6, 255},
	}
	img := &Image{Width: 3, Height: 2, Pixels: &pixels[0]}

	if img.Len() != 6 {
		t.Errorf("Len: got %d, want 6", img.Len())
	}
	if row := img.Row(1); len(row) != 3 || row[0] != pixels[3] {
		t.Errorf("Row(1): got %v", row)
	}
	if got := img.At(2, 1); got != pixels[5] {
		t.Errorf("At(2,1): got %v, want %v", got, pixels[5])
	}
	if b := img.Bytes(); len(b) != 24 || b[4] != 2 {
		t.Errorf("Bytes: got %v", b)
	}
}
