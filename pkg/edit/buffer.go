package edit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/Fepozopo/pixedit/pkg/stdimg"
)

// PixelBuffer is an immutable width x height raster of non-premultiplied
// RGBA8 pixels. Accessors hand out copies, so a buffer can be shared freely
// between the history and its readers.
type PixelBuffer struct {
	img *image.NRGBA
}

// NewPixelBuffer returns a transparent w x h buffer.
func NewPixelBuffer(w, h int) (*PixelBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, NewInvalidImageError(KindUnknown, fmt.Sprintf("dimensions must be positive, got %dx%d", w, h))
	}
	return &PixelBuffer{img: image.NewNRGBA(image.Rect(0, 0, w, h))}, nil
}

// NewSolidPixelBuffer returns a w x h buffer filled with c.
func NewSolidPixelBuffer(w, h int, c color.NRGBA) (*PixelBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, NewInvalidImageError(KindUnknown, fmt.Sprintf("dimensions must be positive, got %dx%d", w, h))
	}
	return &PixelBuffer{img: stdimg.NewSolidNRGBA(w, h, c)}, nil
}

// FromImage copies img into a new buffer.
func FromImage(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, NewInvalidImageError(KindUnknown, "image is nil")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, NewInvalidImageError(KindUnknown, fmt.Sprintf("dimensions must be positive, got %dx%d", b.Dx(), b.Dy()))
	}
	return &PixelBuffer{img: stdimg.ToNRGBA(img)}, nil
}

// FromPixels builds a buffer from row-major RGBA8 bytes. pix is copied and
// must hold exactly w*h*4 bytes.
func FromPixels(w, h int, pix []uint8) (*PixelBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, NewInvalidImageError(KindUnknown, fmt.Sprintf("dimensions must be positive, got %dx%d", w, h))
	}
	if len(pix) != w*h*4 {
		return nil, NewInvalidImageError(KindUnknown, fmt.Sprintf("expected %d bytes for %dx%d, got %d", w*h*4, w, h, len(pix)))
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return &PixelBuffer{img: img}, nil
}

// wrapNRGBA takes ownership of img without copying. Callers must not keep
// other references to it.
func wrapNRGBA(img *image.NRGBA) *PixelBuffer {
	return &PixelBuffer{img: img}
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer rectangle, which always starts at the origin.
func (b *PixelBuffer) Bounds() image.Rectangle { return b.img.Rect }

// At returns the pixel at (x, y). Out-of-range coordinates yield transparent black.
func (b *PixelBuffer) At(x, y int) color.NRGBA {
	return b.img.NRGBAAt(x, y)
}

// Pixels returns a copy of the row-major RGBA8 bytes.
func (b *PixelBuffer) Pixels() []uint8 {
	out := make([]uint8, len(b.img.Pix))
	copy(out, b.img.Pix)
	return out
}

// Image returns a copy of the buffer as an *image.NRGBA.
func (b *PixelBuffer) Image() *image.NRGBA {
	return stdimg.CloneNRGBA(b.img)
}

// Equal reports whether both buffers have the same size and pixels.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.img.Rect.Eq(o.img.Rect) && bytes.Equal(b.img.Pix, o.img.Pix)
}

// Validate checks the size invariant.
func (b *PixelBuffer) Validate() error {
	if b == nil || b.img == nil {
		return NewInvalidImageError(KindUnknown, "buffer is nil")
	}
	w, h := b.img.Rect.Dx(), b.img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return NewInvalidImageError(KindUnknown, fmt.Sprintf("dimensions must be positive, got %dx%d", w, h))
	}
	if len(b.img.Pix) != w*h*4 || b.img.Stride != w*4 {
		return NewInvalidImageError(KindUnknown, "pixel data does not match dimensions")
	}
	return nil
}
