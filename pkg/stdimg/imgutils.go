package stdimg

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ToNRGBA converts any image.Image to *image.NRGBA (non-premultiplied RGBA)
// whose bounds start at the origin.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok {
		// return a copy to avoid modifying original
		out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			di := out.PixOffset(0, y)
			copy(out.Pix[di:di+b.Dx()*4], n.Pix[si:si+b.Dx()*4])
		}
		return out
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.Pix[idx+0] = c.R
			out.Pix[idx+1] = c.G
			out.Pix[idx+2] = c.B
			out.Pix[idx+3] = c.A
			idx += 4
		}
	}
	return out
}

// CloneNRGBA returns a copy of the provided image.NRGBA
func CloneNRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

// NewSolidNRGBA returns a w x h image filled with c.
func NewSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloatToUint8 ensures v in [0,255]
func clampFloatToUint8(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// toUint8 rounds v to the nearest integer and clamps it into a channel value.
func toUint8(v float64) uint8 {
	return uint8(math.Round(clampFloatToUint8(v)))
}

// samplePixelClamped returns the color.NRGBA at integer coords clamped to image.
func samplePixelClamped(img *image.NRGBA, x, y int) color.NRGBA {
	b := img.Bounds()
	x = clampInt(x, b.Min.X, b.Max.X-1)
	y = clampInt(y, b.Min.Y, b.Max.Y-1)
	i := img.PixOffset(x, y)
	return color.NRGBA{img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

// parallelLines runs fn(i) for every i in [0,n) on a bounded set of goroutines.
// Each call must only write to memory owned by line i. A panic in a worker is
// re-raised on the calling goroutine once all workers have stopped.
func parallelLines(n int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("line %d: %v", i, r)
				}
			}()
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
}
