package stdimg

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// PixelateBlockSize maps a pixelate amount to a block edge in pixels for a
// w x h image. The result is in [1, min(w,h)].
func PixelateBlockSize(amount float64, w, h int) int {
	limit := w
	if h < limit {
		limit = h
	}
	if limit < 1 {
		limit = 1
	}
	return clampInt(int(math.Round(amount)), 1, limit)
}

// Pixelate produces a mosaic by shrinking src so that every block x block tile
// collapses to one pixel, then scaling it back up with nearest-neighbour
// sampling. A block size of 1 returns an unmodified copy.
func Pixelate(src *image.NRGBA, block int) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	if block <= 1 {
		return src
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	sw := (w + block - 1) / block
	sh := (h + block - 1) / block
	small := image.NewNRGBA(image.Rect(0, 0, sw, sh))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return out
}
