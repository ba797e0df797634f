package stdimg

import (
	"image"
	"math"
)

// quarterTurnEpsilon is the tolerance, in degrees, under which an angle is
// treated as an exact multiple of 90.
const quarterTurnEpsilon = 1e-9

// NormalizeDegrees maps deg into [0,360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// QuarterTurns reports how many clockwise quarter turns deg corresponds to,
// and whether deg is (within tolerance) a multiple of 90 at all.
func QuarterTurns(deg float64) (int, bool) {
	d := NormalizeDegrees(deg)
	q := math.Round(d / 90)
	if math.Abs(d-q*90) > quarterTurnEpsilon {
		return 0, false
	}
	return int(q) % 4, true
}

// Rotate rotates src clockwise by deg degrees about its center. The output is
// sized to the bounding box of the rotated image, so nothing is clipped;
// uncovered pixels are transparent. Multiples of 90 degrees are exact pixel
// remaps. Other angles use bilinear sampling.
func Rotate(src *image.NRGBA, deg float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	if q, ok := QuarterTurns(deg); ok {
		switch q {
		case 1:
			return Rotate90CWNRGBA(src)
		case 2:
			return Rotate180NRGBA(src)
		case 3:
			return Rotate90CCWNRGBA(src)
		default:
			return src
		}
	}

	rad := deg * (math.Pi / 180.0)
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	w0 := float64(src.Bounds().Dx())
	h0 := float64(src.Bounds().Dy())
	newW := int(math.Ceil(math.Abs(w0*cos) + math.Abs(h0*sin) - 1e-6))
	newH := int(math.Ceil(math.Abs(w0*sin) + math.Abs(h0*cos) - 1e-6))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	out := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	ocx, ocy := float64(newW)/2, float64(newH)/2
	scx, scy := w0/2, h0/2
	parallelLines(newH, func(y int) {
		v := float64(y) + 0.5 - ocy
		for x := 0; x < newW; x++ {
			u := float64(x) + 0.5 - ocx
			// inverse map the destination pixel center into source pixel space
			sx := u*cos + v*sin + scx - 0.5
			sy := -u*sin + v*cos + scy - 0.5
			r, g, b, a := sampleBilinear(src, sx, sy)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = toUint8(r)
			out.Pix[i+1] = toUint8(g)
			out.Pix[i+2] = toUint8(b)
			out.Pix[i+3] = toUint8(a)
		}
	})
	return out
}

// sampleBilinear samples src at floating pixel coordinates (x,y) using bilinear
// interpolation on premultiplied values. Neighbours outside the image count as
// transparent, which antialiases the rotated edges. The returned color is
// non-premultiplied.
func sampleBilinear(src *image.NRGBA, x, y float64) (r, g, b, a float64) {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	xFrac := x - float64(x0)
	yFrac := y - float64(y0)
	bounds := src.Bounds()

	var pr, pg, pb float64
	for dy := 0; dy <= 1; dy++ {
		wy := 1 - yFrac
		if dy == 1 {
			wy = yFrac
		}
		for dx := 0; dx <= 1; dx++ {
			wx := 1 - xFrac
			if dx == 1 {
				wx = xFrac
			}
			wgt := wx * wy
			if wgt == 0 {
				continue
			}
			px, py := x0+dx, y0+dy
			if !(image.Point{px, py}.In(bounds)) {
				continue
			}
			i := src.PixOffset(px, py)
			ca := float64(src.Pix[i+3]) * wgt
			pr += float64(src.Pix[i+0]) * ca
			pg += float64(src.Pix[i+1]) * ca
			pb += float64(src.Pix[i+2]) * ca
			a += ca
		}
	}
	if a <= 0 {
		return 0, 0, 0, 0
	}
	return pr / a, pg / a, pb / a, a
}

// Rotate180NRGBA turns src upside down.
func Rotate180NRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x, y)
			dstIdx := out.PixOffset(w-1-x, h-1-y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

// Rotate90CWNRGBA turns src a quarter clockwise; a w x h input yields h x w.
func Rotate90CWNRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x, y)
			dstIdx := out.PixOffset(h-1-y, x)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

// Rotate90CCWNRGBA turns src a quarter counter-clockwise; a w x h input yields h x w.
func Rotate90CCWNRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x, y)
			dstIdx := out.PixOffset(y, w-1-x)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}
