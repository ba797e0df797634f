package stdimg

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Vignette darkens the image towards its edges by painting a radial black
// gradient over it.
//
// The gradient is centered on the image center with radius max(w,h)/1.2. It is
// fully transparent out to 60% of that radius, then ramps to black with alpha
// amount*2.55 at the radius and stays there beyond it. The overlay is
// composited with source-over blending. amount is clamped to [0,100]; 0 returns
// an unmodified copy.
func Vignette(src *image.NRGBA, amount float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	if amount <= 0 {
		return ToNRGBA(src)
	}
	if amount > 100 {
		amount = 100
	}
	src = ToNRGBA(src)
	w := float64(src.Bounds().Dx())
	h := float64(src.Bounds().Dy())
	cx, cy := w/2, h/2
	radius := math.Max(w, h) / 1.2
	alpha := uint8(math.Round(amount * 2.55))

	grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, radius)
	grad.AddColorStop(0, color.Transparent)
	grad.AddColorStop(0.6, color.Transparent)
	grad.AddColorStop(1, color.NRGBA{A: alpha})

	dc := gg.NewContext(int(w), int(h))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
	return overBlack(src, dc.Image().(*image.RGBA))
}

// overBlack composites a black overlay onto src with source-over blending.
// Only the overlay's alpha is read; pixels it leaves transparent are copied
// unchanged.
func overBlack(src *image.NRGBA, overlay *image.RGBA) *image.NRGBA {
	out := CloneNRGBA(src)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	parallelLines(h, func(y int) {
		for x := 0; x < w; x++ {
			oa := float64(overlay.Pix[overlay.PixOffset(x, y)+3]) / 255
			if oa == 0 {
				continue
			}
			i := out.PixOffset(x, y)
			sa := float64(out.Pix[i+3]) / 255
			keep := sa * (1 - oa)
			a := oa + keep
			if a > 0 {
				f := keep / a
				out.Pix[i+0] = toUint8(float64(out.Pix[i+0]) * f)
				out.Pix[i+1] = toUint8(float64(out.Pix[i+1]) * f)
				out.Pix[i+2] = toUint8(float64(out.Pix[i+2]) * f)
			}
			out.Pix[i+3] = toUint8(a * 255)
		}
	})
	return out
}
