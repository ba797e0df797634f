package stdimg

import (
	"image"
	"math"
)

// RGB<->HSV conversions operate on 0..1 floats with hue in degrees [0,360).

func rgbToHsv(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max
	d := max - min
	if max == 0 || d == 0 {
		// achromatic
		return 0, 0, v
	}
	s = d / max
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	return h, s, v
}

func hsvToRgb(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	sector := h / 60
	i := math.Floor(sector)
	f := sector - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// RotateHue shifts the hue of every pixel by degrees. Saturation, value and
// alpha are preserved; a rotation that is a whole number of turns returns an
// unmodified copy.
func RotateHue(src *image.NRGBA, degrees float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	shift := NormalizeDegrees(degrees)
	if shift == 0 {
		return src
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := image.NewNRGBA(src.Bounds())
	parallelLines(h, func(y int) {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x, y)
			r := float64(src.Pix[i+0]) / 255.0
			g := float64(src.Pix[i+1]) / 255.0
			b_ := float64(src.Pix[i+2]) / 255.0

			hue, s, v := rgbToHsv(r, g, b_)
			r2, g2, b2 := hsvToRgb(hue+shift, s, v)
			out.Pix[i+0] = toUint8(r2 * 255.0)
			out.Pix[i+1] = toUint8(g2 * 255.0)
			out.Pix[i+2] = toUint8(b2 * 255.0)
			out.Pix[i+3] = src.Pix[i+3]
		}
	})
	return out
}
