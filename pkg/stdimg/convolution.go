package stdimg

import (
	"image"
	"math"
)

// gaussianKernel1D generates a 1D Gaussian kernel with given sigma. Returns kernel and half-width radius.
func gaussianKernel1D(sigma float64) ([]float64, int) {
	if sigma <= 0 {
		return []float64{1.0}, 0
	}
	// choose radius ~ ceil(3*sigma)
	radius := int(math.Ceil(3 * sigma))
	sz := radius*2 + 1
	kern := make([]float64, sz)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-0.5 * (float64(i) * float64(i)) / (sigma * sigma))
		kern[i+radius] = v
		sum += v
	}
	// normalize
	for i := range kern {
		kern[i] /= sum
	}
	return kern, radius
}

// BlurSigma maps a blur radius in pixels to the gaussian sigma used by
// SeparableGaussianBlur.
func BlurSigma(radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return radius / 2
}

// SeparableGaussianBlur applies a separable gaussian blur to src and returns a new *image.NRGBA.
// Color channels are weighted by alpha, so transparent neighbours contribute
// no color. sigma <= 0 returns an exact copy.
func SeparableGaussianBlur(src *image.NRGBA, sigma float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	if sigma <= 0 {
		return CloneNRGBA(src)
	}
	src = ToNRGBA(src)
	kern, radius := gaussianKernel1D(sigma)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	// horizontal pass output, premultiplied and unrounded
	tmp := make([]float64, 4*w*h)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	// horizontal pass
	parallelLines(h, func(y int) {
		for x := 0; x < w; x++ {
			sr, sg, sb, sa := 0.0, 0.0, 0.0, 0.0
			for k := -radius; k <= radius; k++ {
				c := samplePixelClamped(src, x+k, y)
				wa := kern[k+radius] * float64(c.A)
				sr += float64(c.R) * wa
				sg += float64(c.G) * wa
				sb += float64(c.B) * wa
				sa += wa
			}
			i := 4 * (y*w + x)
			tmp[i+0], tmp[i+1], tmp[i+2], tmp[i+3] = sr, sg, sb, sa
		}
	})

	// vertical pass
	parallelLines(w, func(x int) {
		for y := 0; y < h; y++ {
			sr, sg, sb, sa := 0.0, 0.0, 0.0, 0.0
			for k := -radius; k <= radius; k++ {
				yy := clampInt(y+k, 0, h-1)
				wgt := kern[k+radius]
				i := 4 * (yy*w + x)
				sr += tmp[i+0] * wgt
				sg += tmp[i+1] * wgt
				sb += tmp[i+2] * wgt
				sa += tmp[i+3] * wgt
			}
			o := dst.PixOffset(x, y)
			if sa <= 0 {
				continue
			}
			dst.Pix[o+0] = toUint8(sr / sa)
			dst.Pix[o+1] = toUint8(sg / sa)
			dst.Pix[o+2] = toUint8(sb / sa)
			dst.Pix[o+3] = toUint8(sa)
		}
	})
	return dst
}

// Kernel3 is a 3x3 convolution kernel in row-major order.
type Kernel3 [9]float64

// EdgePolicy selects how Convolve3x3 treats the outermost ring of pixels.
type EdgePolicy int

const (
	// EdgePassThrough copies the 1-pixel border unfiltered.
	EdgePassThrough EdgePolicy = iota
	// EdgeClamp filters every pixel, sampling out-of-range neighbours from the nearest edge pixel.
	EdgeClamp
)

func (p EdgePolicy) String() string {
	switch p {
	case EdgePassThrough:
		return "passthrough"
	case EdgeClamp:
		return "clamp"
	default:
		return "unknown"
	}
}

// SharpenKernel returns the sharpen kernel for amount in [0,100]:
// center 1+4s, orthogonal neighbours -s, corners 0 with s=amount/100.
func SharpenKernel(amount float64) Kernel3 {
	s := amount / 100
	return Kernel3{
		0, -s, 0,
		-s, 1 + 4*s, -s,
		0, -s, 0,
	}
}

// Convolve3x3 convolves every channel (alpha included) of src with k.
func Convolve3x3(src *image.NRGBA, k Kernel3, edge EdgePolicy) *image.NRGBA {
	if src == nil {
		return nil
	}
	src = ToNRGBA(src)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	out := CloneNRGBA(src)
	parallelLines(h, func(y int) {
		for x := 0; x < w; x++ {
			if edge == EdgePassThrough && (x == 0 || y == 0 || x == w-1 || y == h-1) {
				continue
			}
			var sr, sg, sb, sa float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					wgt := k[(ky+1)*3+(kx+1)]
					if wgt == 0 {
						continue
					}
					c := samplePixelClamped(src, x+kx, y+ky)
					sr += float64(c.R) * wgt
					sg += float64(c.G) * wgt
					sb += float64(c.B) * wgt
					sa += float64(c.A) * wgt
				}
			}
			i := out.PixOffset(x, y)
			out.Pix[i+0] = toUint8(sr)
			out.Pix[i+1] = toUint8(sg)
			out.Pix[i+2] = toUint8(sb)
			out.Pix[i+3] = toUint8(sa)
		}
	})
	return out
}
