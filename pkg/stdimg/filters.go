package stdimg

import (
	"image"
)

// Sharpen convolves src with SharpenKernel(amount). amount is clamped to [0,100];
// an amount of 0 returns an unmodified copy.
func Sharpen(src *image.NRGBA, amount float64, edge EdgePolicy) *image.NRGBA {
	if src == nil {
		return nil
	}
	if amount <= 0 {
		return ToNRGBA(src)
	}
	if amount > 100 {
		amount = 100
	}
	return Convolve3x3(src, SharpenKernel(amount), edge)
}

// Blur is a radius-driven wrapper over SeparableGaussianBlur.
func Blur(src *image.NRGBA, radius float64) *image.NRGBA {
	return SeparableGaussianBlur(src, BlurSigma(radius))
}
