package edit

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/Fepozopo/pixedit/pkg/stdimg"
)

// BlurBackend blurs an image with a radius given in pixels. Implementations
// must return a new image of the same size and must treat radius 0 as an
// identity.
type BlurBackend interface {
	Blur(src *image.NRGBA, radius float64) (*image.NRGBA, error)
}

// BlurFunc adapts a function to BlurBackend.
type BlurFunc func(src *image.NRGBA, radius float64) (*image.NRGBA, error)

// Blur calls f.
func (f BlurFunc) Blur(src *image.NRGBA, radius float64) (*image.NRGBA, error) {
	return f(src, radius)
}

// GaussianBlur is the built-in separable gaussian backend.
type GaussianBlur struct{}

// Blur implements BlurBackend.
func (GaussianBlur) Blur(src *image.NRGBA, radius float64) (*image.NRGBA, error) {
	return stdimg.Blur(src, radius), nil
}

// ImagingBlur delegates to github.com/disintegration/imaging using the same
// radius-to-sigma mapping as GaussianBlur.
type ImagingBlur struct{}

// Blur implements BlurBackend.
func (ImagingBlur) Blur(src *image.NRGBA, radius float64) (*image.NRGBA, error) {
	if radius <= 0 {
		return stdimg.CloneNRGBA(src), nil
	}
	return imaging.Blur(src, stdimg.BlurSigma(radius)), nil
}

// NewBlurBackend returns the backend registered under name: "gaussian" (the
// default when name is empty) or "imaging".
func NewBlurBackend(name string) (BlurBackend, error) {
	switch name {
	case "", "gaussian":
		return GaussianBlur{}, nil
	case "imaging":
		return ImagingBlur{}, nil
	default:
		return nil, fmt.Errorf("unknown blur backend %q", name)
	}
}
