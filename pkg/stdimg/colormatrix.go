package stdimg

import (
	"image"
)

// ColorMatrix is a 4x5 row-major affine color transform. Rows produce R, G, B
// and A; the fifth column is a constant offset in 0..255 units.
//
//	[R']   [m0  m1  m2  m3  m4 ]   [R]
//	[G'] = [m5  m6  m7  m8  m9 ] * [G]
//	[B']   [m10 m11 m12 m13 m14]   [B]
//	[A']   [m15 m16 m17 m18 m19]   [A]
//	                               [1]
type ColorMatrix [20]float64

// Luminance weights used for the achromatic axis of saturation matrices.
const (
	lumR = 0.213
	lumG = 0.715
	lumB = 0.072
)

// IdentityMatrix leaves every channel unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// BrightnessMatrix adds v*2.55 to R, G and B. v is in [-100,100].
func BrightnessMatrix(v float64) ColorMatrix {
	off := v * 2.55
	m := IdentityMatrix()
	m[4], m[9], m[14] = off, off, off
	return m
}

// ContrastMatrix scales R, G and B by (v+100)/100. v is in [-100,100].
func ContrastMatrix(v float64) ColorMatrix {
	s := (v + 100) / 100
	m := IdentityMatrix()
	m[0], m[6], m[12] = s, s, s
	return m
}

// SaturationMatrix interpolates between the luma projection (v=-100) and the
// identity (v=0); values above 0 extrapolate past the identity.
func SaturationMatrix(v float64) ColorMatrix {
	s := (v + 100) / 100
	inv := 1 - s
	r, g, b := lumR*inv, lumG*inv, lumB*inv
	return ColorMatrix{
		r + s, g, b, 0, 0,
		r, g + s, b, 0, 0,
		r, g, b + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// GrayscaleMatrix projects every pixel onto its luminance.
func GrayscaleMatrix() ColorMatrix {
	return SaturationMatrix(-100)
}

// SepiaMatrix is the classic sepia tone transform.
func SepiaMatrix() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// TemperatureMatrix warms (v>0) or cools (v<0) the image by pushing red and
// blue in opposite directions by v*2.55.
func TemperatureMatrix(v float64) ColorMatrix {
	off := v * 2.55
	m := IdentityMatrix()
	m[4] = off
	m[14] = -off
	return m
}

// InvertMatrix negates R, G and B.
func InvertMatrix() ColorMatrix {
	return ColorMatrix{
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	}
}

// Mul returns the matrix that applies o first and then m.
func (m ColorMatrix) Mul(o ColorMatrix) ColorMatrix {
	var out ColorMatrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[r*5+k] * o[k*5+c]
			}
			if c == 4 {
				sum += m[r*5+4]
			}
			out[r*5+c] = sum
		}
	}
	return out
}

// ApplyColorMatrix transforms every pixel of src with m and returns a new image.
// Results are rounded and clamped to [0,255].
func ApplyColorMatrix(src *image.NRGBA, m ColorMatrix) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := src.PixOffset(b.Min.X, y)
		end := i + b.Dx()*4
		for ; i < end; i += 4 {
			r := float64(src.Pix[i+0])
			g := float64(src.Pix[i+1])
			b_ := float64(src.Pix[i+2])
			a := float64(src.Pix[i+3])
			out.Pix[i+0] = toUint8(m[0]*r + m[1]*g + m[2]*b_ + m[3]*a + m[4])
			out.Pix[i+1] = toUint8(m[5]*r + m[6]*g + m[7]*b_ + m[8]*a + m[9])
			out.Pix[i+2] = toUint8(m[10]*r + m[11]*g + m[12]*b_ + m[13]*a + m[14])
			out.Pix[i+3] = toUint8(m[15]*r + m[16]*g + m[17]*b_ + m[18]*a + m[19])
		}
	}
	return out
}
