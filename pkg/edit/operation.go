package edit

// Kind identifies the type of an Operation.
type Kind int

const (
	KindUnknown Kind = iota
	KindBlackAndWhite
	KindBrightness
	KindContrast
	KindSaturation
	KindBlur
	KindRotate
	KindSharpen
	KindHue
	KindSepia
	KindVignette
	KindTemperature
	KindNoiseReduction
	KindGrayscale
	KindInvert
	KindPixelate
)

var kindNames = [...]string{
	KindUnknown:        "unknown",
	KindBlackAndWhite:  "blackAndWhite",
	KindBrightness:     "brightness",
	KindContrast:       "contrast",
	KindSaturation:     "saturation",
	KindBlur:           "blur",
	KindRotate:         "rotate",
	KindSharpen:        "sharpen",
	KindHue:            "hue",
	KindSepia:          "sepia",
	KindVignette:       "vignette",
	KindTemperature:    "temperature",
	KindNoiseReduction: "noiseReduction",
	KindGrayscale:      "grayscale",
	KindInvert:         "invert",
	KindPixelate:       "pixelate",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Operation is a typed, parameterized edit request. The set of implementations
// is closed; use the structs in this package.
type Operation interface {
	Kind() Kind
	operation()
}

// KindOf returns op.Kind(), or KindUnknown for a nil operation.
func KindOf(op Operation) Kind {
	if op == nil {
		return KindUnknown
	}
	return op.Kind()
}

// BlackAndWhite removes all color; equivalent to Saturation{-100}.
type BlackAndWhite struct{}

// Brightness shifts R, G and B by Amount*2.55. Amount is in [-100,100].
type Brightness struct{ Amount float64 }

// Contrast scales R, G and B by (Amount+100)/100. Amount is in [-100,100].
type Contrast struct{ Amount float64 }

// Saturation moves colors away from (Amount>0) or towards (Amount<0) gray.
// Amount is in [-100,100].
type Saturation struct{ Amount float64 }

// Blur smooths the image with the given radius in pixels, in [0,25].
type Blur struct{ Radius float64 }

// Rotate turns the image clockwise by Degrees about its center.
type Rotate struct{ Degrees float64 }

// Sharpen applies a 3x3 sharpening kernel. Amount is in [0,100].
type Sharpen struct{ Amount float64 }

// Hue rotates every pixel's hue by Degrees.
type Hue struct{ Degrees float64 }

// Sepia applies the classic sepia tone matrix.
type Sepia struct{}

// Vignette darkens the image edges. Amount is in [0,100].
type Vignette struct{ Amount float64 }

// Temperature warms (Amount>0) or cools (Amount<0) the image. Amount is in [-100,100].
type Temperature struct{ Amount float64 }

// NoiseReduction smooths noise with a blur of radius clamp(Amount/20, 0.5, 5).
// Amount is in [0,100].
type NoiseReduction struct{ Amount float64 }

// Grayscale projects every pixel onto its luminance.
type Grayscale struct{}

// Invert negates R, G and B.
type Invert struct{}

// Pixelate builds a mosaic with blocks of about Amount pixels. Amount is in [0,100].
type Pixelate struct{ Amount float64 }

// Unknown is produced when a request could not be mapped to an operation.
// Token holds whatever the classifier returned, for diagnostics.
type Unknown struct{ Token string }

func (BlackAndWhite) Kind() Kind  { return KindBlackAndWhite }
func (Brightness) Kind() Kind     { return KindBrightness }
func (Contrast) Kind() Kind       { return KindContrast }
func (Saturation) Kind() Kind     { return KindSaturation }
func (Blur) Kind() Kind           { return KindBlur }
func (Rotate) Kind() Kind         { return KindRotate }
func (Sharpen) Kind() Kind        { return KindSharpen }
func (Hue) Kind() Kind            { return KindHue }
func (Sepia) Kind() Kind          { return KindSepia }
func (Vignette) Kind() Kind       { return KindVignette }
func (Temperature) Kind() Kind    { return KindTemperature }
func (NoiseReduction) Kind() Kind { return KindNoiseReduction }
func (Grayscale) Kind() Kind      { return KindGrayscale }
func (Invert) Kind() Kind         { return KindInvert }
func (Pixelate) Kind() Kind       { return KindPixelate }
func (Unknown) Kind() Kind        { return KindUnknown }

func (BlackAndWhite) operation()  {}
func (Brightness) operation()     {}
func (Contrast) operation()       {}
func (Saturation) operation()     {}
func (Blur) operation()           {}
func (Rotate) operation()         {}
func (Sharpen) operation()        {}
func (Hue) operation()            {}
func (Sepia) operation()          {}
func (Vignette) operation()       {}
func (Temperature) operation()    {}
func (NoiseReduction) operation() {}
func (Grayscale) operation()      {}
func (Invert) operation()         {}
func (Pixelate) operation()       {}
func (Unknown) operation()        {}
