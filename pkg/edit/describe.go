package edit

import (
	"strconv"
)

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Describe returns the human-readable notification for op, e.g.
// "Adjusting brightness by 30".
func Describe(op Operation) string {
	switch o := op.(type) {
	case BlackAndWhite:
		return "Converting to black and white"
	case Brightness:
		return "Adjusting brightness by " + formatValue(o.Amount)
	case Contrast:
		return "Adjusting contrast by " + formatValue(o.Amount)
	case Saturation:
		return "Adjusting saturation by " + formatValue(o.Amount)
	case Blur:
		return "Blurring with radius " + formatValue(o.Radius)
	case Rotate:
		return "Rotating by " + formatValue(o.Degrees) + " degrees"
	case Sharpen:
		return "Sharpening by " + formatValue(o.Amount)
	case Hue:
		return "Shifting hue by " + formatValue(o.Degrees) + " degrees"
	case Sepia:
		return "Applying sepia tone"
	case Vignette:
		return "Adding vignette of " + formatValue(o.Amount)
	case Temperature:
		if o.Amount < 0 {
			return "Cooling the image by " + formatValue(-o.Amount)
		}
		return "Warming the image by " + formatValue(o.Amount)
	case NoiseReduction:
		return "Reducing noise by " + formatValue(o.Amount)
	case Grayscale:
		return "Converting to grayscale"
	case Invert:
		return "Inverting colors"
	case Pixelate:
		return "Pixelating with blocks of " + formatValue(o.Amount)
	case Unknown:
		if o.Token != "" {
			return "Unrecognized edit: " + o.Token
		}
		return "Unrecognized edit"
	default:
		return "Unrecognized edit"
	}
}
