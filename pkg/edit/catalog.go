// Catalog of edit operations.
//
// This file mirrors the dispatch in Engine.Apply. Keep it up-to-date when you
// add or modify operations so callers (CLI, classifiers, help text) can read a
// single source of truth.

package edit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Fepozopo/pixedit/pkg/stdimg"
)

// ParamSpec describes the single numeric parameter of an operation.
type ParamSpec struct {
	Name        string
	Min         float64
	Max         float64
	Default     float64
	Unit        string // "", "px", "deg" or "%"
	Description string
}

// Clamp forces v into [Min,Max]; NaN yields Default.
func (p ParamSpec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.Default
	}
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// Spec defines a single operation, its parameter and its help text.
type Spec struct {
	Kind        Kind
	Aliases     []string
	Param       *ParamSpec // nil for parameterless operations
	Usage       string
	Description string
	Expensive   bool // runs on a background worker when submitted to a session
}

// Name is the canonical command name.
func (s Spec) Name() string { return s.Kind.String() }

// Catalog is the authoritative list of operations implemented by the engine.
var Catalog = []Spec{
	{
		Kind:        KindBrightness,
		Param:       &ParamSpec{"amount", -100, 100, 20, "", "brightness shift"},
		Usage:       "brightness [amount]",
		Description: "Shift brightness; amount*2.55 is added to R, G and B.",
	},
	{
		Kind:        KindContrast,
		Param:       &ParamSpec{"amount", -100, 100, 20, "", "contrast change"},
		Usage:       "contrast [amount]",
		Description: "Scale R, G and B by (amount+100)/100.",
	},
	{
		Kind:        KindSaturation,
		Param:       &ParamSpec{"amount", -100, 100, 30, "", "saturation change"},
		Usage:       "saturation [amount]",
		Description: "Move colors away from or towards gray.",
	},
	{
		Kind:        KindBlackAndWhite,
		Aliases:     []string{"bw", "blackandwhite", "black-and-white"},
		Usage:       "blackAndWhite",
		Description: "Remove all color (saturation -100).",
	},
	{
		Kind:        KindGrayscale,
		Aliases:     []string{"greyscale", "gray", "grey"},
		Usage:       "grayscale",
		Description: "Project every pixel onto its luminance.",
	},
	{
		Kind:        KindSepia,
		Usage:       "sepia",
		Description: "Classic sepia tone.",
	},
	{
		Kind:        KindInvert,
		Aliases:     []string{"negate", "negative"},
		Usage:       "invert",
		Description: "Invert R, G and B.",
	},
	{
		Kind:        KindTemperature,
		Aliases:     []string{"warmth"},
		Param:       &ParamSpec{"amount", -100, 100, 20, "", "positive warms, negative cools"},
		Usage:       "temperature [amount]",
		Description: "Warm or cool the image by shifting red against blue.",
	},
	{
		Kind:        KindHue,
		Param:       &ParamSpec{"degrees", -360, 360, 90, "deg", "hue rotation"},
		Usage:       "hue [degrees]",
		Description: "Rotate the hue of every pixel.",
	},
	{
		Kind:        KindSharpen,
		Param:       &ParamSpec{"amount", 0, 100, 50, "", "sharpening strength"},
		Usage:       "sharpen [amount]",
		Description: "3x3 sharpening convolution.",
	},
	{
		Kind:        KindBlur,
		Param:       &ParamSpec{"radius", 0, 25, 10, "px", "blur radius"},
		Usage:       "blur [radius]",
		Description: "Gaussian blur with the given radius.",
		Expensive:   true,
	},
	{
		Kind:        KindNoiseReduction,
		Aliases:     []string{"denoise"},
		Param:       &ParamSpec{"amount", 0, 100, 50, "", "noise reduction strength"},
		Usage:       "noiseReduction [amount]",
		Description: "Light blur with radius clamp(amount/20, 0.5, 5).",
		Expensive:   true,
	},
	{
		Kind:        KindVignette,
		Param:       &ParamSpec{"amount", 0, 100, 50, "", "edge darkening"},
		Usage:       "vignette [amount]",
		Description: "Radial darkening towards the edges.",
		Expensive:   true,
	},
	{
		Kind:        KindPixelate,
		Aliases:     []string{"mosaic"},
		Param:       &ParamSpec{"amount", 0, 100, 10, "px", "block size"},
		Usage:       "pixelate [amount]",
		Description: "Mosaic effect with blocks of about amount pixels.",
		Expensive:   true,
	},
	{
		Kind:        KindRotate,
		Param:       &ParamSpec{"degrees", -360, 360, 90, "deg", "clockwise rotation"},
		Usage:       "rotate [degrees]",
		Description: "Rotate clockwise about the center; the canvas grows to fit.",
		Expensive:   true,
	},
}

var (
	catalogByKind = map[Kind]Spec{}
	catalogByName = map[string]Spec{}
)

func init() {
	for _, s := range Catalog {
		catalogByKind[s.Kind] = s
		catalogByName[strings.ToLower(s.Name())] = s
		for _, a := range s.Aliases {
			catalogByName[strings.ToLower(a)] = s
		}
	}
}

// Lookup finds an operation by name or alias, case-insensitively.
func Lookup(name string) (Spec, bool) {
	s, ok := catalogByName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// SpecFor returns the catalog entry for k.
func SpecFor(k Kind) (Spec, bool) {
	s, ok := catalogByKind[k]
	return s, ok
}

// New builds the operation of kind k with the given parameter value.
// Parameterless kinds ignore value; KindUnknown yields Unknown{}.
func New(k Kind, value float64) Operation {
	switch k {
	case KindBlackAndWhite:
		return BlackAndWhite{}
	case KindBrightness:
		return Brightness{Amount: value}
	case KindContrast:
		return Contrast{Amount: value}
	case KindSaturation:
		return Saturation{Amount: value}
	case KindBlur:
		return Blur{Radius: value}
	case KindRotate:
		return Rotate{Degrees: value}
	case KindSharpen:
		return Sharpen{Amount: value}
	case KindHue:
		return Hue{Degrees: value}
	case KindSepia:
		return Sepia{}
	case KindVignette:
		return Vignette{Amount: value}
	case KindTemperature:
		return Temperature{Amount: value}
	case KindNoiseReduction:
		return NoiseReduction{Amount: value}
	case KindGrayscale:
		return Grayscale{}
	case KindInvert:
		return Invert{}
	case KindPixelate:
		return Pixelate{Amount: value}
	default:
		return Unknown{Token: k.String()}
	}
}

// Param returns the numeric parameter carried by op and whether it has one.
func Param(op Operation) (float64, bool) {
	switch o := op.(type) {
	case Brightness:
		return o.Amount, true
	case Contrast:
		return o.Amount, true
	case Saturation:
		return o.Amount, true
	case Blur:
		return o.Radius, true
	case Rotate:
		return o.Degrees, true
	case Sharpen:
		return o.Amount, true
	case Hue:
		return o.Degrees, true
	case Vignette:
		return o.Amount, true
	case Temperature:
		return o.Amount, true
	case NoiseReduction:
		return o.Amount, true
	case Pixelate:
		return o.Amount, true
	default:
		return 0, false
	}
}

// Parse builds an operation from a command name and its textual arguments.
// Missing arguments take the catalog default. Values accept an optional "%"
// or "deg" suffix. Unknown names are not an error: they produce an Unknown
// operation, which the engine rejects as unsupported.
func Parse(name string, args []string) (Operation, error) {
	s, ok := Lookup(name)
	if !ok {
		return Unknown{Token: name}, nil
	}
	if s.Param == nil {
		if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
			return nil, fmt.Errorf("%s takes no parameters", s.Name())
		}
		return New(s.Kind, 0), nil
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("%s takes at most 1 parameter: %s", s.Name(), s.Param.Name)
	}
	v := s.Param.Default
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		f, err := parseNumber(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", s.Param.Name, err)
		}
		v = f
	}
	return New(s.Kind, v), nil
}

// parseNumber parses a float with an optional "%", "deg" or "°" suffix.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"%", "deg", "°", "px"} {
		s = strings.TrimSuffix(s, suffix)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value must be finite: %q", s)
	}
	return f, nil
}

// Expensive reports whether op should run on a background worker. Quarter-turn
// rotations are plain pixel remaps and stay on the caller's goroutine.
func Expensive(op Operation) bool {
	if r, ok := op.(Rotate); ok {
		_, quarter := stdimg.QuarterTurns(r.Degrees)
		return !quarter
	}
	s, ok := SpecFor(KindOf(op))
	return ok && s.Expensive
}
