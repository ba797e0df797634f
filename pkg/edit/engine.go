package edit

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/Fepozopo/pixedit/pkg/metrics"
	"github.com/Fepozopo/pixedit/pkg/stdimg"
)

// Result is the outcome of applying one operation.
type Result struct {
	Image       *PixelBuffer
	Description string // e.g. "Adjusting brightness by 30"
	// Advisory is set when the operation degraded to an identity; Image is
	// then the unmodified input.
	Advisory string
}

// Engine maps typed operations onto the pixel algorithms in stdimg. It holds
// configuration only, so a single Engine may be shared by many sessions.
type Engine struct {
	blur        BlurBackend
	sharpenEdge stdimg.EdgePolicy
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithBlurBackend sets the backend used by Blur and NoiseReduction.
func WithBlurBackend(b BlurBackend) Option {
	return func(e *Engine) {
		if b != nil {
			e.blur = b
		}
	}
}

// WithSharpenEdge sets the border policy of the sharpen convolution.
func WithSharpenEdge(p stdimg.EdgePolicy) Option {
	return func(e *Engine) { e.sharpenEdge = p }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine using the gaussian blur backend and the
// pass-through sharpen border unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		blur:        GaussianBlur{},
		sharpenEdge: stdimg.EdgePassThrough,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs op against buf and returns a new buffer. buf is never modified.
//
// Failures are reported as *Error values of the classes declared in this
// package. On ErrResourceExhausted the returned Result is non-nil and holds buf
// itself plus an advisory message. A context that is already done when Apply
// is called yields ctx.Err() without doing any work; a nil ctx is treated as
// context.Background().
func (e *Engine) Apply(ctx context.Context, buf *PixelBuffer, op Operation) (res *Result, err error) {
	kind := KindOf(op)
	start := time.Now()
	defer func() {
		metrics.OperationsTotal.WithLabelValues(kind.String(), StatusLabel(err)).Inc()
		metrics.OperationDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if op == nil {
		return nil, newError(ErrUnsupported, KindUnknown, "no operation")
	}
	if _, ok := op.(Unknown); ok {
		return nil, newError(ErrUnsupported, KindUnknown, "%s", Describe(op))
	}
	if verr := buf.Validate(); verr != nil {
		verr.(*Error).Op = kind
		return nil, verr
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = e.recovered(buf, op, r)
		}
	}()

	out, err := e.dispatch(buf.img, op)
	if err != nil {
		if spatial(kind) {
			return e.degrade(buf, op, err)
		}
		return nil, err
	}
	if out == nil {
		return nil, newError(ErrInvalidImage, kind, "transform produced no image")
	}
	desc := Describe(op)
	e.logger.Debug("edit applied", "op", kind.String(), "description", desc,
		"width", out.Rect.Dx(), "height", out.Rect.Dy(), "elapsed", time.Since(start))
	return &Result{Image: wrapNRGBA(out), Description: desc}, nil
}

// dispatch maps op onto exactly one primitive. Parameters are clamped into
// their documented domain.
func (e *Engine) dispatch(src *image.NRGBA, op Operation) (*image.NRGBA, error) {
	switch o := op.(type) {
	case Brightness:
		return stdimg.ApplyColorMatrix(src, stdimg.BrightnessMatrix(clampParam(KindBrightness, o.Amount))), nil
	case Contrast:
		return stdimg.ApplyColorMatrix(src, stdimg.ContrastMatrix(clampParam(KindContrast, o.Amount))), nil
	case Saturation:
		return stdimg.ApplyColorMatrix(src, stdimg.SaturationMatrix(clampParam(KindSaturation, o.Amount))), nil
	case BlackAndWhite:
		return stdimg.ApplyColorMatrix(src, stdimg.SaturationMatrix(-100)), nil
	case Grayscale:
		return stdimg.ApplyColorMatrix(src, stdimg.GrayscaleMatrix()), nil
	case Sepia:
		return stdimg.ApplyColorMatrix(src, stdimg.SepiaMatrix()), nil
	case Temperature:
		return stdimg.ApplyColorMatrix(src, stdimg.TemperatureMatrix(clampParam(KindTemperature, o.Amount))), nil
	case Invert:
		return stdimg.ApplyColorMatrix(src, stdimg.InvertMatrix()), nil
	case Sharpen:
		return stdimg.Sharpen(src, clampParam(KindSharpen, o.Amount), e.sharpenEdge), nil
	case Hue:
		return stdimg.RotateHue(src, finiteOr(o.Degrees, 0)), nil
	case Blur:
		return e.runBlur(src, clampParam(KindBlur, o.Radius))
	case NoiseReduction:
		return e.runBlur(src, NoiseReductionRadius(clampParam(KindNoiseReduction, o.Amount)))
	case Vignette:
		return stdimg.Vignette(src, clampParam(KindVignette, o.Amount)), nil
	case Pixelate:
		w, h := src.Rect.Dx(), src.Rect.Dy()
		return stdimg.Pixelate(src, stdimg.PixelateBlockSize(clampParam(KindPixelate, o.Amount), w, h)), nil
	case Rotate:
		return stdimg.Rotate(src, finiteOr(o.Degrees, 0)), nil
	default:
		return nil, newError(ErrUnsupported, KindOf(op), "no transform registered")
	}
}

func (e *Engine) runBlur(src *image.NRGBA, radius float64) (*image.NRGBA, error) {
	if radius <= 0 {
		return stdimg.CloneNRGBA(src), nil
	}
	out, err := e.blur.Blur(src, radius)
	if err != nil {
		return nil, fmt.Errorf("blur backend: %w", err)
	}
	if out == nil || !out.Rect.Size().Eq(src.Rect.Size()) {
		return nil, fmt.Errorf("blur backend returned an image of the wrong size")
	}
	return out, nil
}

// degrade turns a spatial-effect failure into an identity result.
func (e *Engine) degrade(buf *PixelBuffer, op Operation, cause error) (*Result, error) {
	kind := KindOf(op)
	err := &Error{Class: ErrResourceExhausted, Op: kind, Message: "effect unavailable, image left unchanged", Err: cause}
	e.logger.Warn("edit degraded to identity", "op", kind.String(), "error", cause)
	return &Result{
		Image:       buf,
		Description: Describe(op),
		Advisory:    UserMessage(err),
	}, err
}

// recovered converts a panic raised by an algorithm into the error taxonomy.
func (e *Engine) recovered(buf *PixelBuffer, op Operation, r any) (*Result, error) {
	cause := fmt.Errorf("panic: %v", r)
	if spatial(KindOf(op)) {
		return e.degrade(buf, op, cause)
	}
	e.logger.Error("edit failed", "op", KindOf(op).String(), "error", cause)
	return nil, &Error{Class: ErrInvalidImage, Op: KindOf(op), Message: "transform failed", Err: cause}
}

// spatial reports whether k is a geometric or region effect whose failures
// degrade to identity.
func spatial(k Kind) bool {
	switch k {
	case KindBlur, KindNoiseReduction, KindVignette, KindPixelate, KindRotate:
		return true
	}
	return false
}

// NoiseReductionRadius maps a noise reduction amount to a blur radius:
// clamp(amount/20, 0.5, 5).
func NoiseReductionRadius(amount float64) float64 {
	return math.Min(math.Max(amount/20, 0.5), 5)
}

func clampParam(k Kind, v float64) float64 {
	s, ok := SpecFor(k)
	if !ok || s.Param == nil {
		return v
	}
	return s.Param.Clamp(v)
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
