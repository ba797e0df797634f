package edit

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/Fepozopo/pixedit/pkg/metrics"
	"github.com/Fepozopo/pixedit/pkg/stdimg"
)

func quietEngine(opts ...Option) *Engine {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewEngine(opts...)
}

func solid(t *testing.T, w, h int, c color.NRGBA) *PixelBuffer {
	t.Helper()
	b, err := NewSolidPixelBuffer(w, h, c)
	if err != nil {
		t.Fatalf("NewSolidPixelBuffer: %v", err)
	}
	return b
}

func patterned(t *testing.T, w, h int) *PixelBuffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(20 + 37*x), uint8(240 - 29*y), uint8(13 * (x + y)), 255})
		}
	}
	b, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	return b
}

func apply(t *testing.T, e *Engine, buf *PixelBuffer, op Operation) *Result {
	t.Helper()
	res, err := e.Apply(context.Background(), buf, op)
	if err != nil {
		t.Fatalf("Apply(%s): %v", KindOf(op), err)
	}
	return res
}

func TestIdentityLaws(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 6, 5)
	ops := []Operation{
		Brightness{Amount: 0},
		Contrast{Amount: 0},
		Saturation{Amount: 0},
		Hue{Degrees: 0},
		Blur{Radius: 0},
		Rotate{Degrees: 0},
		Sharpen{Amount: 0},
		Temperature{Amount: 0},
		Vignette{Amount: 0},
	}
	for _, op := range ops {
		res := apply(t, e, src, op)
		if !res.Image.Equal(src) {
			t.Fatalf("%s should be an identity", KindOf(op))
		}
	}
}

func TestColorOpsStayInRange(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 5, 5)
	ops := []Operation{
		Brightness{Amount: 100}, Brightness{Amount: -100},
		Contrast{Amount: 100}, Contrast{Amount: -100},
		Saturation{Amount: 100}, Saturation{Amount: -100},
		Temperature{Amount: 100}, Temperature{Amount: -100},
		Sepia{}, Invert{}, Grayscale{}, BlackAndWhite{},
	}
	for _, op := range ops {
		res := apply(t, e, src, op)
		if res.Image.Width() != 5 || res.Image.Height() != 5 {
			t.Fatalf("%s changed dimensions", KindOf(op))
		}
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				if a := res.Image.At(x, y).A; a != 255 {
					t.Fatalf("%s changed alpha at (%d,%d) to %d", KindOf(op), x, y, a)
				}
			}
		}
	}
}

func TestColorOpsSaturateAtExtremes(t *testing.T) {
	e := quietEngine()
	cases := []struct {
		op   Operation
		in   color.NRGBA
		want color.NRGBA
	}{
		{Contrast{Amount: 100}, color.NRGBA{200, 40, 100, 255}, color.NRGBA{255, 80, 200, 255}},
		{Brightness{Amount: 100}, color.NRGBA{200, 0, 0, 255}, color.NRGBA{255, 255, 255, 255}},
		{Brightness{Amount: -100}, color.NRGBA{200, 100, 50, 255}, color.NRGBA{0, 0, 0, 255}},
		{Saturation{Amount: 100}, color.NRGBA{200, 100, 50, 255}, color.NRGBA{255, 82, 0, 255}},
	}
	for _, c := range cases {
		res := apply(t, e, solid(t, 1, 1, c.in), c.op)
		if got := res.Image.At(0, 0); got != c.want {
			t.Fatalf("%s on %v = %v; want %v", KindOf(c.op), c.in, got, c.want)
		}
	}
}

func TestGrayscaleCollapse(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 4, 4)
	for _, op := range []Operation{Grayscale{}, BlackAndWhite{}} {
		res := apply(t, e, src, op)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				c := res.Image.At(x, y)
				if c.R != c.G || c.G != c.B {
					t.Fatalf("%s: pixel (%d,%d) = %v not gray", KindOf(op), x, y, c)
				}
			}
		}
	}
}

func TestInvertWhite(t *testing.T) {
	e := quietEngine()
	res := apply(t, e, solid(t, 4, 4, color.NRGBA{255, 255, 255, 255}), Invert{})
	want := solid(t, 4, 4, color.NRGBA{0, 0, 0, 255})
	if !res.Image.Equal(want) {
		t.Fatalf("invert of white is not black")
	}
	if res.Description != "Inverting colors" {
		t.Fatalf("description = %q", res.Description)
	}
}

func TestBrightnessMaxClamps(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 4, 4)
	res := apply(t, e, src, Brightness{Amount: 100})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			in, out := src.At(x, y), res.Image.At(x, y)
			for _, ch := range [][2]uint8{{in.R, out.R}, {in.G, out.G}, {in.B, out.B}} {
				want := math.Min(255, math.Round(float64(ch[0])+255))
				if float64(ch[1]) != want {
					t.Fatalf("(%d,%d): %d -> %d; want %v", x, y, ch[0], ch[1], want)
				}
			}
		}
	}
}

func TestParametersAreClamped(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 4, 4)
	over := apply(t, e, src, Brightness{Amount: 500})
	capped := apply(t, e, src, Brightness{Amount: 100})
	if !over.Image.Equal(capped.Image) {
		t.Fatalf("brightness 500 should clamp to 100")
	}
	nan := apply(t, e, src, Contrast{Amount: math.NaN()})
	def := apply(t, e, src, Contrast{Amount: 20})
	if !nan.Image.Equal(def.Image) {
		t.Fatalf("NaN contrast should fall back to the default")
	}
	inf := apply(t, e, src, Rotate{Degrees: math.Inf(1)})
	if !inf.Image.Equal(src) {
		t.Fatalf("infinite rotation should be treated as 0")
	}
}

func TestRotateDimensions(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 6, 3)
	for _, c := range []struct {
		deg  float64
		w, h int
	}{
		{90, 3, 6}, {270, 3, 6}, {-90, 3, 6}, {180, 6, 3},
	} {
		res := apply(t, e, src, Rotate{Degrees: c.deg})
		if res.Image.Width() != c.w || res.Image.Height() != c.h {
			t.Fatalf("rotate %v: %dx%d; want %dx%d", c.deg, res.Image.Width(), res.Image.Height(), c.w, c.h)
		}
	}
}

func TestRotateFourTimesIsExact(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 5, 3)
	cur := src
	for i := 0; i < 4; i++ {
		cur = apply(t, e, cur, Rotate{Degrees: 90}).Image
	}
	if !cur.Equal(src) {
		t.Fatalf("four quarter turns are not bit-identical")
	}
}

func TestUnknownIsUnsupported(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 2, 2)
	for _, op := range []Operation{Unknown{Token: "make it pop"}, nil} {
		res, err := e.Apply(context.Background(), src, op)
		if !errors.Is(err, ErrUnsupported) {
			t.Fatalf("Apply(%v) error = %v; want ErrUnsupported", op, err)
		}
		if res != nil {
			t.Fatalf("unsupported op returned a result")
		}
	}
}

func TestNilContextIsBackground(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 3, 3)
	res, err := e.Apply(nil, src, Invert{})
	if err != nil {
		t.Fatalf("Apply(nil ctx): %v", err)
	}
	if res.Image.Equal(src) {
		t.Fatalf("invert left the image unchanged")
	}
}

func TestInvalidBuffer(t *testing.T) {
	e := quietEngine()
	for _, buf := range []*PixelBuffer{nil, {}, {img: &image.NRGBA{}}} {
		_, err := e.Apply(context.Background(), buf, Invert{})
		if !errors.Is(err, ErrInvalidImage) {
			t.Fatalf("error = %v; want ErrInvalidImage", err)
		}
		var ee *Error
		if !errors.As(err, &ee) || ee.Op != KindInvert {
			t.Fatalf("error should carry the op kind, got %#v", err)
		}
	}
}

func TestCanceledContext(t *testing.T) {
	e := quietEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Apply(ctx, patterned(t, 2, 2), Invert{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v; want context.Canceled", err)
	}
}

func TestBlurBackendFailureDegrades(t *testing.T) {
	failing := BlurFunc(func(*image.NRGBA, float64) (*image.NRGBA, error) {
		return nil, errors.New("out of memory")
	})
	e := quietEngine(WithBlurBackend(failing))
	src := patterned(t, 4, 4)

	for _, op := range []Operation{Blur{Radius: 5}, NoiseReduction{Amount: 50}} {
		res, err := e.Apply(context.Background(), src, op)
		if !errors.Is(err, ErrResourceExhausted) {
			t.Fatalf("%s error = %v; want ErrResourceExhausted", KindOf(op), err)
		}
		if res == nil || res.Image != src {
			t.Fatalf("%s should return the original image", KindOf(op))
		}
		if res.Advisory == "" {
			t.Fatalf("%s should carry an advisory", KindOf(op))
		}
	}
}

func TestBlurBackendWrongSizeDegrades(t *testing.T) {
	shrinking := BlurFunc(func(src *image.NRGBA, _ float64) (*image.NRGBA, error) {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	})
	e := quietEngine(WithBlurBackend(shrinking))
	_, err := e.Apply(context.Background(), patterned(t, 4, 4), Blur{Radius: 3})
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("error = %v; want ErrResourceExhausted", err)
	}
}

func TestPanickingBackendRecovered(t *testing.T) {
	panicking := BlurFunc(func(*image.NRGBA, float64) (*image.NRGBA, error) {
		panic("backend exploded")
	})
	e := quietEngine(WithBlurBackend(panicking))
	src := patterned(t, 3, 3)
	res, err := e.Apply(context.Background(), src, Blur{Radius: 2})
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("error = %v; want ErrResourceExhausted", err)
	}
	if res == nil || !res.Image.Equal(src) {
		t.Fatalf("recovered blur should return the original image")
	}
}

func TestBlurBackendsAgreeOnIdentity(t *testing.T) {
	src := patterned(t, 5, 5)
	for _, name := range []string{"gaussian", "imaging"} {
		b, err := NewBlurBackend(name)
		if err != nil {
			t.Fatalf("NewBlurBackend(%q): %v", name, err)
		}
		e := quietEngine(WithBlurBackend(b))
		if res := apply(t, e, src, Blur{Radius: 0}); !res.Image.Equal(src) {
			t.Fatalf("%s: blur 0 is not an identity", name)
		}
		res := apply(t, e, src, Blur{Radius: 6})
		if res.Image.Width() != 5 || res.Image.Height() != 5 {
			t.Fatalf("%s: blur changed dimensions", name)
		}
		if res.Image.Equal(src) {
			t.Fatalf("%s: blur 6 left the image unchanged", name)
		}
	}
	if _, err := NewBlurBackend("box"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestBlurBackendsKeepEdgeColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 0, 0, 255})
		}
	}
	src, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	for _, name := range []string{"gaussian", "imaging"} {
		b, err := NewBlurBackend(name)
		if err != nil {
			t.Fatalf("NewBlurBackend(%q): %v", name, err)
		}
		res := apply(t, quietEngine(WithBlurBackend(b)), src, Blur{Radius: 4})
		for _, x := range []int{10, 12} {
			c := res.Image.At(x, 2)
			if c.A == 0 || c.A == 255 {
				t.Fatalf("%s: x=%d alpha = %d; want a partial edge", name, x, c.A)
			}
			if c.R != 255 || c.G != 0 || c.B != 0 {
				t.Fatalf("%s: x=%d color = %v; want pure red", name, x, c)
			}
		}
	}
}

func TestSharpenEdgeOption(t *testing.T) {
	src := patterned(t, 4, 4)
	pass := apply(t, quietEngine(), src, Sharpen{Amount: 80})
	clamp := apply(t, quietEngine(WithSharpenEdge(stdimg.EdgeClamp)), src, Sharpen{Amount: 80})
	if pass.Image.At(0, 0) != src.At(0, 0) {
		t.Fatalf("default engine should pass the border through")
	}
	if clamp.Image.At(0, 0) == src.At(0, 0) {
		t.Fatalf("clamp engine should filter the border")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 4, 4)
	before := src.Pixels()
	for _, op := range []Operation{Invert{}, Sharpen{Amount: 50}, Blur{Radius: 3}, Hue{Degrees: 90}, Pixelate{Amount: 2}, Vignette{Amount: 50}, Rotate{Degrees: 33}} {
		apply(t, e, src, op)
	}
	after := src.Pixels()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input buffer was modified at byte %d", i)
		}
	}
}

func TestNoiseReductionRadius(t *testing.T) {
	cases := map[float64]float64{0: 0.5, 5: 0.5, 50: 2.5, 100: 5, 1000: 5}
	for in, want := range cases {
		if got := NoiseReductionRadius(in); got != want {
			t.Fatalf("NoiseReductionRadius(%v) = %v; want %v", in, got, want)
		}
	}
}

func TestMetricsRecorded(t *testing.T) {
	e := quietEngine()
	src := patterned(t, 2, 2)

	okBefore := testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("sepia", "ok"))
	unsBefore := testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("unknown", "unsupported"))

	apply(t, e, src, Sepia{})
	_, _ = e.Apply(context.Background(), src, Unknown{Token: "zap"})

	if got := testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("sepia", "ok")); got != okBefore+1 {
		t.Fatalf("sepia ok counter = %v; want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("unknown", "unsupported")); got != unsBefore+1 {
		t.Fatalf("unsupported counter = %v; want %v", got, unsBefore+1)
	}

	m := &dto.Metric{}
	if err := metrics.OperationDuration.WithLabelValues("sepia").(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("reading histogram: %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Fatalf("duration histogram has no samples")
	}
}
