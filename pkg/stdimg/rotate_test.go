package stdimg

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 30), uint8(y * 30), uint8(x + y), 255})
		}
	}
	return img
}

func TestQuarterTurns(t *testing.T) {
	cases := []struct {
		deg float64
		q   int
		ok  bool
	}{
		{0, 0, true},
		{90, 1, true},
		{180, 2, true},
		{270, 3, true},
		{360, 0, true},
		{-90, 3, true},
		{450, 1, true},
		{45, 0, false},
		{89.5, 0, false},
	}
	for _, c := range cases {
		q, ok := QuarterTurns(c.deg)
		if ok != c.ok || (ok && q != c.q) {
			t.Fatalf("QuarterTurns(%v) = %d,%v; want %d,%v", c.deg, q, ok, c.q, c.ok)
		}
	}
}

func TestRotate90SwapsDimensions(t *testing.T) {
	src := gradient(4, 2)
	out := Rotate(src, 90)
	if b := out.Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("rotate 90 of 4x2 = %dx%d; want 2x4", b.Dx(), b.Dy())
	}
	// clockwise: top-left ends up top-right
	if out.NRGBAAt(1, 0) != src.NRGBAAt(0, 0) {
		t.Fatalf("top-left pixel not moved to top-right")
	}
	if out.NRGBAAt(0, 3) != src.NRGBAAt(3, 1) {
		t.Fatalf("bottom-right pixel not moved to bottom-left")
	}
}

func TestRotateFourQuarterTurnsIsIdentity(t *testing.T) {
	src := gradient(5, 3)
	out := src
	for i := 0; i < 4; i++ {
		out = Rotate(out, 90)
	}
	if out.Bounds() != src.Bounds() || !bytes.Equal(out.Pix, src.Pix) {
		t.Fatalf("four quarter turns did not restore the image")
	}
}

func TestRotate180And270(t *testing.T) {
	src := gradient(3, 2)
	half := Rotate(src, 180)
	if half.Bounds() != src.Bounds() {
		t.Fatalf("rotate 180 changed bounds to %v", half.Bounds())
	}
	if half.NRGBAAt(0, 0) != src.NRGBAAt(2, 1) {
		t.Fatalf("rotate 180 misplaced pixels")
	}
	ccw := Rotate(src, -90)
	cw3 := Rotate(src, 270)
	if !bytes.Equal(ccw.Pix, cw3.Pix) {
		t.Fatalf("rotate -90 != rotate 270")
	}
	back := Rotate(Rotate(src, 90), -90)
	if !bytes.Equal(back.Pix, src.Pix) {
		t.Fatalf("rotate 90 then -90 did not restore the image")
	}
}

func TestRotateZeroAndFullTurnAreIdentity(t *testing.T) {
	src := gradient(3, 3)
	for _, deg := range []float64{0, 360, -720} {
		out := Rotate(src, deg)
		if !bytes.Equal(out.Pix, src.Pix) {
			t.Fatalf("rotate %v changed the image", deg)
		}
	}
}

func TestRotateArbitraryAngleGrowsCanvas(t *testing.T) {
	src := NewSolidNRGBA(10, 10, color.NRGBA{200, 100, 50, 255})
	out := Rotate(src, 45)
	b := out.Bounds()
	// 10*cos45 + 10*sin45 = 14.14
	if b.Dx() != 15 || b.Dy() != 15 {
		t.Fatalf("rotate 45 of 10x10 = %dx%d; want 15x15", b.Dx(), b.Dy())
	}
	if a := out.NRGBAAt(0, 0).A; a != 0 {
		t.Fatalf("corner should be transparent, alpha = %d", a)
	}
	if c := out.NRGBAAt(7, 7); c != (color.NRGBA{200, 100, 50, 255}) {
		t.Fatalf("center = %v; want source color", c)
	}
}

func TestRotateDoesNotModifySource(t *testing.T) {
	src := gradient(4, 3)
	orig := CloneNRGBA(src)
	Rotate(src, 30)
	Rotate(src, 90)
	if !bytes.Equal(src.Pix, orig.Pix) {
		t.Fatalf("rotate modified its input")
	}
}
