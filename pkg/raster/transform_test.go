package raster

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// gradientImage builds a deterministic non-symmetric test pattern so that
// mirror/rotation mistakes show up as byte differences.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(x * 7)
			img.Pix[i+1] = uint8(y * 13)
			img.Pix[i+2] = uint8((x + y) * 3)
			img.Pix[i+3] = 255
		}
	}
	return img
}

func TestCropScenario(t *testing.T) {
	src := gradientImage(200, 100)
	out, err := Crop(src, CropRegion{X: 50, Y: 25, Width: 100, Height: 50})
	if err != nil {
		t.Fatalf("crop failed: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}
	if pixelAt(out, 0, 0) != pixelAt(src, 50, 25) {
		t.Fatalf("result (0,0) != source (50,25)")
	}
	if pixelAt(out, 99, 49) != pixelAt(src, 149, 74) {
		t.Fatalf("result (99,49) != source (149,74)")
	}
}

func TestCropFullBoundsIsNoop(t *testing.T) {
	src := gradientImage(30, 20)
	first, err := Crop(src, CropRegion{X: 5, Y: 5, Width: 20, Height: 10})
	if err != nil {
		t.Fatalf("crop failed: %v", err)
	}
	second, err := Crop(first, FullRegion(first))
	if err != nil {
		t.Fatalf("full-bounds crop failed: %v", err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatalf("re-cropping to full bounds changed pixel content")
	}
}

func TestCropInvalidRegions(t *testing.T) {
	src := gradientImage(10, 10)
	bad := []CropRegion{
		{X: 0, Y: 0, Width: 0, Height: 5},
		{X: 0, Y: 0, Width: 5, Height: -1},
		{X: -1, Y: 0, Width: 5, Height: 5},
		{X: 6, Y: 0, Width: 5, Height: 5},
		{X: 0, Y: 8, Width: 5, Height: 5},
	}
	for _, r := range bad {
		if _, err := Crop(src, r); err != ErrInvalidRegion {
			t.Fatalf("region %+v: expected ErrInvalidRegion, got %v", r, err)
		}
	}
}

func TestRotate90SwapsDimensions(t *testing.T) {
	src := gradientImage(7, 4)
	out := Rotate(src, 90)
	b := out.Bounds()
	if b.Dx() != 4 || b.Dy() != 7 {
		t.Fatalf("expected 4x7, got %dx%d", b.Dx(), b.Dy())
	}
	// top-left of the source ends up at the top-right after a clockwise turn
	if pixelAt(out, 3, 0) != pixelAt(src, 0, 0) {
		t.Fatalf("clockwise rotation misplaced the origin pixel")
	}
}

func TestRotate90FourTimesIsIdentity(t *testing.T) {
	src := gradientImage(9, 5)
	out := src
	for i := 0; i < 4; i++ {
		out = Rotate(out, 90)
	}
	b := out.Bounds()
	if b.Dx() != 9 || b.Dy() != 5 {
		t.Fatalf("dimensions changed after four rotations: %dx%d", b.Dx(), b.Dy())
	}
	if !bytes.Equal(src.Pix, out.Pix) {
		t.Fatalf("four 90-degree rotations are not the identity")
	}
}

func TestRotate180TwiceIsIdentity(t *testing.T) {
	src := gradientImage(6, 11)
	out := Rotate(Rotate(src, 180), 180)
	if !bytes.Equal(src.Pix, out.Pix) {
		t.Fatalf("two 180-degree rotations are not the identity")
	}
}

func TestRotateNegativeAngle(t *testing.T) {
	src := gradientImage(5, 8)
	if !bytes.Equal(Rotate(src, -90).Pix, Rotate(src, 270).Pix) {
		t.Fatalf("-90 and 270 disagree")
	}
}

func TestRotateArbitraryCornersTransparent(t *testing.T) {
	src := NewSolid(20, 20, color.NRGBA{255, 0, 0, 255})
	out := Rotate(src, 45)
	b := out.Bounds()
	if b.Dx() <= 20 || b.Dy() <= 20 {
		t.Fatalf("45-degree canvas should be larger than the source, got %dx%d", b.Dx(), b.Dy())
	}
	if pixelAt(out, 0, 0).A != 0 {
		t.Fatalf("corner outside the rotated source is not transparent")
	}
	cx, cy := b.Dx()/2, b.Dy()/2
	if pixelAt(out, cx, cy).A != 255 {
		t.Fatalf("center of rotated image should remain opaque")
	}
}

func TestFlipTwiceIsIdentity(t *testing.T) {
	src := gradientImage(13, 7)
	if !bytes.Equal(FlipHorizontal(FlipHorizontal(src)).Pix, src.Pix) {
		t.Fatalf("double horizontal flip is not the identity")
	}
	if !bytes.Equal(FlipVertical(FlipVertical(src)).Pix, src.Pix) {
		t.Fatalf("double vertical flip is not the identity")
	}
}

func TestFlipMirrorsPixels(t *testing.T) {
	src := gradientImage(4, 3)
	h := FlipHorizontal(src)
	if pixelAt(h, 0, 0) != pixelAt(src, 3, 0) {
		t.Fatalf("horizontal flip did not mirror columns")
	}
	v := FlipVertical(src)
	if pixelAt(v, 0, 0) != pixelAt(src, 0, 2) {
		t.Fatalf("vertical flip did not mirror rows")
	}
}

func TestResizeExactDimensions(t *testing.T) {
	src := gradientImage(300, 200)
	out, err := Resize(src, 150, 100)
	if err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 150 || b.Dy() != 100 {
		t.Fatalf("expected 150x100, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestResizeInvalidDimensions(t *testing.T) {
	src := gradientImage(10, 10)
	if _, err := Resize(src, 0, 50); err != ErrInvalidDimensions {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
	if _, err := Resize(src, 50, -3); err != ErrInvalidDimensions {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestResizeSolidColorStaysSolid(t *testing.T) {
	c := color.NRGBA{40, 90, 160, 255}
	src := NewSolid(64, 64, c)
	out, err := Resize(src, 16, 16)
	if err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -1 && d <= 1
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			got := pixelAt(out, x, y)
			if !near(got.R, c.R) || !near(got.G, c.G) || !near(got.B, c.B) || got.A != 255 {
				t.Fatalf("solid color drifted at %d,%d: %v", x, y, got)
			}
		}
	}
}

func TestFitHeight(t *testing.T) {
	if got := FitHeight(300, 200, 150); got != 100 {
		t.Fatalf("FitHeight(300,200,150) = %d, want 100", got)
	}
	if got := FitHeight(1000, 1, 10); got != 1 {
		t.Fatalf("FitHeight floor should be 1, got %d", got)
	}
}
