package raster

import (
	"image"
	"image/draw"
	"math"
)

// CropRegion is a rectangle in source-buffer pixel coordinates, top-left
// origin. It exists only while a crop is being positioned; Crop consumes it.
type CropRegion struct {
	X, Y          int
	Width, Height int
}

// Crop returns a new Width x Height buffer containing exactly the source
// pixels inside r. The region must lie fully inside src and have positive
// dimensions; anything else is ErrInvalidRegion and src stays untouched.
func Crop(src *image.NRGBA, r CropRegion) (*image.NRGBA, error) {
	b := src.Bounds()
	if r.Width <= 0 || r.Height <= 0 {
		return nil, ErrInvalidRegion
	}
	if r.X < 0 || r.Y < 0 || r.X+r.Width > b.Dx() || r.Y+r.Height > b.Dy() {
		return nil, ErrInvalidRegion
	}
	out := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(out, out.Bounds(), src, image.Pt(b.Min.X+r.X, b.Min.Y+r.Y), draw.Src)
	return out, nil
}

// FullRegion returns the CropRegion covering all of src.
func FullRegion(src *image.NRGBA) CropRegion {
	b := src.Bounds()
	return CropRegion{X: 0, Y: 0, Width: b.Dx(), Height: b.Dy()}
}

// Rotate rotates src by degrees (positive = clockwise) about the buffer
// center and returns a buffer sized to the rotated bounding box. Multiples
// of 90 take an exact per-pixel path and are lossless; for ±90 the output
// dimensions are the input's swapped. Other angles resample with bilinear
// interpolation, and the corner areas the source does not cover come out
// fully transparent.
func Rotate(src *image.NRGBA, degrees float64) *image.NRGBA {
	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}
	switch deg {
	case 0:
		return Clone(src)
	case 90:
		return rotate90(src)
	case 180:
		return rotate180(src)
	case 270:
		return rotate270(src)
	}
	return rotateArbitrary(src, deg)
}

func rotate90(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			srcIdx := src.PixOffset(b.Min.X+y, b.Min.Y+h-1-x)
			dstIdx := out.PixOffset(x, y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

func rotate180(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(b.Min.X+w-1-x, b.Min.Y+h-1-y)
			dstIdx := out.PixOffset(x, y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

func rotate270(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			srcIdx := src.PixOffset(b.Min.X+w-1-y, b.Min.Y+x)
			dstIdx := out.PixOffset(x, y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

// rotateArbitrary maps each destination pixel back into the source with the
// inverse rotation and samples bilinearly. Taps outside the source rectangle
// contribute transparent black, which anti-aliases the cut edges.
func rotateArbitrary(src *image.NRGBA, degrees float64) *image.NRGBA {
	rad := degrees * (math.Pi / 180.0)
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	b := src.Bounds()
	w0 := b.Dx()
	h0 := b.Dy()
	cx := float64(w0) / 2.0
	cy := float64(h0) / 2.0

	// rotate the four corners to find the destination bounding box
	corners := [4][2]float64{
		{0 - cx, 0 - cy},
		{float64(w0) - cx, 0 - cy},
		{float64(w0) - cx, float64(h0) - cy},
		{0 - cx, float64(h0) - cy},
	}
	var xs, ys [4]float64
	for i := 0; i < 4; i++ {
		xs[i] = corners[i][0]*cos - corners[i][1]*sin
		ys[i] = corners[i][0]*sin + corners[i][1]*cos
	}
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}
	newW := int(math.Ceil(maxX - minX))
	newH := int(math.Ceil(maxY - minY))

	out := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	for y := 0; y < newH; y++ {
		for x := 0; x < newW; x++ {
			xRel := float64(x) + minX
			yRel := float64(y) + minY
			sx := xRel*cos + yRel*sin + cx
			sy := -xRel*sin + yRel*cos + cy
			rf, gf, bf, af := sampleBilinearBorder(src, sx, sy)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = uint8(clampFloatToUint8(rf))
			out.Pix[i+1] = uint8(clampFloatToUint8(gf))
			out.Pix[i+2] = uint8(clampFloatToUint8(bf))
			out.Pix[i+3] = uint8(clampFloatToUint8(af))
		}
	}
	return out
}

// Axis selects a mirror direction for Flip.
type Axis int

const (
	// Horizontal mirrors columns (left-right).
	Horizontal Axis = iota
	// Vertical mirrors rows (top-bottom).
	Vertical
)

// Flip mirrors src along the given axis; dimensions are unchanged.
func Flip(src *image.NRGBA, axis Axis) *image.NRGBA {
	if axis == Vertical {
		return FlipVertical(src)
	}
	return FlipHorizontal(src)
}

// FlipHorizontal mirrors columns; dimensions are unchanged.
func FlipHorizontal(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			dstIdx := out.PixOffset(w-1-x, y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

// FlipVertical mirrors rows; dimensions are unchanged.
func FlipVertical(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			dstIdx := out.PixOffset(x, h-1-y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

// Resize resamples src to exactly w x h with Lanczos (a=3). It does not
// preserve aspect ratio; callers that want a lock compute the height first
// (see FitHeight). Non-positive dimensions are ErrInvalidDimensions.
func Resize(src *image.NRGBA, w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}
	return resampleLanczos(src, w, h, 3.0), nil
}

// FitHeight returns the height that preserves srcW:srcH at the new width,
// never less than 1.
func FitHeight(srcW, srcH, newW int) int {
	if srcW <= 0 {
		return srcH
	}
	h := int(math.Round(float64(newW) * float64(srcH) / float64(srcW)))
	if h < 1 {
		h = 1
	}
	return h
}
