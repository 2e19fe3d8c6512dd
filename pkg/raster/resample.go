package raster

import (
	"image"
	"math"
)

// sampleBilinearBorder samples src at floating coordinates (x,y) with
// bilinear interpolation. Taps outside the image contribute transparent
// black, so edges blend toward transparency instead of smearing.
func sampleBilinearBorder(src *image.NRGBA, x, y float64) (r, g, b, a float64) {
	bx := src.Bounds()
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	xFrac := x - float64(x0)
	yFrac := y - float64(y0)

	tap := func(px, py int) (float64, float64, float64, float64) {
		if px < bx.Min.X || px >= bx.Max.X || py < bx.Min.Y || py >= bx.Max.Y {
			return 0, 0, 0, 0
		}
		i := src.PixOffset(px, py)
		return float64(src.Pix[i+0]), float64(src.Pix[i+1]), float64(src.Pix[i+2]), float64(src.Pix[i+3])
	}

	r00, g00, b00, a00 := tap(x0, y0)
	r10, g10, b10, a10 := tap(x0+1, y0)
	r01, g01, b01, a01 := tap(x0, y0+1)
	r11, g11, b11, a11 := tap(x0+1, y0+1)

	lerp2 := func(v00, v10, v01, v11 float64) float64 {
		top := v00*(1-xFrac) + v10*xFrac
		bot := v01*(1-xFrac) + v11*xFrac
		return top*(1-yFrac) + bot*yFrac
	}
	return lerp2(r00, r10, r01, r11), lerp2(g00, g10, g01, g11),
		lerp2(b00, b10, b01, b11), lerp2(a00, a10, a01, a11)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x = math.Pi * x
	return math.Sin(x) / x
}

// lanczosKernel returns the Lanczos weight at distance x for window a.
func lanczosKernel(x, a float64) float64 {
	x = math.Abs(x)
	if x < 1e-12 {
		return 1
	}
	if x >= a {
		return 0
	}
	return sinc(x) * sinc(x/a)
}

// resampleLanczos resamples src to dstW x dstH using a windowed Lanczos
// kernel. Source taps are clamped at the edges.
func resampleLanczos(src *image.NRGBA, dstW, dstH int, a float64) *image.NRGBA {
	srcB := src.Bounds()
	srcW := srcB.Dx()
	srcH := srcB.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))

	xScale := float64(srcW) / float64(dstW)
	yScale := float64(srcH) / float64(dstH)

	for y := 0; y < dstH; y++ {
		sy := (float64(y)+0.5)*yScale - 0.5
		for x := 0; x < dstW; x++ {
			sx := (float64(x)+0.5)*xScale - 0.5
			sumR, sumG, sumB, sumA := 0.0, 0.0, 0.0, 0.0
			weightSum := 0.0
			xMin := int(math.Floor(sx - a + 1))
			xMax := int(math.Ceil(sx + a - 1))
			yMin := int(math.Floor(sy - a + 1))
			yMax := int(math.Ceil(sy + a - 1))
			for yi := yMin; yi <= yMax; yi++ {
				wy := lanczosKernel(float64(yi)-sy, a)
				if wy == 0 {
					continue
				}
				for xi := xMin; xi <= xMax; xi++ {
					wx := lanczosKernel(float64(xi)-sx, a)
					if wx == 0 {
						continue
					}
					wgt := wx * wy
					c := samplePixelClamped(src, srcB.Min.X+xi, srcB.Min.Y+yi)
					sumR += float64(c.R) * wgt
					sumG += float64(c.G) * wgt
					sumB += float64(c.B) * wgt
					sumA += float64(c.A) * wgt
					weightSum += wgt
				}
			}
			if weightSum == 0 {
				weightSum = 1
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = uint8(clampFloatToUint8(sumR / weightSum))
			dst.Pix[i+1] = uint8(clampFloatToUint8(sumG / weightSum))
			dst.Pix[i+2] = uint8(clampFloatToUint8(sumB / weightSum))
			dst.Pix[i+3] = uint8(clampFloatToUint8(sumA / weightSum))
		}
	}
	return dst
}
