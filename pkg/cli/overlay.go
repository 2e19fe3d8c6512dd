package cli

import (
	"image"

	"github.com/fogleman/gg"

	"formatflip/pkg/raster"
)

// RenderCropOverlay draws img with everything outside region dimmed and the
// region outlined, so the user can judge a crop before committing it.
func RenderCropOverlay(img *image.NRGBA, region raster.CropRegion) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	dc := gg.NewContext(w, h)
	dc.DrawImage(img, 0, 0)

	rx := float64(region.X)
	ry := float64(region.Y)
	rw := float64(region.Width)
	rh := float64(region.Height)

	// Dim the four bands around the crop region.
	dc.SetRGBA(0, 0, 0, 0.55)
	dc.DrawRectangle(0, 0, float64(w), ry)
	dc.Fill()
	dc.DrawRectangle(0, ry+rh, float64(w), float64(h)-ry-rh)
	dc.Fill()
	dc.DrawRectangle(0, ry, rx, rh)
	dc.Fill()
	dc.DrawRectangle(rx+rw, ry, float64(w)-rx-rw, rh)
	dc.Fill()

	// Stroke the region boundary.
	dc.SetRGBA(1, 1, 1, 0.9)
	dc.SetLineWidth(2.0)
	dc.DrawRectangle(rx, ry, rw, rh)
	dc.Stroke()

	return raster.ToNRGBA(dc.Image())
}
