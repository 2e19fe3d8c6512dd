package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encode produces an encoded blob for img in the given format. quality is a
// fraction in [0,1] and applies only to lossy formats (see Format.Lossy);
// it is ignored elsewhere. Unknown formats fail with ErrUnsupportedFormat.
func Encode(img *image.NRGBA, f Format, quality float64) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode %s: nil image", f)
	}
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		// JPEG has no alpha channel; flatten transparency onto white so a
		// removed background exports as white, not garbage
		err = jpeg.Encode(&buf, flattenOnWhite(img), &jpeg.Options{Quality: jpegQuality(quality)})
	case FormatWEBP:
		err = nativewebp.Encode(&buf, img, nil)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatICO:
		return EncodeICO(img, nil)
	case FormatPDF:
		return EncodePDF(img, quality)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// jpegQuality maps a [0,1] fraction to the stdlib's 1-100 scale.
func jpegQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}

// flattenOnWhite composites img over an opaque white canvas.
func flattenOnWhite(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
