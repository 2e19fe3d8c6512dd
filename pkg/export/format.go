// Package export encodes finished buffers into the output formats the
// converter offers, and bundles multi-file conversions into a zip archive.
package export

import (
	"errors"
	"fmt"
	"strings"
)

// Format is the closed set of export targets. Dispatch is by enum, not by
// raw string tags, so a switch over Format is checkable for exhaustiveness.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWEBP Format = "webp"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatICO  Format = "ico"
	FormatPDF  Format = "pdf"
)

// All lists every supported export format in display order.
var All = []Format{
	FormatPNG, FormatJPEG, FormatWEBP, FormatGIF,
	FormatBMP, FormatTIFF, FormatICO, FormatPDF,
}

// ErrUnsupportedFormat is returned for an unknown format tag.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat maps a user-supplied tag to a Format. Common aliases (jpg,
// jpe, tif) are accepted. Unknown tags fail with ErrUnsupportedFormat.
func ParseFormat(tag string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "."))) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg", "jpe":
		return FormatJPEG, nil
	case "webp":
		return FormatWEBP, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	case "ico":
		return FormatICO, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
}

// ParseFormatDefault is ParseFormat with an explicit PNG fallback for
// callers that opt into a default instead of an error.
func ParseFormatDefault(tag string) Format {
	f, err := ParseFormat(tag)
	if err != nil {
		return FormatPNG
	}
	return f
}

// Ext returns the filename extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// Lossy reports whether the quality fraction affects the encoder. PDF is
// included because its embedded bitmap is JPEG-compressed.
func (f Format) Lossy() bool {
	return f == FormatJPEG || f == FormatPDF
}

// Description returns a one-line summary for format listings.
func (f Format) Description() string {
	switch f {
	case FormatPNG:
		return "Portable Network Graphics, lossless with alpha"
	case FormatJPEG:
		return "JPEG, lossy; quality setting applies"
	case FormatWEBP:
		return "WebP, lossless (quality setting not applicable)"
	case FormatGIF:
		return "GIF, 256-color palette"
	case FormatBMP:
		return "Windows bitmap"
	case FormatTIFF:
		return "TIFF, deflate-compressed"
	case FormatICO:
		return "Windows icon (16/32/48 px sizes)"
	case FormatPDF:
		return "single-page PDF sized to the image"
	}
	return "unknown"
}
