package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/image/webp"

	"formatflip/pkg/raster"
)

func testImage() *image.NRGBA {
	img := raster.NewSolid(40, 30, color.NRGBA{200, 50, 50, 255})
	for x := 10; x < 30; x++ {
		for y := 10; y < 20; y++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = 20
			img.Pix[i+1] = 120
			img.Pix[i+2] = 220
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"png":   FormatPNG,
		"jpg":   FormatJPEG,
		"JPEG":  FormatJPEG,
		".tif":  FormatTIFF,
		"webp":  FormatWEBP,
		" ico ": FormatICO,
		"pdf":   FormatPDF,
	}
	for tag, want := range cases {
		got, err := ParseFormat(tag)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v; want %v", tag, got, err, want)
		}
	}
	if _, err := ParseFormat("xcf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if ParseFormatDefault("xcf") != FormatPNG {
		t.Fatalf("default fallback should be PNG")
	}
}

func TestEncodeDecodableFormats(t *testing.T) {
	src := testImage()
	for _, f := range []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF} {
		data, err := Encode(src, f, 0.9)
		if err != nil {
			t.Fatalf("encode %s failed: %v", f, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode %s output failed: %v", f, err)
		}
		b := img.Bounds()
		if b.Dx() != 40 || b.Dy() != 30 {
			t.Fatalf("%s: dimensions %dx%d, want 40x30", f, b.Dx(), b.Dy())
		}
	}
}

func TestEncodeWEBPRoundTrip(t *testing.T) {
	data, err := Encode(testImage(), FormatWEBP, 1)
	if err != nil {
		t.Fatalf("encode webp failed: %v", err)
	}
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode webp output failed: %v", err)
	}
	if img.Bounds().Dx() != 40 {
		t.Fatalf("webp width %d, want 40", img.Bounds().Dx())
	}
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	if _, err := Encode(testImage(), Format("xcf"), 1); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestEncodeICOContainer(t *testing.T) {
	data, err := EncodeICO(testImage(), nil)
	if err != nil {
		t.Fatalf("encode ico failed: %v", err)
	}
	// ICONDIR: reserved=0, type=1, count=len(IconSizes)
	if data[0] != 0 || data[1] != 0 || data[2] != 1 || data[3] != 0 {
		t.Fatalf("bad ICONDIR header: % x", data[:6])
	}
	if int(data[4]) != len(IconSizes) {
		t.Fatalf("entry count %d, want %d", data[4], len(IconSizes))
	}
	// first entry's payload starts right after the directory and must be PNG
	firstOffset := 6 + 16*len(IconSizes)
	sig := []byte("\x89PNG\r\n\x1a\n")
	if !bytes.Equal(data[firstOffset:firstOffset+8], sig) {
		t.Fatalf("first icon payload is not PNG")
	}
	// single-size variant
	one, err := EncodeICO(testImage(), []int{32})
	if err != nil {
		t.Fatalf("single-size ico failed: %v", err)
	}
	if one[4] != 1 || one[6] != 32 || one[7] != 32 {
		t.Fatalf("single 32px entry malformed: % x", one[:22])
	}
}

func TestEncodeICOInvalidSize(t *testing.T) {
	if _, err := EncodeICO(testImage(), []int{0}); err == nil {
		t.Fatalf("expected error for size 0")
	}
	if _, err := EncodeICO(testImage(), []int{512}); err == nil {
		t.Fatalf("expected error for size over 256")
	}
}

func TestEncodePDFStructure(t *testing.T) {
	// wider than tall: the page box must come out landscape
	img := raster.NewSolid(100, 60, color.NRGBA{255, 255, 255, 255})
	data, err := EncodePDF(img, 0.95)
	if err != nil {
		t.Fatalf("encode pdf failed: %v", err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "%PDF-1.4") {
		t.Fatalf("missing PDF header")
	}
	if !strings.Contains(s, "/MediaBox [0 0 100 60]") {
		t.Fatalf("page box not sized to pixel dimensions")
	}
	if !strings.Contains(s, "/Filter /DCTDecode") {
		t.Fatalf("bitmap not embedded as JPEG")
	}
	if !strings.Contains(s, "startxref") || !strings.HasSuffix(strings.TrimSpace(s), "%%EOF") {
		t.Fatalf("missing xref trailer")
	}
}

func TestConvertAllContinuesPastFailures(t *testing.T) {
	items := []Item{
		{Name: "good", Image: testImage()},
		{Name: "broken", Image: nil},
		{Name: "also-good", Image: testImage()},
	}
	results := ConvertAll(items, FormatPNG, 1)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("healthy items should succeed: %v %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Fatalf("nil image should fail")
	}
	var encErr *EncodeError
	if !errors.As(results[1].Err, &encErr) {
		t.Fatalf("failure should be an EncodeError, got %T", results[1].Err)
	}
	if results[1].OutputName != "broken.png" {
		t.Fatalf("failed result should keep its output name, got %q", results[1].OutputName)
	}
}

func TestBuildArchive(t *testing.T) {
	items := []Item{
		{Name: "a", Image: testImage()},
		{Name: "b", Image: testImage()},
	}
	results := ConvertAll(items, FormatJPEG, 0.8)
	data, err := BuildArchive(results)
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading archive back failed: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(zr.File))
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["a.jpg"] || !names["b.jpg"] {
		t.Fatalf("unexpected entry names: %v", names)
	}
}

func TestBuildArchiveAllFailed(t *testing.T) {
	results := ConvertAll([]Item{{Name: "x", Image: nil}}, FormatPNG, 1)
	if _, err := BuildArchive(results); err == nil {
		t.Fatalf("expected error when nothing could be archived")
	}
}
