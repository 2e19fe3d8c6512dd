package session

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"formatflip/pkg/raster"
)

// DecodeError reports a file that could not enter the working set. It is
// per-file: the rest of a multi-file add continues.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// sniffFormat identifies a raster payload from its magic bytes, the way the
// input filter works: anything recognizably an image is accepted regardless
// of its extension.
func sniffFormat(data []byte) string {
	switch {
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "gif"
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return "bmp"
	case len(data) >= 4 && (bytes.Equal(data[:4], []byte("II*\x00")) || bytes.Equal(data[:4], []byte("MM\x00*"))):
		return "tiff"
	}
	return ""
}

// isHEIC matches by extension; HEIF containers share the ISO BMFF "ftyp"
// box with other formats, and the capability decoder does its own checking.
func isHEIC(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".heic" || ext == ".heif"
}

// displayName strips the directory and extension, matching how converted
// outputs are named (<basename>.<format>).
func displayName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// decodeEntry turns one accepted input into a FileEntry. HEIC sources are
// first converted to JPEG by the registered capability; everything else is
// decoded directly, honoring EXIF orientation.
func (s *Session) decodeEntry(name string, data []byte) (*FileEntry, error) {
	src := data
	if isHEIC(name) {
		jpg, err := s.decodeHEIC(name, data)
		if err != nil {
			return nil, err
		}
		src = jpg
	} else if sniffFormat(data) == "" {
		return nil, &DecodeError{Name: name, Err: fmt.Errorf("not a recognized image")}
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Name: name, Err: err}
	}
	return &FileEntry{
		Name:   displayName(name),
		Source: data,
		Image:  raster.ToNRGBA(img),
	}, nil
}
