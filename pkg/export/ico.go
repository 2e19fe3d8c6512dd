package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// IconSizes are the square icon resolutions emitted by default.
var IconSizes = []int{16, 32, 48}

// EncodeICO downsamples img to each requested square size and wraps the
// results in an ICO container with PNG-encoded entries (valid since Windows
// Vista). sizes nil or empty means IconSizes. A single size produces a
// single-entry icon.
func EncodeICO(img *image.NRGBA, sizes []int) ([]byte, error) {
	if len(sizes) == 0 {
		sizes = IconSizes
	}
	entries := make([][]byte, 0, len(sizes))
	for _, s := range sizes {
		if s <= 0 || s > 256 {
			return nil, fmt.Errorf("encode ico: invalid icon size %d", s)
		}
		scaled := imaging.Resize(img, s, s, imaging.Lanczos)
		var buf bytes.Buffer
		if err := png.Encode(&buf, scaled); err != nil {
			return nil, fmt.Errorf("encode ico: %w", err)
		}
		entries = append(entries, buf.Bytes())
	}

	var out bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), image count
	binary.Write(&out, binary.LittleEndian, uint16(0))
	binary.Write(&out, binary.LittleEndian, uint16(1))
	binary.Write(&out, binary.LittleEndian, uint16(len(sizes)))

	// directory entries are fixed-size, so payload offsets are computable
	// up front: header (6) + 16 bytes per entry
	offset := 6 + 16*len(sizes)
	for i, s := range sizes {
		dim := uint8(s)
		if s == 256 {
			dim = 0 // 0 encodes 256 in ICONDIRENTRY
		}
		out.WriteByte(dim) // width
		out.WriteByte(dim) // height
		out.WriteByte(0)   // palette size (none)
		out.WriteByte(0)   // reserved
		binary.Write(&out, binary.LittleEndian, uint16(1))  // color planes
		binary.Write(&out, binary.LittleEndian, uint16(32)) // bits per pixel
		binary.Write(&out, binary.LittleEndian, uint32(len(entries[i])))
		binary.Write(&out, binary.LittleEndian, uint32(offset))
		offset += len(entries[i])
	}
	for _, e := range entries {
		out.Write(e)
	}
	return out.Bytes(), nil
}
