package raster

import (
	"image"
	"image/color"
)

// DefaultTolerance is the UI default for background removal.
const DefaultTolerance = 50

// MaxTolerance bounds the tolerance slider. The membership test compares the
// Manhattan RGB distance against tolerance*3, so 100 covers distances up to
// 300 of a possible 765.
const MaxTolerance = 100

// regionMask is a 1-bit-per-pixel visited mask. Using a bitset keeps the
// bookkeeping for large buffers to w*h/8 bytes.
type regionMask struct {
	bits []byte
	w    int
}

func newRegionMask(w, h int) *regionMask {
	return &regionMask{bits: make([]byte, (w*h+7)/8), w: w}
}

func (m *regionMask) get(x, y int) bool {
	i := y*m.w + x
	return (m.bits[i>>3]>>(uint(i)&7))&1 == 1
}

func (m *regionMask) set(x, y int) {
	i := y*m.w + x
	m.bits[i>>3] |= 1 << (uint(i) & 7)
}

// manhattanRGB returns |dR|+|dG|+|dB| between two samples. Alpha is
// deliberately excluded: a pixel this pass already made transparent still
// matches its original color, which keeps repeated fills stable.
func manhattanRGB(a, b color.NRGBA) int {
	d := 0
	if a.R > b.R {
		d += int(a.R) - int(b.R)
	} else {
		d += int(b.R) - int(a.R)
	}
	if a.G > b.G {
		d += int(a.G) - int(b.G)
	} else {
		d += int(b.G) - int(a.G)
	}
	if a.B > b.B {
		d += int(a.B) - int(b.B)
	} else {
		d += int(b.B) - int(a.B)
	}
	return d
}

// RemoveBackground computes the 4-connected region of pixels whose color is
// within tolerance of the sample at (seedX, seedY) and returns a copy of src
// with that region's alpha forced to 0. RGB channels are left untouched so a
// later alpha restore would recover the original color.
//
// tolerance is an integer in [0, MaxTolerance]; the region test accepts a
// pixel when its Manhattan RGB distance to the seed color is <= tolerance*3.
// A seed outside the buffer returns ErrOutOfBounds and src is not copied.
func RemoveBackground(src *image.NRGBA, seedX, seedY, tolerance int) (*image.NRGBA, error) {
	b := src.Bounds()
	if seedX < b.Min.X || seedX >= b.Max.X || seedY < b.Min.Y || seedY >= b.Max.Y {
		return nil, ErrOutOfBounds
	}
	tolerance = clampInt(tolerance, 0, MaxTolerance)

	mask := newRegionMask(b.Dx(), b.Dy())
	selectRegion(src, mask, seedX, seedY, tolerance)

	out := Clone(src)
	clearAlpha(out, mask)
	return out, nil
}

// RemoveWhiteBackground flood-fills from each of the four corners against a
// pure-white target and clears the union of those regions. Every fill uses
// the same target, so the shared mask is exactly the set of white-ish pixels
// 4-connected to a corner: a pixel claimed by one corner's fill never cuts
// off another corner's region. A corner that is not itself within tolerance
// of white seeds nothing, so an image with no white border comes back
// unchanged.
func RemoveWhiteBackground(src *image.NRGBA, tolerance int) *image.NRGBA {
	b := src.Bounds()
	tolerance = clampInt(tolerance, 0, MaxTolerance)
	white := color.NRGBA{255, 255, 255, 255}

	mask := newRegionMask(b.Dx(), b.Dy())
	corners := [4][2]int{
		{b.Min.X, b.Min.Y},
		{b.Max.X - 1, b.Min.Y},
		{b.Min.X, b.Max.Y - 1},
		{b.Max.X - 1, b.Max.Y - 1},
	}
	for _, c := range corners {
		fillRegion(src, mask, c[0], c[1], white, tolerance)
	}

	out := Clone(src)
	clearAlpha(out, mask)
	return out
}

// selectRegion marks the 4-connected region reachable from (x, y) in mask,
// using the sample at (x, y) as the membership target.
func selectRegion(src *image.NRGBA, mask *regionMask, x, y, tolerance int) {
	fillRegion(src, mask, x, y, samplePixelClamped(src, x, y), tolerance)
}

// fillRegion marks the 4-connected region of pixels within tolerance of
// target that is reachable from (x, y). It is a scanline span fill: each
// popped seed expands to a full horizontal run, and the rows above and below
// the run are scanned for new seeds. Every qualifying pixel is visited
// exactly once per mask, so repeated fills against the same target and mask
// are cumulative.
func fillRegion(src *image.NRGBA, mask *regionMask, x, y int, target color.NRGBA, tolerance int) {
	b := src.Bounds()
	limit := tolerance * 3

	matches := func(px, py int) bool {
		i := src.PixOffset(px, py)
		c := color.NRGBA{src.Pix[i+0], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]}
		return manhattanRGB(c, target) <= limit
	}
	mx := func(px int) int { return px - b.Min.X }
	my := func(py int) int { return py - b.Min.Y }

	type seed struct{ x, y int }
	stack := make([]seed, 0, 1024)
	stack = append(stack, seed{x: x, y: y})

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if mask.get(mx(s.x), my(s.y)) {
			continue
		}
		if !matches(s.x, s.y) {
			continue
		}
		// expand the run to the left and right
		xl := s.x
		for xl-1 >= b.Min.X && !mask.get(mx(xl-1), my(s.y)) && matches(xl-1, s.y) {
			xl--
		}
		xr := s.x
		for xr+1 < b.Max.X && !mask.get(mx(xr+1), my(s.y)) && matches(xr+1, s.y) {
			xr++
		}
		for xi := xl; xi <= xr; xi++ {
			mask.set(mx(xi), my(s.y))
		}
		// scan the rows above and below for new seeds; 4-connectivity means
		// only the columns of the run itself are neighbors
		for adjY := s.y - 1; adjY <= s.y+1; adjY += 2 {
			if adjY < b.Min.Y || adjY >= b.Max.Y {
				continue
			}
			xi := xl
			for xi <= xr {
				if mask.get(mx(xi), my(adjY)) || !matches(xi, adjY) {
					xi++
					continue
				}
				stack = append(stack, seed{x: xi, y: adjY})
				// skip the rest of this contiguous run; the span expansion
				// from the pushed seed will cover it
				for xi <= xr && !mask.get(mx(xi), my(adjY)) && matches(xi, adjY) {
					xi++
				}
			}
		}
	}
}

// clearAlpha zeroes the alpha channel wherever mask is set.
func clearAlpha(img *image.NRGBA, mask *regionMask) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.get(x-b.Min.X, y-b.Min.Y) {
				img.Pix[img.PixOffset(x, y)+3] = 0
			}
		}
	}
}
