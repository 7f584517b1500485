// Package texture holds raw pixel storage for a single texture face.
//
// A Surface is one mip level (optionally with depth slices) stored as a single
// contiguous byte buffer. A Texture is a base Surface plus its mip chain,
// ordered from largest to smallest. Both types own their buffers: every
// constructor, Create call and Clone copies, so in-place operations such as
// vertical or horizontal flips never leak across instances.
package texture

import "bytes"

// Surface is a single mip level of one face or volume.
type Surface struct {
	width  int
	height int
	depth  int
	pixels []byte
}

// NewSurface returns a surface holding a copy of pixels.
func NewSurface(width, height, depth int, pixels []byte) *Surface {
	s := &Surface{}
	s.Create(width, height, depth, pixels)
	return s
}

// Create replaces the surface state with the given dimensions and a fresh
// copy of pixels. A depth below 1 is stored as 1.
func (s *Surface) Create(width, height, depth int, pixels []byte) {
	if depth < 1 {
		depth = 1
	}
	s.width = width
	s.height = height
	s.depth = depth
	s.pixels = bytes.Clone(pixels)
	if s.pixels == nil {
		s.pixels = []byte{}
	}
}

// Clear releases the pixel buffer and zeroes the dimensions.
func (s *Surface) Clear() {
	s.width, s.height, s.depth = 0, 0, 0
	s.pixels = nil
}

// Clone returns a deep copy of the surface.
func (s *Surface) Clone() *Surface {
	c := *s
	c.pixels = bytes.Clone(s.pixels)
	return &c
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }
func (s *Surface) Depth() int  { return s.depth }

// Size returns the length of the pixel buffer in bytes.
func (s *Surface) Size() int { return len(s.pixels) }

// Pixels returns the surface buffer. Callers may modify it in place.
func (s *Surface) Pixels() []byte { return s.pixels }

// Equal reports whether both surfaces have the same dimensions and bytes.
func (s *Surface) Equal(o *Surface) bool {
	return s.width == o.width && s.height == o.height && s.depth == o.depth &&
		bytes.Equal(s.pixels, o.pixels)
}

// flipX mirrors every row of 32-bit texels horizontally.
func (s *Surface) flipX() {
	const texel = 4
	rowBytes := s.width * texel
	if rowBytes == 0 {
		return
	}
	rows := len(s.pixels) / rowBytes
	for r := 0; r < rows; r++ {
		row := s.pixels[r*rowBytes : (r+1)*rowBytes]
		for x := 0; x < s.width/2; x++ {
			a := row[x*texel : x*texel+texel]
			b := row[(s.width-1-x)*texel : (s.width-x)*texel]
			for i := 0; i < texel; i++ {
				a[i], b[i] = b[i], a[i]
			}
		}
	}
}
