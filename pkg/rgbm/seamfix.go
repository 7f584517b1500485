package rgbm

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidSize is returned for cubemaps whose size is not a power of two
// or whose mip chain is incomplete.
var ErrInvalidSize = errors.New("rgbm: invalid cubemap size")

// Source is a linear HDR cubemap with a full mip chain.
type Source interface {
	// Size returns the edge length of mip 0.
	Size() int
	// NumMips returns the number of mip levels available.
	NumMips() int
	// Face returns the row-major texels of one face at one mip level.
	Face(mip, face int) []LinearColor
}

// Cubemap is an RGBM-encoded cubemap mip chain.
type Cubemap struct {
	size int
	mips [][NumFaces][]Color
}

// Size returns the edge length of mip 0.
func (c *Cubemap) Size() int { return c.size }

// NumMips returns the number of mip levels, down to 1x1.
func (c *Cubemap) NumMips() int { return len(c.mips) }

// MipSize returns the edge length of a mip level.
func (c *Cubemap) MipSize(mip int) int { return max(1, c.size>>mip) }

// Face returns the encoded texels of one face at one mip level.
func (c *Cubemap) Face(mip, face int) []Color { return c.mips[mip][face] }

// FaceBGRA returns a face packed as B, G, R, A bytes per texel.
func (c *Cubemap) FaceBGRA(mip, face int) []byte {
	texels := c.mips[mip][face]
	out := make([]byte, 4*len(texels))
	for i, t := range texels {
		out[4*i+0] = t.B
		out[4*i+1] = t.G
		out[4*i+2] = t.R
		out[4*i+3] = t.A
	}
	return out
}

// NumMipsFor returns the mip count of a full chain for a power-of-two size.
func NumMipsFor(size int) int {
	return bits.Len(uint(size))
}

// EncodeCubemap encodes every mip of src to RGBM. Texels shared between
// faces (the outer ring of each face) are averaged across the faces that
// meet there and encoded once, so adjacent faces agree exactly along their
// seams.
func EncodeCubemap(src Source) (*Cubemap, error) {
	size := src.Size()
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d is not a power of two", ErrInvalidSize, size)
	}
	numMips := NumMipsFor(size)
	if src.NumMips() < numMips {
		return nil, fmt.Errorf("%w: size %d needs %d mips, source has %d", ErrInvalidSize, size, numMips, src.NumMips())
	}

	out := &Cubemap{size: size, mips: make([][NumFaces][]Color, numMips)}
	for mip := 0; mip < numMips; mip++ {
		mipSize := size >> mip

		var faces [NumFaces][]LinearColor
		for f := range faces {
			faces[f] = src.Face(mip, f)
			if len(faces[f]) != mipSize*mipSize {
				return nil, fmt.Errorf("%w: mip %d face %d has %d texels, want %d",
					ErrInvalidSize, mip, f, len(faces[f]), mipSize*mipSize)
			}
		}

		out.mips[mip] = encodeMip(faces, mipSize)
	}
	return out, nil
}

func encodeMip(src [NumFaces][]LinearColor, size int) [NumFaces][]Color {
	var dst [NumFaces][]Color
	for f := range dst {
		dst[f] = make([]Color, size*size)
	}

	fixCorners(src, dst, size)
	fixEdges(src, dst, size)

	for f := range dst {
		for y := 1; y < size-1; y++ {
			for x := 1; x < size-1; x++ {
				i := y*size + x
				dst[f][i] = Encode(src[f][i])
			}
		}
	}
	return dst
}

// fixCorners averages the three face texels at each cube corner.
func fixCorners(src [NumFaces][]LinearColor, dst [NumFaces][]Color, size int) {
	texels := cornerTexels(size)

	var sum [numCorners]LinearColor
	for f := 0; f < NumFaces; f++ {
		for c, t := range texels {
			corner := faceCorners[f][c]
			sum[corner] = sum[corner].Add(src[f][t])
		}
	}

	var encoded [numCorners]Color
	for c := range sum {
		encoded[c] = Encode(sum[c].Scale(1.0 / 3))
	}

	for f := 0; f < NumFaces; f++ {
		for c, t := range texels {
			dst[f][t] = encoded[faceCorners[f][c]]
		}
	}
}

// fixEdges averages the two face texels along each cube edge, corners
// excluded.
func fixEdges(src [NumFaces][]LinearColor, dst [NumFaces][]Color, size int) {
	for _, e := range cubeEdges {
		a, b := e[0], e[1]
		startA, stepA := edgeWalk(false, a.edge, size)
		startB, stepB := edgeWalk(reversedPair(a.edge, b.edge), b.edge, size)

		for i := 1; i < size-1; i++ {
			ta := startA + stepA*i
			tb := startB + stepB*i
			avg := src[a.face][ta].Add(src[b.face][tb]).Scale(0.5)
			enc := Encode(avg)
			dst[a.face][ta] = enc
			dst[b.face][tb] = enc
		}
	}
}
