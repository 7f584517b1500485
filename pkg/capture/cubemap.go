package capture

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/x448/float16"

	"github.com/EchoTools/probetools/pkg/rgbm"
)

const (
	numFaces = 6

	// texelSize is the byte size of one float16 RGBA texel.
	texelSize = 8
)

// Cubemap is a float16 RGBA cubemap with a full mip chain. It implements
// rgbm.Source.
type Cubemap struct {
	size   int
	texels []float16.Float16 // 4 per texel
}

// NewCubemap allocates a black cubemap of the given power-of-two size, at
// most MaxCubemapSize.
func NewCubemap(size int) (*Cubemap, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	return &Cubemap{
		size:   size,
		texels: make([]float16.Float16, dataSize(size, numMips(size))/2),
	}, nil
}

func checkSize(size int) error {
	if size <= 0 || size&(size-1) != 0 {
		return fmt.Errorf("%w: %d is not a power of two", rgbm.ErrInvalidSize, size)
	}
	if size > MaxCubemapSize {
		return fmt.Errorf("%w: %d exceeds %d", rgbm.ErrInvalidSize, size, MaxCubemapSize)
	}
	return nil
}

func numMips(size int) int {
	return bits.Len(uint(size))
}

// dataSize returns the uncompressed byte size of a cubemap.
func dataSize(size, mips int) int {
	n := 0
	for mip := 0; mip < mips; mip++ {
		s := max(1, size>>mip)
		n += numFaces * s * s * texelSize
	}
	return n
}

func (c *Cubemap) Size() int    { return c.size }
func (c *Cubemap) NumMips() int { return numMips(c.size) }

// offset returns the index of the first component of texel (x, y).
func (c *Cubemap) offset(mip, face, x, y int) int {
	base := 0
	for m := 0; m < mip; m++ {
		s := c.size >> m
		base += numFaces * s * s
	}
	s := c.size >> mip
	return 4 * (base + face*s*s + y*s + x)
}

// Texel returns texel (x, y) of a face at a mip level.
func (c *Cubemap) Texel(mip, face, x, y int) rgbm.LinearColor {
	i := c.offset(mip, face, x, y)
	return rgbm.LinearColor{
		R: c.texels[i].Float32(),
		G: c.texels[i+1].Float32(),
		B: c.texels[i+2].Float32(),
		A: c.texels[i+3].Float32(),
	}
}

// SetTexel stores texel (x, y) of a face at a mip level, rounding to float16.
func (c *Cubemap) SetTexel(mip, face, x, y int, v rgbm.LinearColor) {
	i := c.offset(mip, face, x, y)
	c.texels[i] = float16.Fromfloat32(v.R)
	c.texels[i+1] = float16.Fromfloat32(v.G)
	c.texels[i+2] = float16.Fromfloat32(v.B)
	c.texels[i+3] = float16.Fromfloat32(v.A)
}

// Fill sets every texel of a face at a mip level to v.
func (c *Cubemap) Fill(mip, face int, v rgbm.LinearColor) {
	s := c.size >> mip
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			c.SetTexel(mip, face, x, y, v)
		}
	}
}

// Face returns the linear texels of one face at one mip level.
func (c *Cubemap) Face(mip, face int) []rgbm.LinearColor {
	s := c.size >> mip
	out := make([]rgbm.LinearColor, s*s)
	start := c.offset(mip, face, 0, 0)
	for i := range out {
		p := c.texels[start+4*i : start+4*i+4]
		out[i] = rgbm.LinearColor{R: p[0].Float32(), G: p[1].Float32(), B: p[2].Float32(), A: p[3].Float32()}
	}
	return out
}

// MarshalBinary returns the uncompressed little-endian texel data.
func (c *Cubemap) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2*len(c.texels))
	for i, v := range c.texels {
		binary.LittleEndian.PutUint16(buf[2*i:], v.Bits())
	}
	return buf, nil
}

// UnmarshalBinary replaces the texel data with data, which must match the
// cubemap's uncompressed size.
func (c *Cubemap) UnmarshalBinary(data []byte) error {
	if len(data) != 2*len(c.texels) {
		return fmt.Errorf("texel data size: expected %d, got %d", 2*len(c.texels), len(data))
	}
	for i := range c.texels {
		c.texels[i] = float16.Frombits(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return nil
}
