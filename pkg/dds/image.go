// Package dds reads and writes DirectDraw Surface images.
//
// An Image holds one texture (flat or volume) or six (cubemap), each with an
// optional mip chain. Raw 8-bit layouts (RGB, BGR, RGBA, BGRA, luminance) and
// the DXT1/DXT3/DXT5 block formats are supported. Load and Save mirror images
// vertically by default; compressed data is flipped block by block using
// package dxt, so no decompression is involved.
//
// Cubemap faces are kept in the order +X, -X, +Y, -Y, +Z, -Z. On disk the
// +Y and -Y slots are swapped relative to that order; Load and Save both
// apply the swap so that a saved image reloads unchanged.
package dds

import (
	"fmt"

	"github.com/EchoTools/probetools/pkg/texture"
)

// Type tags the layout of an Image.
type Type int

const (
	TypeNone Type = iota
	TypeFlat
	TypeVolume
	TypeCubemap
)

func (t Type) String() string {
	switch t {
	case TypeFlat:
		return "flat"
	case TypeVolume:
		return "volume"
	case TypeCubemap:
		return "cubemap"
	default:
		return "none"
	}
}

// Cubemap face indices.
const (
	FacePositiveX = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
	NumFaces
)

// Image is a DDS texture container.
type Image struct {
	typ        Type
	format     Format
	components int
	textures   []*texture.Texture
	valid      bool
}

// CreateFlat replaces the image with a flat texture holding a copy of base.
func (img *Image) CreateFlat(format Format, components int, base *texture.Texture) {
	img.create(TypeFlat, format, components, base)
}

// CreateVolume replaces the image with a volume texture holding a copy of base.
func (img *Image) CreateVolume(format Format, components int, base *texture.Texture) {
	img.create(TypeVolume, format, components, base)
}

func (img *Image) create(typ Type, format Format, components int, base *texture.Texture) {
	img.Clear()
	img.typ = typ
	img.format = format
	img.components = components
	img.textures = []*texture.Texture{base.Clone()}
	img.valid = true
}

// CreateCubemap replaces the image with a cubemap built from copies of the
// six faces. All faces must share base dimensions and mip count; otherwise
// ErrFaceMismatch is returned and the image is left cleared.
func (img *Image) CreateCubemap(format Format, components int, px, nx, py, ny, pz, nz *texture.Texture) error {
	img.Clear()

	faces := []*texture.Texture{px, nx, py, ny, pz, nz}
	for i, f := range faces[1:] {
		if !f.SameShape(px) {
			return fmt.Errorf("%w: face %d is %dx%dx%d with %d mips, face 0 is %dx%dx%d with %d mips",
				ErrFaceMismatch, i+1,
				f.Width(), f.Height(), f.Depth(), f.NumMipmaps(),
				px.Width(), px.Height(), px.Depth(), px.NumMipmaps())
		}
	}

	img.typ = TypeCubemap
	img.format = format
	img.components = components
	img.textures = make([]*texture.Texture, NumFaces)
	for i, f := range faces {
		img.textures[i] = f.Clone()
	}
	img.valid = true
	return nil
}

// Clear resets the image to an empty, invalid state.
func (img *Image) Clear() {
	img.typ = TypeNone
	img.format = FormatUnknown
	img.components = 0
	img.textures = nil
	img.valid = false
}

func (img *Image) Type() Type         { return img.typ }
func (img *Image) Format() Format     { return img.format }
func (img *Image) Components() int    { return img.components }
func (img *Image) IsValid() bool      { return img.valid }
func (img *Image) IsCubemap() bool    { return img.typ == TypeCubemap }
func (img *Image) IsVolume() bool     { return img.typ == TypeVolume }
func (img *Image) IsCompressed() bool { return img.format.IsCompressed() }

// NumFaces returns the number of stored textures (1 or 6).
func (img *Image) NumFaces() int { return len(img.textures) }

// Face returns texture i. Flat and volume images only have face 0.
func (img *Image) Face(i int) *texture.Texture { return img.textures[i] }

func (img *Image) first() *texture.Texture {
	if len(img.textures) == 0 {
		return &texture.Texture{}
	}
	return img.textures[0]
}

func (img *Image) Width() int      { return img.first().Width() }
func (img *Image) Height() int     { return img.first().Height() }
func (img *Image) Depth() int      { return img.first().Depth() }
func (img *Image) Size() int       { return img.first().Size() }
func (img *Image) NumMipmaps() int { return img.first().NumMipmaps() }

// Mipmap returns mip level i of the first face.
func (img *Image) Mipmap(i int) *texture.Surface { return img.first().Mipmap(i) }

// IsDwordAligned reports whether a row of the base surface is already a
// multiple of four bytes long.
func (img *Image) IsDwordAligned() bool {
	w := img.Width()
	return dwordAlignedLineSize(w, img.components*8) == w*img.components
}

func dwordAlignedLineSize(width, bpp int) int {
	return ((width*bpp + 31) &^ 31) >> 3
}

// sliceSize returns the byte size of one depth slice at the given dimensions.
func (img *Image) sliceSize(width, height int) int {
	if img.format.IsCompressed() {
		return SizeDXTC(img.format, width, height)
	}
	return SizeRGB(img.components, width, height)
}

// Flip mirrors every face and mip of the image vertically in place.
func (img *Image) Flip() {
	for _, t := range img.textures {
		img.flipTexture(t)
	}
}
