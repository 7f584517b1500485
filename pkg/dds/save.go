package dds

import (
	"fmt"
	"io"

	"github.com/EchoTools/probetools/pkg/texture"
)

// diskFaceOrder maps on-disk face slots to stored faces. The +Y and -Y slots
// are swapped.
var diskFaceOrder = [NumFaces]int{
	FacePositiveX,
	FaceNegativeX,
	FaceNegativeY,
	FacePositiveY,
	FacePositiveZ,
	FaceNegativeZ,
}

// header builds the DDS header describing the image.
func (img *Image) header() Header {
	h := Header{
		Size:   HeaderSize,
		Flags:  DDSD_CAPS | DDSD_WIDTH | DDSD_HEIGHT | DDSD_PIXELFORMAT,
		Height: uint32(img.Height()),
		Width:  uint32(img.Width()),
	}

	if img.IsCompressed() {
		h.Flags |= DDSD_LINEARSIZE
		h.PitchOrLinearSize = uint32(img.Size())
	} else {
		h.Flags |= DDSD_PITCH
		h.PitchOrLinearSize = uint32(dwordAlignedLineSize(img.Width(), img.components*8))
	}

	if img.typ == TypeVolume {
		h.Flags |= DDSD_DEPTH
		h.Depth = uint32(img.Depth())
	}

	if img.NumMipmaps() > 0 {
		h.Flags |= DDSD_MIPMAPCOUNT
		h.MipMapCount = uint32(img.NumMipmaps() + 1)
	}

	h.PixelFormat = pixelFormatFor(img.format, img.components)

	h.Caps = DDSCAPS_TEXTURE
	switch img.typ {
	case TypeCubemap:
		h.Caps |= DDSCAPS_COMPLEX
		h.Caps2 = DDSCAPS2_CUBEMAP | DDSCAPS2_CUBEMAP_ALL_FACES
	case TypeVolume:
		h.Caps |= DDSCAPS_COMPLEX
		h.Caps2 = DDSCAPS2_VOLUME
	}
	if img.NumMipmaps() > 0 {
		h.Caps |= DDSCAPS_COMPLEX | DDSCAPS_MIPMAP
	}

	return h
}

// Save writes the image to w. The image itself is not modified; flips are
// applied to a working copy of each face.
func (img *Image) Save(w io.Writer, opts ...Option) error {
	if !img.valid {
		return ErrInvalidImage
	}
	if img.format == FormatUnknown {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, img.format)
	}
	o := newOptions(opts)

	h := img.header()
	buf := make([]byte, len(Magic)+HeaderSize)
	copy(buf, Magic[:])
	h.EncodeTo(buf[len(Magic):])
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	order := []int{0}
	if img.typ == TypeCubemap {
		order = diskFaceOrder[:]
	}
	for slot, face := range order {
		tex := img.textures[face]
		if o.flip {
			tex = tex.Clone()
			img.flipTexture(tex)
		}
		if err := writeTexture(w, tex); err != nil {
			return fmt.Errorf("write face %d: %w", slot, err)
		}
	}

	return nil
}

func writeTexture(w io.Writer, tex *texture.Texture) error {
	for _, s := range tex.Surfaces() {
		if _, err := w.Write(s.Pixels()); err != nil {
			return err
		}
	}
	return nil
}
