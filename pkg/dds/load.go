package dds

import (
	"bytes"
	"fmt"
	"io"

	"github.com/EchoTools/probetools/pkg/texture"
)

// Load reads a DDS image from r.
func Load(r io.Reader, opts ...Option) (*Image, error) {
	img := &Image{}
	if err := img.Load(r, opts...); err != nil {
		return nil, err
	}
	return img, nil
}

// Load replaces the image with one read from r. On error the image is left
// cleared.
func (img *Image) Load(r io.Reader, opts ...Option) error {
	img.Clear()
	if err := img.load(r, newOptions(opts)); err != nil {
		img.Clear()
		return err
	}
	return nil
}

func (img *Image) load(r io.Reader, o options) error {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("read magic: %w", err)
	}
	if magic != Magic {
		return fmt.Errorf("%w: got %q", ErrInvalidMagic, magic[:])
	}

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return fmt.Errorf("parse header: %w", err)
	}

	typ := TypeFlat
	if h.IsCubemap() {
		typ = TypeCubemap
	}
	if h.IsVolume() {
		typ = TypeVolume
	}

	format, components, err := readFormat(r, &h)
	if err != nil {
		return err
	}

	img.typ = typ
	img.format = format
	img.components = components

	width, height, depth := int(h.Width), int(h.Height), 1
	if typ == TypeVolume {
		depth = clampSize(int(h.Depth))
	}

	numMipmaps := 0
	if h.MipMapCount > 0 {
		numMipmaps = int(h.MipMapCount) - 1
	}

	faces := 1
	if typ == TypeCubemap {
		faces = NumFaces
	}

	for n := 0; n < faces; n++ {
		pixels, err := readSurface(r, img.sliceSize(width, height)*depth)
		if err != nil {
			return fmt.Errorf("read face %d: %w", n, err)
		}
		tex := texture.NewTexture(width, height, depth, pixels)
		if o.flip {
			flipSurface(format, tex.Base())
		}

		w, hh, d := width, height, depth
		for i := 0; i < numMipmaps; i++ {
			if w == 1 && hh == 1 && d == 1 {
				break
			}
			w, hh, d = clampSize(w>>1), clampSize(hh>>1), clampSize(d>>1)

			pixels, err := readSurface(r, img.sliceSize(w, hh)*d)
			if err != nil {
				return fmt.Errorf("read face %d mip %d: %w", n, i+1, err)
			}
			mip := texture.NewSurface(w, hh, d, pixels)
			if o.flip {
				flipSurface(format, mip)
			}
			tex.AddMipmap(mip)
		}

		img.textures = append(img.textures, tex)
	}

	if typ == TypeCubemap {
		img.textures[FacePositiveY], img.textures[FaceNegativeY] =
			img.textures[FaceNegativeY], img.textures[FacePositiveY]
	}

	img.valid = true
	return nil
}

// readFormat resolves the pixel format, reading the DX10 extension header
// when the fourCC asks for it.
func readFormat(r io.Reader, h *Header) (Format, int, error) {
	pf := &h.PixelFormat
	if pf.Flags&DDPF_FOURCC != 0 && pf.FourCC == FourCCDX10 {
		buf := make([]byte, DX10HeaderSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return FormatUnknown, 0, fmt.Errorf("read DX10 header: %w", err)
		}
		var ext DX10Header
		ext.DecodeFrom(buf)
		return formatFromDXGI(ext.DXGIFormat)
	}
	return formatFromPixelFormat(pf)
}

// readChunk caps the up-front allocation of a surface read. Larger surfaces
// grow as data arrives, so a short stream fails before the full size is
// allocated.
const readChunk = 1 << 20

func readSurface(r io.Reader, size int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(min(size, readChunk))
	n, err := io.CopyN(&buf, r, int64(size))
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read %d of %d bytes: %w", n, size, err)
	}
	return buf.Bytes(), nil
}

func clampSize(size int) int {
	if size <= 0 {
		return 1
	}
	return size
}
