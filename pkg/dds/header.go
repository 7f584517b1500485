package dds

import (
	"encoding/binary"
	"fmt"
)

// Magic identifies a DDS file ("DDS ").
var Magic = [4]byte{'D', 'D', 'S', ' '}

// Fixed structure sizes.
const (
	HeaderSize      = 124
	PixelFormatSize = 32
	DX10HeaderSize  = 20
)

// Largest dimensions accepted on load.
const (
	MaxDimension   = 16384
	MaxVolumeDepth = 2048
)

// Header flags (dwFlags).
const (
	DDSD_CAPS        = 0x1
	DDSD_HEIGHT      = 0x2
	DDSD_WIDTH       = 0x4
	DDSD_PITCH       = 0x8
	DDSD_PIXELFORMAT = 0x1000
	DDSD_MIPMAPCOUNT = 0x20000
	DDSD_LINEARSIZE  = 0x80000
	DDSD_DEPTH       = 0x800000
)

// Pixel format flags.
const (
	DDPF_ALPHAPIXELS = 0x1
	DDPF_ALPHA       = 0x2
	DDPF_FOURCC      = 0x4
	DDPF_RGB         = 0x40
	DDPF_LUMINANCE   = 0x20000
)

// Surface capabilities (dwCaps and dwCaps2).
const (
	DDSCAPS_COMPLEX = 0x8
	DDSCAPS_TEXTURE = 0x1000
	DDSCAPS_MIPMAP  = 0x400000

	DDSCAPS2_CUBEMAP           = 0x200
	DDSCAPS2_CUBEMAP_ALL_FACES = 0xFC00
	DDSCAPS2_VOLUME            = 0x200000
)

// PixelFormat is the 32-byte DDS_PIXELFORMAT block.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Header is the 124-byte DDS_HEADER that follows the magic.
type Header struct {
	Size              uint32 // +0x00: always 124
	Flags             uint32 // +0x04
	Height            uint32 // +0x08
	Width             uint32 // +0x0C
	PitchOrLinearSize uint32 // +0x10
	Depth             uint32 // +0x14
	MipMapCount       uint32 // +0x18: includes the base surface
	Reserved1         [11]uint32
	PixelFormat       PixelFormat // +0x48
	Caps              uint32      // +0x68
	Caps2             uint32      // +0x6C
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// DX10Header is the extension header present when the fourCC is "DX10".
type DX10Header struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// Validate checks the fixed structure sizes and the image dimensions.
func (h *Header) Validate() error {
	if h.Size != HeaderSize {
		return fmt.Errorf("%w: size: expected %d, got %d", ErrInvalidHeader, HeaderSize, h.Size)
	}
	if h.PixelFormat.Size != PixelFormatSize {
		return fmt.Errorf("%w: pixel format size: expected %d, got %d", ErrInvalidHeader, PixelFormatSize, h.PixelFormat.Size)
	}
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidHeader, h.Width, h.Height)
	}
	if h.Width > MaxDimension || h.Height > MaxDimension {
		return fmt.Errorf("%w: dimensions %dx%d exceed %d", ErrInvalidHeader, h.Width, h.Height, MaxDimension)
	}
	if h.IsVolume() && h.Depth > MaxVolumeDepth {
		return fmt.Errorf("%w: depth %d exceeds %d", ErrInvalidHeader, h.Depth, MaxVolumeDepth)
	}
	return nil
}

// MarshalBinary encodes the header to its 124-byte form.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to buf, which must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	le := binary.LittleEndian
	le.PutUint32(buf[0x00:], h.Size)
	le.PutUint32(buf[0x04:], h.Flags)
	le.PutUint32(buf[0x08:], h.Height)
	le.PutUint32(buf[0x0C:], h.Width)
	le.PutUint32(buf[0x10:], h.PitchOrLinearSize)
	le.PutUint32(buf[0x14:], h.Depth)
	le.PutUint32(buf[0x18:], h.MipMapCount)
	for i, v := range h.Reserved1 {
		le.PutUint32(buf[0x1C+4*i:], v)
	}

	pf := &h.PixelFormat
	le.PutUint32(buf[0x48:], pf.Size)
	le.PutUint32(buf[0x4C:], pf.Flags)
	le.PutUint32(buf[0x50:], pf.FourCC)
	le.PutUint32(buf[0x54:], pf.RGBBitCount)
	le.PutUint32(buf[0x58:], pf.RBitMask)
	le.PutUint32(buf[0x5C:], pf.GBitMask)
	le.PutUint32(buf[0x60:], pf.BBitMask)
	le.PutUint32(buf[0x64:], pf.ABitMask)

	le.PutUint32(buf[0x68:], h.Caps)
	le.PutUint32(buf[0x6C:], h.Caps2)
	le.PutUint32(buf[0x70:], h.Caps3)
	le.PutUint32(buf[0x74:], h.Caps4)
	le.PutUint32(buf[0x78:], h.Reserved2)
}

// UnmarshalBinary decodes and validates a header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from buf without validating it.
func (h *Header) DecodeFrom(buf []byte) {
	le := binary.LittleEndian
	h.Size = le.Uint32(buf[0x00:])
	h.Flags = le.Uint32(buf[0x04:])
	h.Height = le.Uint32(buf[0x08:])
	h.Width = le.Uint32(buf[0x0C:])
	h.PitchOrLinearSize = le.Uint32(buf[0x10:])
	h.Depth = le.Uint32(buf[0x14:])
	h.MipMapCount = le.Uint32(buf[0x18:])
	for i := range h.Reserved1 {
		h.Reserved1[i] = le.Uint32(buf[0x1C+4*i:])
	}

	pf := &h.PixelFormat
	pf.Size = le.Uint32(buf[0x48:])
	pf.Flags = le.Uint32(buf[0x4C:])
	pf.FourCC = le.Uint32(buf[0x50:])
	pf.RGBBitCount = le.Uint32(buf[0x54:])
	pf.RBitMask = le.Uint32(buf[0x58:])
	pf.GBitMask = le.Uint32(buf[0x5C:])
	pf.BBitMask = le.Uint32(buf[0x60:])
	pf.ABitMask = le.Uint32(buf[0x64:])

	h.Caps = le.Uint32(buf[0x68:])
	h.Caps2 = le.Uint32(buf[0x6C:])
	h.Caps3 = le.Uint32(buf[0x70:])
	h.Caps4 = le.Uint32(buf[0x74:])
	h.Reserved2 = le.Uint32(buf[0x78:])
}

// DecodeFrom reads the DX10 extension header from buf.
func (h *DX10Header) DecodeFrom(buf []byte) {
	le := binary.LittleEndian
	h.DXGIFormat = le.Uint32(buf[0:])
	h.ResourceDimension = le.Uint32(buf[4:])
	h.MiscFlag = le.Uint32(buf[8:])
	h.ArraySize = le.Uint32(buf[12:])
	h.MiscFlags2 = le.Uint32(buf[16:])
}

// IsCubemap reports whether caps2 marks the surface as a cubemap.
func (h *Header) IsCubemap() bool {
	return h.Caps2&DDSCAPS2_CUBEMAP != 0
}

// IsVolume reports whether caps2 marks the surface as a volume with depth.
func (h *Header) IsVolume() bool {
	return h.Caps2&DDSCAPS2_VOLUME != 0 && h.Depth > 0
}
