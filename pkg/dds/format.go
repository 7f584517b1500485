package dds

import "fmt"

// Format identifies the pixel layout of an image.
type Format uint32

const (
	FormatUnknown Format = iota
	FormatRGB
	FormatBGR
	FormatRGBA
	FormatBGRA
	FormatLuminance
	FormatDXT1
	FormatDXT3
	FormatDXT5
)

func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "RGB"
	case FormatBGR:
		return "BGR"
	case FormatRGBA:
		return "RGBA"
	case FormatBGRA:
		return "BGRA"
	case FormatLuminance:
		return "LUMINANCE"
	case FormatDXT1:
		return "DXT1"
	case FormatDXT3:
		return "DXT3"
	case FormatDXT5:
		return "DXT5"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(f))
	}
}

// IsCompressed reports whether f is one of the DXT block formats.
func (f Format) IsCompressed() bool {
	return f == FormatDXT1 || f == FormatDXT3 || f == FormatDXT5
}

// BlockSize returns the byte size of one 4x4 block, or 0 for raw formats.
func (f Format) BlockSize() int {
	switch f {
	case FormatDXT1:
		return 8
	case FormatDXT3, FormatDXT5:
		return 16
	default:
		return 0
	}
}

// FourCC codes ("DXT1", "DXT3", "DXT5", "DX10" packed little-endian).
const (
	FourCCDXT1 = 0x31545844
	FourCCDXT3 = 0x33545844
	FourCCDXT5 = 0x35545844
	FourCCDX10 = 0x30315844
)

// DXGI_FORMAT values understood in a DX10 extension header.
const (
	DXGI_FORMAT_UNKNOWN             = 0
	DXGI_FORMAT_R8G8B8A8_UNORM      = 28
	DXGI_FORMAT_R8G8B8A8_UNORM_SRGB = 29
	DXGI_FORMAT_R8_UNORM            = 61
	DXGI_FORMAT_BC1_UNORM           = 71
	DXGI_FORMAT_BC1_UNORM_SRGB      = 72
	DXGI_FORMAT_BC2_UNORM           = 74
	DXGI_FORMAT_BC2_UNORM_SRGB      = 75
	DXGI_FORMAT_BC3_UNORM           = 77
	DXGI_FORMAT_BC3_UNORM_SRGB      = 78
	DXGI_FORMAT_B8G8R8A8_UNORM      = 87
	DXGI_FORMAT_B8G8R8A8_UNORM_SRGB = 91
)

// FormatName returns a human-readable name for a DXGI_FORMAT value.
func FormatName(format uint32) string {
	switch format {
	case DXGI_FORMAT_R8G8B8A8_UNORM:
		return "R8G8B8A8_UNORM"
	case DXGI_FORMAT_R8G8B8A8_UNORM_SRGB:
		return "R8G8B8A8_UNORM_SRGB"
	case DXGI_FORMAT_R8_UNORM:
		return "R8_UNORM"
	case DXGI_FORMAT_BC1_UNORM:
		return "BC1_UNORM"
	case DXGI_FORMAT_BC1_UNORM_SRGB:
		return "BC1_UNORM_SRGB"
	case DXGI_FORMAT_BC2_UNORM:
		return "BC2_UNORM"
	case DXGI_FORMAT_BC2_UNORM_SRGB:
		return "BC2_UNORM_SRGB"
	case DXGI_FORMAT_BC3_UNORM:
		return "BC3_UNORM"
	case DXGI_FORMAT_BC3_UNORM_SRGB:
		return "BC3_UNORM_SRGB"
	case DXGI_FORMAT_B8G8R8A8_UNORM:
		return "B8G8R8A8_UNORM"
	case DXGI_FORMAT_B8G8R8A8_UNORM_SRGB:
		return "B8G8R8A8_UNORM_SRGB"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", format)
	}
}

// formatFromDXGI maps a DX10 extension format to an image format and
// component count.
func formatFromDXGI(dxgi uint32) (Format, int, error) {
	switch dxgi {
	case DXGI_FORMAT_BC1_UNORM, DXGI_FORMAT_BC1_UNORM_SRGB:
		return FormatDXT1, 3, nil
	case DXGI_FORMAT_BC2_UNORM, DXGI_FORMAT_BC2_UNORM_SRGB:
		return FormatDXT3, 4, nil
	case DXGI_FORMAT_BC3_UNORM, DXGI_FORMAT_BC3_UNORM_SRGB:
		return FormatDXT5, 4, nil
	case DXGI_FORMAT_R8G8B8A8_UNORM, DXGI_FORMAT_R8G8B8A8_UNORM_SRGB:
		return FormatRGBA, 4, nil
	case DXGI_FORMAT_B8G8R8A8_UNORM, DXGI_FORMAT_B8G8R8A8_UNORM_SRGB:
		return FormatBGRA, 4, nil
	case DXGI_FORMAT_R8_UNORM:
		return FormatLuminance, 1, nil
	default:
		return FormatUnknown, 0, fmt.Errorf("%w: DXGI format %s", ErrUnsupportedFormat, FormatName(dxgi))
	}
}

// formatFromPixelFormat detects the image format from a DDS pixel format
// block. FourCC codes are mapped directly; raw layouts must match one of the
// known channel masks exactly.
func formatFromPixelFormat(pf *PixelFormat) (Format, int, error) {
	if pf.Flags&DDPF_FOURCC != 0 {
		switch pf.FourCC {
		case FourCCDXT1:
			return FormatDXT1, 3, nil
		case FourCCDXT3:
			return FormatDXT3, 4, nil
		case FourCCDXT5:
			return FormatDXT5, 4, nil
		default:
			return FormatUnknown, 0, fmt.Errorf("%w: fourCC %q", ErrUnsupportedFormat, fourCCString(pf.FourCC))
		}
	}

	switch {
	case pf.RGBBitCount == 32 && pf.RBitMask == 0x00FF0000 && pf.GBitMask == 0x0000FF00 &&
		pf.BBitMask == 0x000000FF && pf.ABitMask == 0xFF000000:
		return FormatBGRA, 4, nil
	case pf.RGBBitCount == 32 && pf.RBitMask == 0x000000FF && pf.GBitMask == 0x0000FF00 &&
		pf.BBitMask == 0x00FF0000 && pf.ABitMask == 0xFF000000:
		return FormatRGBA, 4, nil
	case pf.RGBBitCount == 24 && pf.RBitMask == 0x000000FF && pf.GBitMask == 0x0000FF00 &&
		pf.BBitMask == 0x00FF0000:
		return FormatRGB, 3, nil
	case pf.RGBBitCount == 24 && pf.RBitMask == 0x00FF0000 && pf.GBitMask == 0x0000FF00 &&
		pf.BBitMask == 0x000000FF:
		return FormatBGR, 3, nil
	case pf.RGBBitCount == 8 && (pf.Flags&DDPF_LUMINANCE != 0 || pf.RBitMask == 0x000000FF):
		return FormatLuminance, 1, nil
	}
	return FormatUnknown, 0, fmt.Errorf("%w: %d-bit masks r=%08x g=%08x b=%08x a=%08x",
		ErrUnsupportedFormat, pf.RGBBitCount, pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask)
}

// pixelFormatFor builds the pixel format block written for format.
func pixelFormatFor(format Format, components int) PixelFormat {
	pf := PixelFormat{Size: PixelFormatSize}
	switch format {
	case FormatDXT1:
		pf.Flags, pf.FourCC = DDPF_FOURCC, FourCCDXT1
	case FormatDXT3:
		pf.Flags, pf.FourCC = DDPF_FOURCC, FourCCDXT3
	case FormatDXT5:
		pf.Flags, pf.FourCC = DDPF_FOURCC, FourCCDXT5
	case FormatBGRA:
		pf.Flags = DDPF_RGB | DDPF_ALPHAPIXELS
		pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask = 0x00FF0000, 0x0000FF00, 0x000000FF, 0xFF000000
	case FormatRGBA:
		pf.Flags = DDPF_RGB | DDPF_ALPHAPIXELS
		pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask = 0x000000FF, 0x0000FF00, 0x00FF0000, 0xFF000000
	case FormatBGR:
		pf.Flags = DDPF_RGB
		pf.RBitMask, pf.GBitMask, pf.BBitMask = 0x00FF0000, 0x0000FF00, 0x000000FF
	case FormatRGB:
		pf.Flags = DDPF_RGB
		pf.RBitMask, pf.GBitMask, pf.BBitMask = 0x000000FF, 0x0000FF00, 0x00FF0000
	case FormatLuminance:
		pf.Flags = DDPF_LUMINANCE
		pf.RBitMask = 0x000000FF
	}
	if !format.IsCompressed() {
		pf.RGBBitCount = uint32(components * 8)
	}
	return pf
}

func fourCCString(code uint32) string {
	return string([]byte{byte(code), byte(code >> 8), byte(code >> 16), byte(code >> 24)})
}

// SizeDXTC returns the byte size of one w x h slice in a block format.
func SizeDXTC(format Format, width, height int) int {
	return ((width + 3) / 4) * ((height + 3) / 4) * format.BlockSize()
}

// SizeRGB returns the byte size of one w x h slice of raw texels.
func SizeRGB(components, width, height int) int {
	return width * height * components
}
