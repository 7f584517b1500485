// Package capture reads and writes HDR cubemap captures: a fixed header
// followed by a zstd stream of little-endian float16 RGBA texels.
//
// Texels are stored mip by mip, largest first. Within a mip the six faces
// follow in +X, -X, +Y, -Y, +Z, -Z order, each face row-major.
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic bytes identifying a capture header.
var Magic = [4]byte{0x48, 0x44, 0x52, 0x43} // "HDRC"

// HeaderSize is the fixed binary size of a capture header.
const HeaderSize = 32 // 4 + 4 + 4 + 4 + 8 + 8 bytes

// headerLength is the number of header bytes following the length field.
const headerLength = HeaderSize - 8

// MaxCubemapSize is the largest face edge length a capture may declare.
const MaxCubemapSize = 4096

var (
	// ErrInvalidHeader is returned for headers that fail validation.
	ErrInvalidHeader = errors.New("capture: invalid header")

	// ErrLengthMismatch is returned when the texel stream written does not
	// match the length the header declares.
	ErrLengthMismatch = errors.New("capture: texel stream length mismatch")
)

// Header represents the header of a capture file.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	CubemapSize      uint32 // Edge length of mip 0
	MipCount         uint32
	Length           uint64 // Uncompressed size
	CompressedLength uint64 // Compressed size
}

// Size returns the binary size of the header.
func (h *Header) Size() int {
	return HeaderSize
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: magic: expected %x, got %x", ErrInvalidHeader, Magic, h.Magic)
	}
	if h.HeaderLength != headerLength {
		return fmt.Errorf("%w: header length: expected %d, got %d", ErrInvalidHeader, headerLength, h.HeaderLength)
	}
	size := int(h.CubemapSize)
	if size == 0 || size&(size-1) != 0 {
		return fmt.Errorf("%w: cubemap size %d is not a power of two", ErrInvalidHeader, size)
	}
	if size > MaxCubemapSize {
		return fmt.Errorf("%w: cubemap size %d exceeds %d", ErrInvalidHeader, size, MaxCubemapSize)
	}
	if want := numMips(size); int(h.MipCount) != want {
		return fmt.Errorf("%w: mip count: expected %d for size %d, got %d", ErrInvalidHeader, want, size, h.MipCount)
	}
	if want := uint64(dataSize(size, int(h.MipCount))); h.Length != want {
		return fmt.Errorf("%w: uncompressed size: expected %d, got %d", ErrInvalidHeader, want, h.Length)
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("%w: compressed size is zero", ErrInvalidHeader)
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint32(buf[8:12], h.CubemapSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.MipCount)
	binary.LittleEndian.PutUint64(buf[16:24], h.Length)
	binary.LittleEndian.PutUint64(buf[24:32], h.CompressedLength)
}

// UnmarshalBinary decodes the header from binary format.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidHeader, HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	h.CubemapSize = binary.LittleEndian.Uint32(data[8:12])
	h.MipCount = binary.LittleEndian.Uint32(data[12:16])
	h.Length = binary.LittleEndian.Uint64(data[16:24])
	h.CompressedLength = binary.LittleEndian.Uint64(data[24:32])
}

// NewHeader creates a header for a cubemap of the given size.
func NewHeader(size int, compressedSize uint64) *Header {
	mips := numMips(size)
	return &Header{
		Magic:            Magic,
		HeaderLength:     headerLength,
		CubemapSize:      uint32(size),
		MipCount:         uint32(mips),
		Length:           uint64(dataSize(size, mips)),
		CompressedLength: compressedSize,
	}
}
