package dds

import "errors"

var (
	ErrInvalidMagic      = errors.New("dds: invalid magic")
	ErrUnsupportedFormat = errors.New("dds: unsupported pixel format")
	ErrFaceMismatch      = errors.New("dds: cubemap faces differ in size or mip count")
	ErrInvalidImage      = errors.New("dds: image is not valid")
	ErrInvalidHeader     = errors.New("dds: invalid header")
)
