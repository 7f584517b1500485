package dds

import (
	"fmt"
	"strings"
)

// Info summarizes an image for display.
type Info struct {
	Type       Type
	Format     Format
	Components int
	Width      int
	Height     int
	Depth      int
	Faces      int
	MipLevels  int // includes the base surface
	DataSize   int // payload bytes across all faces and mips
	Aligned    bool
}

// Describe returns a summary of the image.
func (img *Image) Describe() Info {
	info := Info{
		Type:       img.typ,
		Format:     img.format,
		Components: img.components,
		Width:      img.Width(),
		Height:     img.Height(),
		Depth:      img.Depth(),
		Faces:      img.NumFaces(),
		MipLevels:  img.NumMipmaps() + 1,
		Aligned:    img.IsDwordAligned(),
	}
	for _, t := range img.textures {
		for _, s := range t.Surfaces() {
			info.DataSize += s.Size()
		}
	}
	return info
}

// String returns a multi-line human-readable representation.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\n", i.Type)
	fmt.Fprintf(&b, "Dimensions: %dx%dx%d\n", i.Width, i.Height, i.Depth)
	fmt.Fprintf(&b, "Faces: %d\n", i.Faces)
	fmt.Fprintf(&b, "Mip levels: %d\n", i.MipLevels)
	fmt.Fprintf(&b, "Format: %s (%d components)\n", i.Format, i.Components)
	if !i.Format.IsCompressed() {
		fmt.Fprintf(&b, "Dword aligned: %t\n", i.Aligned)
	}
	fmt.Fprintf(&b, "Data size: %d bytes (%.2f KB)\n", i.DataSize, float64(i.DataSize)/1024)
	return b.String()
}
