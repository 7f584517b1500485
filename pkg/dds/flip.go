package dds

import (
	"github.com/EchoTools/probetools/pkg/dxt"
	"github.com/EchoTools/probetools/pkg/texture"
)

func (img *Image) flipTexture(t *texture.Texture) {
	for _, s := range t.Surfaces() {
		flipSurface(img.format, s)
	}
}

// flipSurface mirrors a surface vertically, slice by slice.
func flipSurface(format Format, s *texture.Surface) {
	if s.Height() == 0 || s.Size() == 0 {
		return
	}
	if format.IsCompressed() {
		flipCompressed(format, s)
		return
	}

	pixels := s.Pixels()
	sliceSize := len(pixels) / s.Depth()
	lineSize := sliceSize / s.Height()
	tmp := make([]byte, lineSize)

	for n := 0; n < s.Depth(); n++ {
		slice := pixels[n*sliceSize : (n+1)*sliceSize]
		for i := 0; i < s.Height()/2; i++ {
			top := slice[i*lineSize : (i+1)*lineSize]
			bottom := slice[(s.Height()-1-i)*lineSize : (s.Height()-i)*lineSize]
			copy(tmp, bottom)
			copy(bottom, top)
			copy(top, tmp)
		}
	}
}

func flipCompressed(format Format, s *texture.Surface) {
	xblocks := (s.Width() + 3) / 4
	yblocks := (s.Height() + 3) / 4
	lineSize := xblocks * format.BlockSize()
	sliceSize := lineSize * yblocks

	// A surface shorter than one block only holds valid texels in its
	// first rows.
	rows := dxt.BlockRows
	if s.Height() < dxt.BlockRows {
		rows = s.Height()
	}

	pixels := s.Pixels()
	tmp := make([]byte, lineSize)
	for n := 0; n < s.Depth() && (n+1)*sliceSize <= len(pixels); n++ {
		slice := pixels[n*sliceSize : (n+1)*sliceSize]
		for j := 0; j < yblocks/2; j++ {
			top := slice[j*lineSize : (j+1)*lineSize]
			bottom := slice[(yblocks-1-j)*lineSize : (yblocks-j)*lineSize]
			flipBlocks(format, top, xblocks, rows)
			flipBlocks(format, bottom, xblocks, rows)
			copy(tmp, bottom)
			copy(bottom, top)
			copy(top, tmp)
		}
		if yblocks%2 == 1 {
			mid := yblocks / 2
			flipBlocks(format, slice[mid*lineSize:(mid+1)*lineSize], xblocks, rows)
		}
	}
}

func flipBlocks(format Format, blocks []byte, count, rows int) {
	switch format {
	case FormatDXT1:
		dxt.FlipDXT1Rows(blocks, count, rows)
	case FormatDXT3:
		dxt.FlipDXT3Rows(blocks, count, rows)
	case FormatDXT5:
		dxt.FlipDXT5Rows(blocks, count, rows)
	}
}
