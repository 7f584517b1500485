// Package dxt mirrors S3TC (DXT1/DXT3/DXT5) compressed blocks vertically
// without decompressing them.
//
// Every block covers 4x4 texels. The index data of each format is laid out
// row by row, so a vertical mirror is a permutation of those rows:
//
//	DXT1: 8 bytes  = 2x uint16 color endpoints + 4 rows of 2-bit indices (1 byte per row)
//	DXT3: 16 bytes = 4 rows of 4-bit explicit alpha (2 bytes per row) + DXT1 color block
//	DXT5: 16 bytes = 2 alpha endpoints + 48 bits of 3-bit alpha indices + DXT1 color block
package dxt

// Block sizes in bytes.
const (
	BlockSizeDXT1 = 8
	BlockSizeDXT3 = 16
	BlockSizeDXT5 = 16
)

// BlockRows is the number of texel rows covered by one block.
const BlockRows = 4

// FlipDXT1 mirrors count DXT1 blocks in place.
func FlipDXT1(blocks []byte, count int) {
	FlipDXT1Rows(blocks, count, BlockRows)
}

// FlipDXT3 mirrors count DXT3 blocks in place.
func FlipDXT3(blocks []byte, count int) {
	FlipDXT3Rows(blocks, count, BlockRows)
}

// FlipDXT5 mirrors count DXT5 blocks in place.
func FlipDXT5(blocks []byte, count int) {
	FlipDXT5Rows(blocks, count, BlockRows)
}

// FlipDXT1Rows mirrors only the first rows texel rows of each block.
// Surfaces shorter than a block (2x2 and 1x1 mips) use this so that the
// padding rows stay where they are.
func FlipDXT1Rows(blocks []byte, count, rows int) {
	count = clampCount(blocks, count, BlockSizeDXT1)
	rows = clampRows(rows)
	for b := 0; b < count; b++ {
		flipColorRows(blocks[b*BlockSizeDXT1:], rows)
	}
}

// FlipDXT3Rows mirrors only the first rows texel rows of each block.
func FlipDXT3Rows(blocks []byte, count, rows int) {
	count = clampCount(blocks, count, BlockSizeDXT3)
	rows = clampRows(rows)
	for b := 0; b < count; b++ {
		block := blocks[b*BlockSizeDXT3:]
		for i := 0; i < rows/2; i++ {
			j := rows - 1 - i
			block[2*i], block[2*j] = block[2*j], block[2*i]
			block[2*i+1], block[2*j+1] = block[2*j+1], block[2*i+1]
		}
		flipColorRows(block[8:], rows)
	}
}

// FlipDXT5Rows mirrors only the first rows texel rows of each block.
func FlipDXT5Rows(blocks []byte, count, rows int) {
	count = clampCount(blocks, count, BlockSizeDXT5)
	rows = clampRows(rows)
	for b := 0; b < count; b++ {
		block := blocks[b*BlockSizeDXT5:]
		flipAlphaIndices(block[2:8], rows)
		flipColorRows(block[8:], rows)
	}
}

// flipColorRows swaps the one-byte index rows at offset 4 of a color block.
func flipColorRows(block []byte, rows int) {
	idx := block[4:8]
	for i := 0; i < rows/2; i++ {
		j := rows - 1 - i
		idx[i], idx[j] = idx[j], idx[i]
	}
}

// flipAlphaIndices reverses the 12-bit rows of a 48-bit DXT5 alpha index
// field. The field is two little-endian 24-bit words holding rows 0-1 and
// rows 2-3 respectively.
func flipAlphaIndices(field []byte, rows int) {
	var bits uint64
	for i := 5; i >= 0; i-- {
		bits = bits<<8 | uint64(field[i])
	}

	var row [BlockRows]uint64
	for i := range row {
		row[i] = (bits >> (12 * uint(i))) & 0xfff
	}
	for i := 0; i < rows/2; i++ {
		j := rows - 1 - i
		row[i], row[j] = row[j], row[i]
	}

	bits = 0
	for i := BlockRows - 1; i >= 0; i-- {
		bits = bits<<12 | row[i]
	}
	for i := 0; i < 6; i++ {
		field[i] = byte(bits >> (8 * uint(i)))
	}
}

func clampCount(blocks []byte, count, size int) int {
	if max := len(blocks) / size; count > max {
		return max
	}
	if count < 0 {
		return 0
	}
	return count
}

func clampRows(rows int) int {
	if rows > BlockRows {
		return BlockRows
	}
	if rows < 0 {
		return 0
	}
	return rows
}
