// Package cubemap turns encoded RGBM cubemaps into DDS images laid out for
// the runtime's face and axis conventions.
package cubemap

// texelSize is the byte size of one texel handled by Remap.
const texelSize = 4

// Transform maps source texel (x, y) of a face to its destination position.
// Each face is rotated or mirrored about its center; faces 2 and 4 are left
// unchanged. The mapping is a permutation of the size x size grid.
func Transform(face, size, x, y int) (dx, dy int) {
	last := size - 1
	switch face {
	case 0:
		return y, last - x
	case 1:
		return last - y, x
	case 3:
		return x, last - y
	case 5:
		return last - x, last - y
	default:
		return x, y
	}
}

// Remap returns a copy of a square face of 4-byte texels with every texel
// moved to its Transform position.
func Remap(src []byte, face, size int) []byte {
	dst := make([]byte, len(src))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := Transform(face, size, x, y)
			s := (y*size + x) * texelSize
			d := (dy*size + dx) * texelSize
			copy(dst[d:d+texelSize], src[s:s+texelSize])
		}
	}
	return dst
}
