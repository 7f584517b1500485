package rgbm

// Cube faces in storage order.
const (
	FacePositiveX = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
	NumFaces
)

// Face edges. Left and right are u = 0 and u = 1; top and bottom are v = 0
// and v = 1.
const (
	edgeLeft = iota
	edgeRight
	edgeTop
	edgeBottom
)

// Cube corners, named by the sign of x, y and z.
const (
	cornerNNN = iota
	cornerNNP
	cornerNPN
	cornerNPP
	cornerPNN
	cornerPNP
	cornerPPN
	cornerPPP
	numCorners
)

type faceEdge struct {
	face int
	edge int
}

// cubeEdges lists the 12 cube edges as the pair of face edges that meet
// there.
var cubeEdges = [12][2]faceEdge{
	{{FacePositiveX, edgeLeft}, {FacePositiveZ, edgeRight}},
	{{FacePositiveX, edgeRight}, {FaceNegativeZ, edgeLeft}},
	{{FacePositiveX, edgeTop}, {FacePositiveY, edgeRight}},
	{{FacePositiveX, edgeBottom}, {FaceNegativeY, edgeRight}},

	{{FaceNegativeX, edgeLeft}, {FaceNegativeZ, edgeRight}},
	{{FaceNegativeX, edgeRight}, {FacePositiveZ, edgeLeft}},
	{{FaceNegativeX, edgeTop}, {FacePositiveY, edgeLeft}},
	{{FaceNegativeX, edgeBottom}, {FaceNegativeY, edgeLeft}},

	{{FacePositiveZ, edgeTop}, {FacePositiveY, edgeBottom}},
	{{FacePositiveZ, edgeBottom}, {FaceNegativeY, edgeTop}},
	{{FaceNegativeZ, edgeTop}, {FacePositiveY, edgeTop}},
	{{FaceNegativeZ, edgeBottom}, {FaceNegativeY, edgeBottom}},
}

// faceCorners maps each face's corner texels (top-left, top-right,
// bottom-left, bottom-right) to cube corners.
var faceCorners = [NumFaces][4]int{
	{cornerPPP, cornerPPN, cornerPNP, cornerPNN},
	{cornerNPN, cornerNPP, cornerNNN, cornerNNP},
	{cornerNPN, cornerPPN, cornerNPP, cornerPPP},
	{cornerNNP, cornerPNP, cornerNNN, cornerPNN},
	{cornerNPP, cornerPPP, cornerNNP, cornerPNP},
	{cornerPPN, cornerNPN, cornerPNN, cornerNNN},
}

// cornerTexels returns the texel indices of the four face corners in the
// order used by faceCorners.
func cornerTexels(size int) [4]int {
	return [4]int{
		0,
		size - 1,
		size * (size - 1),
		size*(size-1) + size - 1,
	}
}

// edgeWalk returns the first texel index of an edge and the stride between
// consecutive texels along it. Forward walks go top to bottom or left to
// right; reversed walks start from the opposite end.
func edgeWalk(reverse bool, edge, size int) (start, step int) {
	if reverse {
		switch edge {
		case edgeLeft:
			return size * (size - 1), -size
		case edgeRight:
			return size*(size-1) + size - 1, -size
		case edgeTop:
			return size - 1, -1
		case edgeBottom:
			return size*(size-1) + size - 1, -1
		}
	}
	switch edge {
	case edgeLeft:
		return 0, size
	case edgeRight:
		return size - 1, size
	case edgeTop:
		return 0, 1
	case edgeBottom:
		return size * (size - 1), 1
	}
	return 0, 0
}

// reversedPair reports whether the second edge of a pair runs against the
// first one.
func reversedPair(a, b int) bool {
	return a == b || a+b == 3
}
