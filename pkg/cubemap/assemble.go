package cubemap

import (
	"fmt"

	"github.com/EchoTools/probetools/pkg/dds"
	"github.com/EchoTools/probetools/pkg/rgbm"
	"github.com/EchoTools/probetools/pkg/texture"
)

// BuildImage packages an encoded cubemap as a BGRA DDS cubemap. Every face
// of every mip is remapped, the -Y face is mirrored horizontally, and the
// faces are reordered to +X, -X, -Z, +Z, +Y, -Y.
func BuildImage(enc *rgbm.Cubemap) (*dds.Image, error) {
	var faces [rgbm.NumFaces]*texture.Texture
	for f := range faces {
		size := enc.MipSize(0)
		faces[f] = texture.NewTexture(size, size, 1, Remap(enc.FaceBGRA(0, f), f, size))

		for mip := 1; mip < enc.NumMips(); mip++ {
			size := enc.MipSize(mip)
			faces[f].AddMipmap(texture.NewSurface(size, size, 1, Remap(enc.FaceBGRA(mip, f), f, size)))
		}
	}

	faces[rgbm.FaceNegativeY].FlipX()

	img := &dds.Image{}
	err := img.CreateCubemap(dds.FormatBGRA, 4,
		faces[rgbm.FacePositiveX],
		faces[rgbm.FaceNegativeX],
		faces[rgbm.FaceNegativeZ],
		faces[rgbm.FacePositiveZ],
		faces[rgbm.FacePositiveY],
		faces[rgbm.FaceNegativeY],
	)
	if err != nil {
		return nil, fmt.Errorf("assemble cubemap: %w", err)
	}
	return img, nil
}
