package cubemap

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"github.com/EchoTools/probetools/pkg/dds"
)

// DumpFaces writes the base surface of every face of img to
// dir/<name>_face<N>.bmp. Only 32-bit BGRA and RGBA images are supported.
// It returns the written paths.
func DumpFaces(dir, name string, img *dds.Image) ([]string, error) {
	if img.Format() != dds.FormatBGRA && img.Format() != dds.FormatRGBA {
		return nil, fmt.Errorf("%w: cannot dump %s faces", dds.ErrUnsupportedFormat, img.Format())
	}

	var paths []string
	for i := 0; i < img.NumFaces(); i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s_face%d.bmp", name, i))
		if err := writeBMP(path, faceImage(img, i)); err != nil {
			return paths, fmt.Errorf("face %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// faceImage converts a face's base surface to NRGBA. RGBM alpha is kept as
// is, so the dump shows the multiplier in the alpha channel.
func faceImage(img *dds.Image, face int) *image.NRGBA {
	tex := img.Face(face)
	out := image.NewNRGBA(image.Rect(0, 0, tex.Width(), tex.Height()))
	src := tex.Pixels()
	bgra := img.Format() == dds.FormatBGRA
	for i := 0; i+3 < len(src) && i+3 < len(out.Pix); i += 4 {
		if bgra {
			out.Pix[i+0] = src[i+2]
			out.Pix[i+1] = src[i+1]
			out.Pix[i+2] = src[i+0]
		} else {
			copy(out.Pix[i:i+3], src[i:i+3])
		}
		out.Pix[i+3] = src[i+3]
	}
	return out
}

func writeBMP(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := bmp.Encode(f, m); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode: %w", err)
	}
	return f.Close()
}
