package titan

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes png, jpeg, gif, bmp, tiff or webp data.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %v: %w", err, ErrFatalSetup)
	}
	return img, format, nil
}

// LoadImage decodes an image file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %v: %w", err, ErrFatalSetup)
	}
	defer f.Close()

	img, _, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// cubeFaceSuffixes are appended to the stem of a skybox path, in +X -X +Y
// -Y +Z -Z order.
var cubeFaceSuffixes = [6]string{"_pos_x", "_neg_x", "_pos_y", "_neg_y", "_pos_z", "_neg_z"}

// LoadCubeFaces loads the six faces of a skybox named like sky.png as
// sky_pos_x.png and so on. Every face must be square and the same size.
func LoadCubeFaces(path string) ([6]image.Image, error) {
	var faces [6]image.Image
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	size := -1
	for i, suffix := range cubeFaceSuffixes {
		img, err := LoadImage(stem + suffix + ext)
		if err != nil {
			return faces, err
		}
		b := img.Bounds()
		if b.Dx() != b.Dy() || (size >= 0 && b.Dx() != size) {
			return faces, fmt.Errorf("cube face %s is %dx%d: %w", stem+suffix+ext, b.Dx(), b.Dy(), ErrFatalSetup)
		}
		size = b.Dx()
		faces[i] = img
	}
	return faces, nil
}
