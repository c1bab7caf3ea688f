// Package texture decodes images into RGBA pixel buffers ready for GPU upload.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// DefaultMaxSize is the largest edge accepted without downscaling. OpenGL 4.1
// guarantees at least 16384; most skybox photos fit well below.
const DefaultMaxSize = 8192

// Decode decodes PNG, JPEG, BMP or WebP data. name is only used in errors.
func Decode(data []byte, name string) (*image.RGBA, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoding %s: empty %s image", name, format)
	}
	return ImageToRGBA(img), nil
}

// DecodeFile reads and decodes an image file.
func DecodeFile(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path)
}

// ImageToRGBA converts any image to a tightly packed RGBA image with its
// origin at (0, 0).
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FitToMax downscales img so neither edge exceeds maxSize, keeping the
// aspect ratio. Images already within bounds are returned unchanged.
func FitToMax(img *image.RGBA, maxSize int) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(w)
	if h > w {
		scale = float64(maxSize) / float64(h)
	}
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Solid returns a 1x1 texture of the given color, used as a stand-in until
// the real texture arrives.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// FlipVertical returns a copy of img mirrored top to bottom. OpenGL samples
// row 0 as the bottom of the texture.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	rowSize := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowSize]
		dstY := b.Dy() - 1 - y
		copy(out.Pix[dstY*out.Stride:dstY*out.Stride+rowSize], src)
	}
	return out
}
