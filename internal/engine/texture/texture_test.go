package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})

	img, err := Decode(encodePNG(t, src), "test.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("size = %v, want 4x2", img.Bounds())
	}
	if got := img.RGBAAt(1, 1); got.R != 255 || got.A != 255 {
		t.Errorf("pixel (1,1) = %v, want opaque red", got)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte("not an image"), "bad.png"); err == nil {
		t.Error("expected error decoding garbage")
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p1.png")
	if err := os.WriteFile(path, encodePNG(t, image.NewRGBA(image.Rect(0, 0, 3, 3))), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	img, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("width = %d, want 3", img.Bounds().Dx())
	}

	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImageToRGBAOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 13))
	src.SetRGBA(10, 10, color.RGBA{G: 200, A: 255})

	out := ImageToRGBA(src)
	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("origin = %v, want (0,0)", out.Bounds().Min)
	}
	if got := out.RGBAAt(0, 0); got.G != 200 {
		t.Errorf("pixel (0,0) = %v, want green 200", got)
	}
}

func TestFitToMax(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 50, 200, 100, 50},
		{400, 200, 100, 100, 50},
		{200, 400, 100, 50, 100},
		{64, 64, 0, 64, 64},
	}

	for _, tt := range tests {
		img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
		out := FitToMax(img, tt.max)
		if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
			t.Errorf("FitToMax(%dx%d, %d) = %v, want %dx%d", tt.w, tt.h, tt.max, out.Bounds(), tt.wantW, tt.wantH)
		}
	}
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	img.SetRGBA(0, 1, color.RGBA{R: 2, A: 255})

	out := FlipVertical(img)
	if out.RGBAAt(0, 0).R != 2 || out.RGBAAt(0, 1).R != 1 {
		t.Errorf("FlipVertical did not swap rows: %v", out.Pix)
	}
}

func TestSolid(t *testing.T) {
	img := Solid(color.RGBA{255, 255, 255, 255})
	if img.Bounds().Dx() != 1 || img.RGBAAt(0, 0).B != 255 {
		t.Errorf("unexpected solid texture %v", img.Pix)
	}
}
