package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedCapture(dir string) *ScreenshotCapture {
	sc := NewScreenshotCapture(dir, "vignette")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return sc
}

func TestGenerateFilename(t *testing.T) {
	sc := fixedCapture("shots")
	want := filepath.Join("shots", "vignette_2024-05-01_12-30-00.png")
	if got := sc.GenerateFilename(); got != want {
		t.Errorf("GenerateFilename = %q, want %q", got, want)
	}
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	sc := fixedCapture(dir)

	// 1x2 image: bottom row red, top row blue (GL order, bottom first).
	pixels := []byte{
		255, 0, 0, 10,
		0, 0, 255, 20,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	r, _, b, a := img.At(0, 0).RGBA()
	if b>>8 != 255 || r != 0 {
		t.Errorf("top pixel should be blue after flip")
	}
	if a>>8 != 255 {
		t.Errorf("alpha = %d, want opaque", a>>8)
	}
	r, _, _, _ = img.At(0, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("bottom pixel should be red after flip")
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := fixedCapture(t.TempDir())
	if _, err := sc.CaptureFromPixels(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := sc.CaptureFromPixels(nil, 0, 0); err == nil {
		t.Error("expected invalid size error")
	}
}

func TestCaptureDoesNotOverwrite(t *testing.T) {
	sc := fixedCapture(t.TempDir())
	pixels := make([]byte, 4)

	first, err := sc.CaptureFromPixels(pixels, 1, 1)
	if err != nil {
		t.Fatalf("first capture: %v", err)
	}
	second, err := sc.CaptureFromPixels(pixels, 1, 1)
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if first == second {
		t.Fatalf("second capture reused %q", first)
	}
	if !strings.HasSuffix(second, "_1.png") {
		t.Errorf("second capture = %q, want _1 suffix", second)
	}
}
