package plot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-esig/esig"
	"github.com/cwbudde/algo-esig/internal/testutil"
)

func testPlot() esig.PitchPlot {
	return esig.PitchPlot{
		Pitch:     testutil.VibratoContour(220, 30, 5, 100, 200),
		PitchRate: 100,
		Events:    []esig.Event{{Start: 0, End: 200}},
	}
}

func TestRenderPitchSize(t *testing.T) {
	img, err := RenderPitch(testPlot(), WithSize(640, 360))
	if err != nil {
		t.Fatalf("RenderPitch: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 360 {
		t.Fatalf("bounds = %v, want 640x360", img.Bounds())
	}
}

func TestRenderPitchDrawsContour(t *testing.T) {
	img, err := RenderPitch(testPlot())
	if err != nil {
		t.Fatalf("RenderPitch: %v", err)
	}

	contour := 0
	events := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			switch img.RGBAAt(x, y) {
			case contourColor:
				contour++
			case eventColor:
				events++
			}
		}
	}
	if contour == 0 {
		t.Fatalf("no contour pixels drawn")
	}
	if events == 0 {
		t.Fatalf("no event pixels drawn")
	}
}

func TestRenderPitchEmptyContour(t *testing.T) {
	if _, err := RenderPitch(esig.PitchPlot{}); err == nil {
		t.Fatalf("expected error for empty contour")
	}
}

func TestRenderPitchUnvoicedOnly(t *testing.T) {
	p := esig.PitchPlot{Pitch: make([]float64, 50), PitchRate: 100}
	if _, err := RenderPitch(p); err != nil {
		t.Fatalf("all-unvoiced contour should still render: %v", err)
	}
}

func TestRenderPitchFixedRange(t *testing.T) {
	img, err := RenderPitch(testPlot(), WithFreqRange(100, 400))
	if err != nil {
		t.Fatalf("RenderPitch: %v", err)
	}
	if img == nil {
		t.Fatalf("nil image")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contour.png")
	if err := WritePNG(path, testPlot()); err != nil {
		t.Fatalf("WritePNG: %v", err)
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
	if img.Bounds().Dx() != 1280 || img.Bounds().Dy() != 720 {
		t.Fatalf("bounds = %v, want 1280x720", img.Bounds())
	}
}

func TestFitRange(t *testing.T) {
	lo, hi := fitRange([]float64{0, 200, 300, 0})
	if lo >= 200 || hi <= 300 {
		t.Fatalf("fitRange = [%v, %v], want padding around [200, 300]", lo, hi)
	}

	lo, hi = fitRange(make([]float64, 10))
	if lo != 50 || hi != 600 {
		t.Fatalf("unvoiced fallback = [%v, %v], want [50, 600]", lo, hi)
	}
}
