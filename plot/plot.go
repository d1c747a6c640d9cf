// Package plot renders pitch contours and their detected events to PNG
// images, the visual counterpart of Esig.PitchPlot.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/cwbudde/algo-esig/esig"
)

var (
	backgroundColor = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	gridColor       = color.RGBA{R: 50, G: 50, B: 60, A: 255}
	contourColor    = color.RGBA{R: 110, G: 170, B: 255, A: 255}
	eventColor      = color.RGBA{R: 235, G: 80, B: 80, A: 255}
	labelColor      = color.RGBA{R: 200, G: 200, B: 210, A: 255}
)

const margin = 40

type config struct {
	width    int
	height   int
	minFreq  float64
	maxFreq  float64
	fontFile string
	fontSize float64
}

// Option configures rendering.
type Option func(*config)

// WithSize sets the output image size in pixels (default 1280x720).
func WithSize(width, height int) Option {
	return func(c *config) {
		if width > 2*margin && height > 2*margin {
			c.width = width
			c.height = height
		}
	}
}

// WithFreqRange fixes the vertical axis instead of fitting it to the
// contour.
func WithFreqRange(minHz, maxHz float64) Option {
	return func(c *config) {
		if minHz > 0 && maxHz > minHz {
			c.minFreq = minHz
			c.maxFreq = maxHz
		}
	}
}

// WithFontFile renders axis labels with a TrueType font loaded from
// path. Without it a built-in bitmap face is used.
func WithFontFile(path string) Option {
	return func(c *config) {
		c.fontFile = path
	}
}

// RenderPitch draws the contour as a polyline and overlays each event as
// a horizontal bar at its average pitch.
func RenderPitch(p esig.PitchPlot, opts ...Option) (*image.RGBA, error) {
	cfg := config{width: 1280, height: 720, fontSize: 14}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(p.Pitch) == 0 {
		return nil, fmt.Errorf("plot: empty pitch contour")
	}

	face, closeFace, err := loadFace(cfg)
	if err != nil {
		return nil, err
	}
	defer closeFace()

	minHz, maxHz := cfg.minFreq, cfg.maxFreq
	if minHz == 0 {
		minHz, maxHz = fitRange(p.Pitch)
	}

	img := image.NewRGBA(image.Rect(0, 0, cfg.width, cfg.height))
	fill(img, backgroundColor)

	plotW := cfg.width - 2*margin
	plotH := cfg.height - 2*margin
	frameSpan := float64(len(p.Pitch) - 1)
	if frameSpan == 0 {
		frameSpan = 1
	}
	toX := func(frame float64) int {
		return margin + int(frame/frameSpan*float64(plotW))
	}
	toY := func(hz float64) int {
		frac := (hz - minHz) / (maxHz - minHz)
		return cfg.height - margin - int(frac*float64(plotH))
	}

	drawGrid(img, face, minHz, maxHz, toY, cfg)

	// Contour polyline, broken at unvoiced frames.
	prev := -1
	for i, hz := range p.Pitch {
		if hz <= 0 {
			prev = -1
			continue
		}
		if prev >= 0 {
			drawLine(img, toX(float64(prev)), toY(p.Pitch[prev]), toX(float64(i)), toY(hz), contourColor)
		} else {
			setPixel(img, toX(float64(i)), toY(hz), contourColor)
		}
		prev = i
	}

	// Event bars at average pitch.
	for _, ev := range p.Events {
		avg := esig.MeanPitch(p.Pitch, ev)
		if avg <= 0 {
			continue
		}
		y := toY(avg)
		x0, x1 := toX(float64(ev.Start)), toX(float64(ev.End-1))
		for x := x0; x <= x1; x++ {
			setPixel(img, x, y, eventColor)
			setPixel(img, x, y+1, eventColor)
		}
	}

	if p.PitchRate > 0 {
		seconds := float64(len(p.Pitch)) / p.PitchRate
		drawLabel(img, face, fmt.Sprintf("%.2f s, %d events", seconds, len(p.Events)),
			margin, cfg.height-margin/3)
	}

	return img, nil
}

// WritePNG renders and saves in one step.
func WritePNG(path string, p esig.PitchPlot, opts ...Option) error {
	img, err := RenderPitch(p, opts...)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("plot: encoding %s: %w", path, err)
	}
	return nil
}

func loadFace(cfg config) (font.Face, func(), error) {
	if cfg.fontFile == "" {
		return basicfont.Face7x13, func() {}, nil
	}

	data, err := os.ReadFile(cfg.fontFile)
	if err != nil {
		return nil, nil, fmt.Errorf("plot: loading font: %w", err)
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("plot: parsing font: %w", err)
	}

	face := truetype.NewFace(parsed, &truetype.Options{Size: cfg.fontSize, DPI: 72})
	return face, func() { face.Close() }, nil
}

// fitRange picks an axis range covering all voiced frames with headroom.
func fitRange(pitch []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, hz := range pitch {
		if hz <= 0 {
			continue
		}
		lo = math.Min(lo, hz)
		hi = math.Max(hi, hz)
	}
	if math.IsInf(lo, 1) {
		return 50, 600
	}

	pad := (hi - lo) * 0.15
	if pad < 10 {
		pad = 10
	}
	lo -= pad
	if lo < 1 {
		lo = 1
	}
	return lo, hi + pad
}

func drawGrid(img *image.RGBA, face font.Face, minHz, maxHz float64, toY func(float64) int, cfg config) {
	step := gridStep(maxHz - minHz)
	for hz := math.Ceil(minHz/step) * step; hz <= maxHz; hz += step {
		y := toY(hz)
		for x := margin; x < cfg.width-margin; x++ {
			setPixel(img, x, y, gridColor)
		}
		drawLabel(img, face, fmt.Sprintf("%.0f Hz", hz), 4, y+4)
	}
}

func gridStep(span float64) float64 {
	steps := []float64{10, 20, 50, 100, 200, 500, 1000}
	for _, s := range steps {
		if span/s <= 8 {
			return s
		}
	}
	return 1000
}

func drawLabel(img *image.RGBA, face font.Face, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawLine rasterizes a segment with integer Bresenham stepping.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		setPixel(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
