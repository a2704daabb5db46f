// Package config holds the fully-resolved run configuration. Everything is
// fixed before the first frame is generated and never mutated afterwards.
package config

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

type Config struct {
	InputPath  string
	OutputPath string

	Size    string // small | medium | large
	Aspect  string // landscape | portrait | square
	Padding string // small | medium | large

	Columns      int
	FPS          int
	Quality      int
	FontFamily   string // empty = embedded Go Mono
	PageWait     float64
	OverlapLines int
	Workers      int

	BackgroundHex string
	WindowHex     string
	BorderHex     string

	RendererCmd   string
	RendererStyle string
	FromStdin     bool

	ThemePath string
	PlanPath  string
	QRURL     string

	VideoEncoder string

	// Filled in by Resolve.
	CanvasW, CanvasH int
	PaddingPx        float64
	FontSize         float64
	Background       color.RGBA
	Window           color.RGBA
	Border           color.RGBA
}

// canvasPresets maps size tier x aspect mode to canvas pixels.
var canvasPresets = map[string]map[string][2]int{
	"small":  {"landscape": {1280, 720}, "portrait": {720, 1280}, "square": {720, 720}},
	"medium": {"landscape": {1920, 1080}, "portrait": {1080, 1920}, "square": {1080, 1080}},
	"large":  {"landscape": {2560, 1440}, "portrait": {1440, 2560}, "square": {1440, 1440}},
}

var fontPresets = map[string]float64{"small": 14, "medium": 18, "large": 24}

var paddingPresets = map[string]float64{"small": 24, "medium": 48, "large": 80}

// Validate checks every tunable against its allowed range. It runs before
// any rendering; a failure here is the only way an option error surfaces.
func (c *Config) Validate() error {
	if _, ok := canvasPresets[c.Size]; !ok {
		return fmt.Errorf("invalid size %q (expected small, medium or large)", c.Size)
	}
	if _, ok := canvasPresets[c.Size][c.Aspect]; !ok {
		return fmt.Errorf("invalid aspect %q (expected landscape, portrait or square)", c.Aspect)
	}
	if _, ok := paddingPresets[c.Padding]; !ok {
		return fmt.Errorf("invalid padding %q (expected small, medium or large)", c.Padding)
	}
	if c.Columns <= 0 {
		return fmt.Errorf("columns must be positive, got %d", c.Columns)
	}
	if c.FPS < 1 {
		return fmt.Errorf("fps must be at least 1, got %d", c.FPS)
	}
	if c.Quality < 0 {
		return fmt.Errorf("quality must not be negative, got %d", c.Quality)
	}
	if c.PageWait < 0 {
		return fmt.Errorf("wait must not be negative, got %f", c.PageWait)
	}
	if c.OverlapLines < 0 {
		return fmt.Errorf("overlap must not be negative, got %d", c.OverlapLines)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path must not be empty")
	}
	for _, hex := range []string{c.BackgroundHex, c.WindowHex, c.BorderHex} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("invalid color %q: %w", hex, err)
		}
	}
	return nil
}

// Resolve validates the configuration and fills in the derived fields:
// canvas dimensions, padding and font pixels from the preset tables, and
// the three parsed colors.
func (c *Config) Resolve() error {
	if err := c.Validate(); err != nil {
		return err
	}
	dims := canvasPresets[c.Size][c.Aspect]
	c.CanvasW, c.CanvasH = dims[0], dims[1]
	c.PaddingPx = paddingPresets[c.Padding]
	c.FontSize = fontPresets[c.Size]
	c.Background = parseHex(c.BackgroundHex)
	c.Window = parseHex(c.WindowHex)
	c.Border = parseHex(c.BorderHex)
	return nil
}

func parseHex(hex string) color.RGBA {
	cf, _ := colorful.Hex(hex) // validated above
	r, g, b := cf.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
