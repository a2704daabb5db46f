package compositor

import (
	"image/color"
	"testing"

	"github.com/natew/mmmd/internal/ansi"
	"github.com/natew/mmmd/internal/config"
	"github.com/natew/mmmd/internal/layout"
	"github.com/natew/mmmd/internal/timeline"
	"github.com/natew/mmmd/internal/typeface"
)

func testSetup(t *testing.T, text string) (*config.Config, layout.Metrics, *typeface.Family, ansi.Document) {
	t.Helper()
	cfg := &config.Config{
		Columns:    40,
		FPS:        30,
		CanvasW:    640,
		CanvasH:    360,
		PaddingPx:  24,
		FontSize:   14,
		Background: color.RGBA{0x0d, 0x11, 0x17, 0xff},
		Window:     color.RGBA{0x16, 0x1b, 0x22, 0xff},
		Border:     color.RGBA{0x30, 0x36, 0x3d, 0xff},
	}
	fonts, err := typeface.Load("", cfg.FontSize)
	if err != nil {
		t.Fatalf("Load typeface: %v", err)
	}
	doc := ansi.ParseDocument(text)
	m := layout.Compute(cfg, len(doc), fonts.CharWidth)
	return cfg, m, fonts, doc
}

func TestRenderFrameBasics(t *testing.T) {
	cfg, m, fonts, doc := testSetup(t, "hello \x1b[1;31mworld\x1b[0m\nsecond line")
	c, err := New(m, cfg, doc, fonts, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	img := c.RenderFrame(timeline.Frame{Index: 0, Zoom: 1})
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 360 {
		t.Fatalf("Unexpected canvas size: %v", img.Bounds())
	}

	// Canvas corner is plain background.
	if got := img.RGBAAt(2, 2); got != cfg.Background {
		t.Errorf("Corner pixel: expected background %v, got %v", cfg.Background, got)
	}

	// Center of the title bar is window fill (dots sit on the left).
	tx := int(m.WinX + m.WinW/2)
	ty := int(m.WinY) + 10
	if got := img.RGBAAt(tx, ty); got != cfg.Window {
		t.Errorf("Title bar pixel: expected window %v, got %v", cfg.Window, got)
	}
}

func TestRenderFrameProgressBar(t *testing.T) {
	cfg, m, fonts, doc := testSetup(t, "one line")
	c, err := New(m, cfg, doc, fonts, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Center of the bar's fill row.
	px := int(m.CanvasW / 2)
	py := int(m.CanvasH) - 22

	img := c.RenderFrame(timeline.Frame{Zoom: 1})
	without := img.RGBAAt(px, py)
	if without == textWhite {
		t.Errorf("No progress requested, but the fill color is present")
	}

	img = c.RenderFrame(timeline.Frame{Zoom: 1, ShowProgress: true, Progress: 1})
	if got := img.RGBAAt(px, py); got != textWhite {
		t.Errorf("Full progress bar must fill the track center, got %v", got)
	}
}

func TestRenderFrameZoomKeepsContentTop(t *testing.T) {
	cfg, m, fonts, doc := testSetup(t, "anchor")
	c, err := New(m, cfg, doc, fonts, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// The zoom pivots on the top of the content area: the window must fill
	// the full canvas width at target zoom, with the left edge at 0.
	img := c.RenderFrame(timeline.Frame{Zoom: m.TargetZoom})
	cy := int(m.ContentY) + 2
	if got := img.RGBAAt(1, cy); got == cfg.Background {
		t.Errorf("At target zoom the window must reach the canvas edge, got %v", got)
	}
}

func TestRenderFrameScrollCulls(t *testing.T) {
	text := ""
	for i := 0; i < 200; i++ {
		text += "line\n"
	}
	cfg, m, fonts, doc := testSetup(t, text)
	if !m.HasScroll {
		t.Fatalf("200 lines must scroll")
	}
	c, err := New(m, cfg, doc, fonts, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// Just exercises the culling paths at both scroll extremes.
	c.RenderFrame(timeline.Frame{Zoom: m.TargetZoom, Scroll: 0})
	c.RenderFrame(timeline.Frame{Zoom: m.TargetZoom, Scroll: m.MaxScroll})
}

func TestSpanColorResolution(t *testing.T) {
	red, _ := ansi.Red.RGBA()
	cases := []struct {
		st   ansi.Style
		want color.RGBA
	}{
		{ansi.Style{}, textWhite},
		{ansi.Style{Dim: true}, dimGray},
		{ansi.Style{Fg: ansi.Red}, red},
		{ansi.Style{Fg: ansi.Red, Dim: true}, red}, // explicit color wins over dim
	}
	for _, c := range cases {
		if got := spanColor(c.st); got != c.want {
			t.Errorf("spanColor(%+v) = %v, expected %v", c.st, got, c.want)
		}
	}
}
